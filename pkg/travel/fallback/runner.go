package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/provider"
	"trip-assistant-be/pkg/travel/synthetic"
)

type Source string

const (
	SourceProvider  Source = "provider"
	SourceSynthetic Source = "synthetic"
	SourceNone      Source = "none"
)

const (
	DefaultMemoSize = 256
	DefaultMemoTTL  = 10 * time.Minute
)

// CapabilityResult is the outcome of one capability run. Payload is never
// empty.
type CapabilityResult struct {
	Capability    travel.Capability
	Source        Source
	ProviderID    string
	Payload       string
	SyntheticKind synthetic.Kind
	Attempts      []provider.Result
}

// Synthesizer produces substitute data once a chain is exhausted
type Synthesizer interface {
	Generate(ctx context.Context, c travel.Capability, p provider.Params) synthetic.Output
}

// Observer receives one call per attempt and per synthetic answer
type Observer interface {
	ObserveAttempt(capability, provider, status string, elapsed time.Duration)
	ObserveSynthetic(capability, kind string)
}

// MemoObserver is optionally implemented by an Observer to count results
// served from the memo
type MemoObserver interface {
	ObserveMemoHit(capability, provider string)
}

type Option func(*Runner)

// WithObserver reports attempts, typically to prometheus
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithMemo keeps up to size successful results keyed by provider and params
// for ttl. Reservation results are never memoized. A size of zero disables
// the memo.
func WithMemo(size int, ttl time.Duration) Option {
	return func(r *Runner) {
		if size <= 0 {
			r.memo = nil
			return
		}
		if ttl <= 0 {
			ttl = DefaultMemoTTL
		}
		r.memo = expirable.NewLRU[string, provider.Result](size, nil, ttl)
	}
}

// Runner tries the adapters of a capability strictly one at a time
type Runner struct {
	chains   map[travel.Capability][]provider.Adapter
	synth    Synthesizer
	memo     *expirable.LRU[string, provider.Result]
	observer Observer
	logger   logger.ILogger
}

func NewRunner(synth Synthesizer, log logger.ILogger, opts ...Option) *Runner {
	r := &Runner{
		chains: make(map[travel.Capability][]provider.Adapter),
		synth:  synth,
		logger: log,
	}
	WithMemo(DefaultMemoSize, DefaultMemoTTL)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends adapters to the chain of their capability in the order
// given
func (r *Runner) Register(adapters ...provider.Adapter) {
	for _, a := range adapters {
		r.chains[a.Capability()] = append(r.chains[a.Capability()], a)
	}
}

// Chain returns the adapters tried for c. Recommendations share the
// points-of-interest chain unless they have one of their own.
func (r *Runner) Chain(c travel.Capability) []provider.Adapter {
	if chain, ok := r.chains[c]; ok {
		return chain
	}
	if c == travel.CapabilityRecommendations {
		return r.chains[travel.CapabilityPOI]
	}
	return nil
}

var tracer = otel.Tracer("trip-assistant/fallback")

// Run never fails. Every capability except reservation ends with data,
// synthetic if need be; a failed reservation reports the failure plainly.
func (r *Runner) Run(ctx context.Context, c travel.Capability, p provider.Params) CapabilityResult {
	ctx, span := tracer.Start(ctx, "fallback.Run")
	defer span.End()
	span.SetAttributes(attribute.String("capability", string(c)))

	res := CapabilityResult{Capability: c}
	chain := r.Chain(c)
	if r.tryChain(ctx, c, chain, p, &res) {
		span.SetAttributes(attribute.String("source", string(res.Source)), attribute.String("provider", res.ProviderID))
		return res
	}

	if c == travel.CapabilityReservation {
		res.Source = SourceNone
		res.ProviderID = provider.ToolReservation
		res.Payload = reservationFailure(res.Attempts)
		span.SetStatus(codes.Error, "reservation failed")
		return res
	}

	if c == travel.CapabilityDirections && allTransient(res.Attempts) && p.Origin != "" && p.Destination != "" {
		search := provider.Params{Query: fmt.Sprintf("transportation options from %s to %s", p.Origin, p.Destination)}
		r.logger.Info("FALLBACK", "Maps providers failed, trying transportation search", map[string]interface{}{"query": search.Query})
		if r.tryChain(ctx, travel.CapabilityGeneral, r.Chain(travel.CapabilityGeneral), search, &res) {
			span.SetAttributes(attribute.String("source", string(res.Source)), attribute.String("provider", res.ProviderID))
			return res
		}
	}

	out := r.synth.Generate(ctx, c, p)
	res.Source = SourceSynthetic
	res.ProviderID = out.ProviderID
	res.Payload = out.Payload
	res.SyntheticKind = out.Kind
	if r.observer != nil {
		r.observer.ObserveSynthetic(string(c), string(out.Kind))
	}
	r.logger.Warn("FALLBACK", "All providers failed, serving synthetic data", map[string]interface{}{
		"capability": c,
		"attempts":   len(res.Attempts),
		"kind":       out.Kind,
	})
	span.SetAttributes(attribute.String("source", string(SourceSynthetic)), attribute.String("synthetic_kind", string(out.Kind)))
	return res
}

// tryChain records every attempt on res and stops at the first success. A
// reservation chain also stops after the first adapter that actually ran.
func (r *Runner) tryChain(ctx context.Context, c travel.Capability, chain []provider.Adapter, p provider.Params, res *CapabilityResult) bool {
	for _, a := range chain {
		available := a.IsAvailable()
		attempt := r.attempt(ctx, c, a, available, p)
		res.Attempts = append(res.Attempts, attempt)
		if attempt.OK() {
			res.Source = SourceProvider
			res.ProviderID = attempt.ProviderID
			res.Payload = attempt.Payload
			return true
		}
		r.logger.Warn("FALLBACK", "Provider attempt failed", map[string]interface{}{
			"capability": c,
			"provider":   attempt.ProviderID,
			"status":     attempt.Status,
			"reason":     attempt.Reason,
		})
		if c == travel.CapabilityReservation && (available || attempt.Status == provider.StatusValidationError) {
			return false
		}
	}
	return false
}

func (r *Runner) attempt(ctx context.Context, c travel.Capability, a provider.Adapter, available bool, p provider.Params) (result provider.Result) {
	defer func() {
		if r.observer != nil {
			r.observer.ObserveAttempt(string(c), result.ProviderID, string(result.Status), time.Duration(result.ElapsedMS)*time.Millisecond)
		}
	}()

	if v, ok := a.(provider.ParamValidator); ok {
		if err := v.ValidateParams(p); err != nil {
			return provider.FromError(a.ID(), err, 0)
		}
	}
	if !available {
		return provider.Failed(a.ID(), provider.StatusProviderError, "provider is not configured", 0)
	}

	key := string(c) + "|" + a.ID() + "|" + p.Key()
	memoize := r.memo != nil && c != travel.CapabilityReservation
	if memoize {
		if cached, ok := r.memo.Get(key); ok {
			if mo, ok := r.observer.(MemoObserver); ok {
				mo.ObserveMemoHit(string(c), a.ID())
			}
			return cached
		}
	}

	ctx, span := tracer.Start(ctx, "provider.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("capability", string(c)), attribute.String("provider", a.ID()))

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = provider.Failed(a.ID(), provider.StatusProviderError, fmt.Sprintf("provider panicked: %v", rec), time.Since(start))
			span.SetStatus(codes.Error, result.Reason)
		}
	}()

	result = a.Execute(ctx, p)
	if result.ProviderID == "" {
		result.ProviderID = a.ID()
	}
	span.SetAttributes(attribute.String("status", string(result.Status)), attribute.Int64("elapsed_ms", result.ElapsedMS))
	if !result.OK() {
		span.SetStatus(codes.Error, result.Reason)
		return result
	}
	if memoize {
		r.memo.Add(key, result)
	}
	return result
}

// allTransient reports whether every attempt failed on the provider side
func allTransient(attempts []provider.Result) bool {
	for _, a := range attempts {
		if a.Status != provider.StatusProviderError && a.Status != provider.StatusTimeout {
			return false
		}
	}
	return true
}

func reservationFailure(attempts []provider.Result) string {
	if len(attempts) == 0 {
		return "I couldn't make the reservation: no reservation service is configured. No booking was made."
	}
	last := attempts[len(attempts)-1]
	switch last.Status {
	case provider.StatusValidationError:
		return "I couldn't make the reservation because some details are missing (" + last.Reason + "). " +
			"Please include the business name, its phone number, the name for the booking and the date and time."
	case provider.StatusTimeout:
		return "The reservation call did not finish in time, so I can't confirm a booking. " + last.Reason + ". Please check with the venue directly."
	default:
		return "I couldn't make the reservation: " + last.Reason + ". No booking was made."
	}
}
