package service

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"trip-assistant-be/internal/constant"
	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/internal/repository/memory"
	"trip-assistant-be/pkg/events"
	"trip-assistant-be/pkg/llm"
	"trip-assistant-be/pkg/progress"
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/extract"
	"trip-assistant-be/pkg/travel/fallback"
	"trip-assistant-be/pkg/travel/intent"
	"trip-assistant-be/pkg/travel/provider"
	"trip-assistant-be/pkg/travel/synthetic"
	"trip-assistant-be/pkg/tripcache"
)

type IAssistantService interface {
	HandleMessage(ctx context.Context, text string, user dto.UserInfo) string
	HandleSummaryRequest(ctx context.Context, userID string) string
	HandleCallRequest(ctx context.Context, userID, phone string) string
	RegisterProgressCallback(fn progress.Callback) error
	Close()
}

// Caller places a direct outbound call
type Caller interface {
	IsAvailable() bool
	Call(ctx context.Context, number, message string) provider.Result
}

// EventPublisher is satisfied by the NATS publisher
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// MessageObserver is satisfied by *metrics.Metrics
type MessageObserver interface {
	ObserveMessage(capability string)
}

type AssistantDeps struct {
	LLM          llm.LLMProvider
	Preprocessor *intent.Preprocessor
	Router       *intent.Router
	Runner       *fallback.Runner
	Sessions     memory.ISessionRepository
	TripCache    *tripcache.Manager
	Caller       Caller
	Progress     *progress.Bus
	Scheduler    *progress.Scheduler
	Events       EventPublisher
	Metrics      MessageObserver
	Logger       logger.ILogger

	HistorySent      int
	StatusClearDelay time.Duration
	Now              func() time.Time
}

type assistantService struct {
	AssistantDeps
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAssistantService(deps AssistantDeps) IAssistantService {
	if deps.Router == nil {
		deps.Router = intent.NewRouter()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = progress.NewScheduler()
	}
	if deps.HistorySent <= 0 {
		deps.HistorySent = memory.DefaultHistorySent
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &assistantService{AssistantDeps: deps, ctx: ctx, cancel: cancel}
}

// RegisterProgressCallback delivers status updates to fn until Close
func (s *assistantService) RegisterProgressCallback(fn progress.Callback) error {
	if s.Progress == nil {
		return fmt.Errorf("progress bus is not configured")
	}
	return s.Progress.Subscribe(s.ctx, fn)
}

func (s *assistantService) Close() {
	s.Scheduler.Stop()
	s.cancel()
}

// HandleMessage never fails: any error or panic becomes a generic reply
func (s *assistantService) HandleMessage(ctx context.Context, text string, user dto.UserInfo) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("ASSISTANT", "Panic while handling message", map[string]interface{}{
				"user_id": user.ID,
				"panic":   fmt.Sprint(r),
				"stack":   string(debug.Stack()),
			})
			reply = constant.GenericErrorMessage
		}
	}()

	s.Logger.Info("ASSISTANT", "Processing message", map[string]interface{}{"user_id": user.ID, "text": text})
	s.status(user, constant.ThinkingStatus, false)
	defer s.scheduleClear(user)

	session := s.Sessions.GetOrCreate(user.ID)

	var pre *intent.Preclassification
	if s.Preprocessor != nil {
		pre = s.Preprocessor.Preprocess(ctx, text)
	}
	decision := s.Router.Route(text, pre)
	if s.Metrics != nil {
		s.Metrics.ObserveMessage(string(decision.Capability))
	}
	s.Logger.Info("ASSISTANT", "Message routed", map[string]interface{}{
		"user_id":    user.ID,
		"capability": decision.Capability,
		"rule":       decision.Rule,
	})

	var steps []any
	if decision.Capability == travel.CapabilityNone {
		query := extract.Extract(travel.CapabilityGeneral, text, s.Now())
		reply = s.chat(ctx, session, text, query)
	} else {
		query := s.structuredQuery(decision, pre, text)
		s.status(user, statusFor(decision.Capability), true)

		params := s.params(ctx, decision, query, user)
		result := s.Runner.Run(ctx, decision.Capability, params)
		reply = s.compose(ctx, text, query, result)
		steps = append(steps, tripcache.ToolStep{
			ToolName:   result.ProviderID,
			ToolInput:  s.stepInput(decision, params),
			ToolOutput: result.Payload,
			Status:     stepStatus(result),
		})
		rememberTrip(session, query)
	}

	session.Append(llm.RoleUser, text)
	session.Append(llm.RoleAssistant, reply)
	s.Sessions.Save(session)

	s.record(ctx, user.ID, text, tripcache.Interaction{Response: reply, Steps: steps})
	return reply
}

func (s *assistantService) HandleSummaryRequest(ctx context.Context, userID string) string {
	c, err := s.TripCache.Read(ctx, userID)
	if err != nil {
		s.Logger.Error("ASSISTANT", "Failed to read trip cache for summary", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return constant.SummaryErrorMessage
	}
	return tripcache.Summarize(c)
}

func (s *assistantService) HandleCallRequest(ctx context.Context, userID, phone string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("ASSISTANT", "Panic while placing call", map[string]interface{}{"user_id": userID, "panic": fmt.Sprint(r)})
			reply = constant.CallErrorMessage
		}
	}()

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return constant.CallUsageMessage
	}
	if s.Caller == nil || !s.Caller.IsAvailable() {
		return "Phone calls are not configured on this assistant, so no call was placed."
	}

	caller := dto.UserInfo{ID: userID}
	s.status(caller, "📞 Calling "+phone+"...", false)
	defer s.scheduleClear(caller)

	res := s.Caller.Call(ctx, phone, "")
	switch {
	case res.OK():
		reply = "📞 Call completed.\n\n" + res.Payload
	case res.Status == provider.StatusValidationError:
		reply = constant.CallUsageMessage
	case res.Status == provider.StatusTimeout:
		reply = "The call did not finish in time. Please check your phone or try again later."
	default:
		s.Logger.Warn("ASSISTANT", "Direct call failed", map[string]interface{}{"user_id": userID, "reason": res.Reason})
		reply = "I couldn't complete the call: " + res.Reason
	}

	s.record(ctx, userID, "/call "+phone, tripcache.Interaction{
		Response: reply,
		Steps: []any{tripcache.ToolStep{
			ToolName:   provider.ToolDirectCall,
			ToolInput:  phone,
			ToolOutput: res.Payload,
			Status:     string(res.Status),
		}},
	})
	return reply
}

// structuredQuery extracts parameters from the routed message and fills any
// gap from the pre-classification
func (s *assistantService) structuredQuery(d intent.Decision, pre *intent.Preclassification, original string) travel.StructuredQuery {
	q := extract.Extract(d.Capability, d.Message, s.Now())
	q.RawText = original
	if pre != nil {
		if q.Origin == "" {
			q.Origin = strings.ToLower(pre.Origin)
		}
		if q.Destination == "" && d.Capability != travel.CapabilityTranslation {
			q.Destination = strings.ToLower(pre.Destination)
		}
		if q.Date == "" {
			q.Date = pre.DateInfo.StartDate
		}
		if len(q.Preferences) == 0 {
			q.Preferences = pre.Preferences
		}
	}
	return q
}

func (s *assistantService) params(ctx context.Context, d intent.Decision, q travel.StructuredQuery, user dto.UserInfo) provider.Params {
	p := provider.Params{
		Query:       d.Message,
		Origin:      q.Origin,
		Destination: q.Destination,
		Date:        q.Date,
	}
	switch d.Capability {
	case travel.CapabilityFlight:
		p.OriginCode, _ = extract.AirportCode(q.Origin)
		p.DestinationCode, _ = extract.AirportCode(q.Destination)
	case travel.CapabilityTranslation:
		p.Text, p.TargetLanguage = provider.ParseTranslation(d.Message)
	case travel.CapabilityReservation:
		p.Reservation = s.structureReservation(ctx, d.Message, user)
	}
	return p
}

// stepInput is what the trip cache records as the tool input. Reservation
// steps keep the structured request so the booking can be extracted later.
func (s *assistantService) stepInput(d intent.Decision, p provider.Params) string {
	if d.Capability != travel.CapabilityReservation || p.Reservation == nil {
		return d.Message
	}
	raw, err := json.Marshal(p.Reservation)
	if err != nil {
		s.Logger.Warn("ASSISTANT", "Failed to encode reservation request", map[string]interface{}{"error": err.Error()})
		return d.Message
	}
	return string(raw)
}

// structureReservation asks the model to turn a free-text booking request
// into a reservation document. nil means the model gave nothing usable and
// the adapter will report the request as incomplete.
func (s *assistantService) structureReservation(ctx context.Context, message string, user dto.UserInfo) *provider.ReservationRequest {
	if s.LLM == nil {
		return nil
	}
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.ReservationSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.ReservationStructuringPrompt, message, user.DisplayName())},
	}
	raw, err := s.LLM.Chat(ctx, history, llm.WithTemperature(0))
	if err != nil {
		s.Logger.Warn("ASSISTANT", "Reservation structuring failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	var req provider.ReservationRequest
	if err := llm.ExtractJSON(raw, &req); err != nil {
		s.Logger.Warn("ASSISTANT", "Reservation structuring returned no JSON", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return &req
}

// compose turns a capability result into the user-facing reply. A failed
// reservation is returned as-is.
func (s *assistantService) compose(ctx context.Context, text string, q travel.StructuredQuery, res fallback.CapabilityResult) string {
	if res.Source == fallback.SourceNone {
		return res.Payload
	}

	structured, _ := json.Marshal(q)
	notice := ""
	if res.Source == fallback.SourceSynthetic {
		notice = fmt.Sprintf(constant.SyntheticNotice, syntheticLabel(res.SyntheticKind))
	}
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: s.systemPrompt()},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.ToolReplyPrompt, text, res.Payload, structured, notice)},
	}
	reply, err := s.LLM.Chat(ctx, history)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.Logger.Warn("ASSISTANT", "Reply generation failed, returning tool output", map[string]interface{}{"error": fmt.Sprint(err)})
		return res.Payload
	}
	return reply
}

// chat answers from the model and recent history alone
func (s *assistantService) chat(ctx context.Context, session *memory.Session, text string, q travel.StructuredQuery) string {
	structured, _ := json.Marshal(q)
	history := []llm.Message{{Role: llm.RoleSystem, Content: s.systemPrompt()}}
	history = append(history, session.Recent(s.HistorySent)...)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf(constant.ChatFallbackPrompt, text, structured)})

	reply, err := s.LLM.Chat(ctx, history)
	if err != nil {
		s.Logger.Error("ASSISTANT", "Chat fallback failed", map[string]interface{}{"error": err.Error()})
		return constant.GenericErrorMessage
	}
	return reply
}

func (s *assistantService) systemPrompt() string {
	return fmt.Sprintf(constant.AssistantSystemPrompt, s.Now().Format("January 2, 2006"))
}

// record writes the interaction to the trip cache and announces it. Both are
// best effort.
func (s *assistantService) record(ctx context.Context, userID, query string, in tripcache.Interaction) {
	if s.TripCache != nil {
		if _, err := s.TripCache.AppendInteraction(ctx, userID, query, in); err != nil {
			s.Logger.Error("ASSISTANT", "Failed to update trip cache", map[string]interface{}{"user_id": userID, "error": err.Error()})
		}
	}
	if s.Events == nil {
		return
	}
	e, err := tripcache.InteractionEvent(userID, query, in, s.Now())
	if err == nil {
		err = s.Events.Publish(ctx, e)
	}
	if err != nil {
		s.Logger.Warn("ASSISTANT", "Failed to publish interaction event", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}
}

func (s *assistantService) status(user dto.UserInfo, text string, replace bool) {
	if s.Progress == nil {
		return
	}
	s.Scheduler.Cancel(user.ID)
	if err := s.Progress.Publish(progress.Update{UserID: user.ID, ChatID: user.ChatID, Text: text, Replace: replace}); err != nil {
		s.Logger.Warn("ASSISTANT", "Failed to publish progress", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
	}
}

// scheduleClear removes the status message after a short delay. A newer
// message from the same user cancels it.
func (s *assistantService) scheduleClear(user dto.UserInfo) {
	if s.Progress == nil {
		return
	}
	s.Scheduler.Schedule(user.ID, s.StatusClearDelay, func() {
		if err := s.Progress.Publish(progress.Update{UserID: user.ID, ChatID: user.ChatID, Replace: true}); err != nil {
			s.Logger.Warn("ASSISTANT", "Failed to clear status message", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
		}
	})
}

func rememberTrip(session *memory.Session, q travel.StructuredQuery) {
	if q.Origin != "" {
		session.TripInfo["origin"] = q.Origin
	}
	if q.Destination != "" {
		session.TripInfo["destination"] = q.Destination
	}
	if q.Date != "" {
		session.TripInfo["date"] = q.Date
	}
}

func stepStatus(res fallback.CapabilityResult) string {
	switch res.Source {
	case fallback.SourceProvider:
		return string(provider.StatusOK)
	case fallback.SourceSynthetic:
		return string(fallback.SourceSynthetic)
	}
	if n := len(res.Attempts); n > 0 {
		return string(res.Attempts[n-1].Status)
	}
	return string(provider.StatusProviderError)
}

func syntheticLabel(kind synthetic.Kind) string {
	switch kind {
	case synthetic.KindCurated:
		return "curated sample data"
	case synthetic.KindEstimated:
		return "an AI estimate"
	default:
		return "a general notice"
	}
}

func statusFor(c travel.Capability) string {
	switch c {
	case travel.CapabilityFlight:
		return "✈️ Searching for flights..."
	case travel.CapabilityPOI, travel.CapabilityRecommendations:
		return "🏛️ Looking up places to visit..."
	case travel.CapabilityDirections:
		return "🗺️ Finding directions..."
	case travel.CapabilityTranslation:
		return "🌐 Translating..."
	case travel.CapabilityReservation:
		return "📞 Calling to make your reservation..."
	default:
		return "🔎 Searching..."
	}
}
