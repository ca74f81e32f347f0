package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/travel"
)

const (
	DefaultVapiBaseURL      = "https://api.vapi.ai"
	DefaultCallPollInterval = 10 * time.Second
	DefaultCallMaxWait      = 180 * time.Second
	defaultCallMessage      = "Hello! This is a call from your trip assistant."
)

// VapiClient places outbound phone calls and waits for them to finish
type VapiClient struct {
	APIKey        string
	PhoneNumberID string
	BaseURL       string
	PollInterval  time.Duration
	MaxWait       time.Duration
	HTTP          *http.Client
	logger        logger.ILogger
}

func NewVapiClient(apiKey, phoneNumberID, baseURL string, log logger.ILogger) *VapiClient {
	if baseURL == "" {
		baseURL = DefaultVapiBaseURL
	}
	return &VapiClient{
		APIKey:        apiKey,
		PhoneNumberID: phoneNumberID,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		PollInterval:  DefaultCallPollInterval,
		MaxWait:       DefaultCallMaxWait,
		HTTP:          &http.Client{Timeout: 30 * time.Second},
		logger:        log,
	}
}

func (c *VapiClient) configured() bool {
	return c != nil && c.APIKey != "" && c.PhoneNumberID != ""
}

type callModel struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Messages []callMessage `json:"messages"`
}

type callMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type callAssistant struct {
	FirstMessage string    `json:"firstMessage"`
	Model        callModel `json:"model"`
	Voice        string    `json:"voice,omitempty"`
}

type callCustomer struct {
	Number string `json:"number"`
}

type callRequest struct {
	Assistant     callAssistant `json:"assistant"`
	PhoneNumberID string        `json:"phoneNumberId"`
	Customer      callCustomer  `json:"customer"`
}

// CallRecord is the provider's view of one call
type CallRecord struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	EndedReason string `json:"endedReason"`
	Transcript  string `json:"transcript"`
	Summary     string `json:"summary"`
}

var errCallFailed = errors.New("call did not complete")

// Place starts a call and polls until it ends or MaxWait elapses. It never
// places a second call.
func (c *VapiClient) Place(ctx context.Context, number, firstMessage, instructions string) (*CallRecord, error) {
	reqBody := callRequest{
		Assistant: callAssistant{
			FirstMessage: firstMessage,
			Model: callModel{
				Provider: "google",
				Model:    "gemini-2.0-flash",
				Messages: []callMessage{{Role: "system", Content: instructions}},
			},
		},
		PhoneNumberID: c.PhoneNumberID,
		Customer:      callCustomer{Number: number},
	}

	var started CallRecord
	if err := c.do(ctx, http.MethodPost, c.BaseURL+"/call/phone", reqBody, &started); err != nil {
		return nil, fmt.Errorf("create call: %w: %w", travel.ErrProvider, err)
	}
	if started.ID == "" {
		return nil, fmt.Errorf("no call id received: %w", travel.ErrProvider)
	}
	c.logger.Info("VAPI", "Call created", map[string]interface{}{"call_id": started.ID})

	waitCtx, cancel := context.WithTimeout(ctx, c.MaxWait)
	defer cancel()
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			return &started, fmt.Errorf("call %s initiated but status monitoring timed out: %w", started.ID, travel.ErrTimeout)
		case <-ticker.C:
		}

		var rec CallRecord
		if err := c.do(waitCtx, http.MethodGet, c.BaseURL+"/call/"+started.ID, nil, &rec); err != nil {
			c.logger.Warn("VAPI", "Call status poll failed", map[string]interface{}{"call_id": started.ID, "error": err.Error()})
			continue
		}
		if rec.ID == "" {
			rec.ID = started.ID
		}
		switch rec.Status {
		case "completed", "ended":
			if rec.Transcript == "" && rec.Summary == "" {
				return &rec, fmt.Errorf("call %s ended (%s) with no transcript: %w", rec.ID, valueOr(rec.EndedReason, "unknown"), errCallFailed)
			}
			return &rec, nil
		case "failed", "expired":
			return &rec, fmt.Errorf("call %s %s: %w", rec.ID, rec.Status, errCallFailed)
		}
	}
}

func (c *VapiClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return json.Unmarshal(raw, out)
}

// FormatTranscript labels speakers line by line
func FormatTranscript(transcript string) string {
	var sb strings.Builder
	sb.WriteString("📞 Call Transcript:\n\n")
	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "Assistant:"), strings.HasPrefix(line, "AI:"):
			sb.WriteString("🤖 " + line + "\n")
		case strings.HasPrefix(line, "Customer:"), strings.HasPrefix(line, "User:"):
			sb.WriteString("👤 " + line + "\n")
		default:
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

// VapiReservation validates a reservation and places the booking call
type VapiReservation struct {
	client *VapiClient
}

var _ Adapter = &VapiReservation{}

func NewVapiReservation(client *VapiClient) *VapiReservation {
	return &VapiReservation{client: client}
}

func (v *VapiReservation) ID() string                    { return ToolReservation }
func (v *VapiReservation) Capability() travel.Capability { return travel.CapabilityReservation }
func (v *VapiReservation) IsAvailable() bool             { return v.client.configured() }

// request returns the validated reservation carried by params, falling back
// to a JSON document in the query
func (v *VapiReservation) request(params Params) (*ReservationRequest, error) {
	req := params.Reservation
	if req == nil && strings.HasPrefix(strings.TrimSpace(params.Query), "{") {
		parsed, err := ParseReservation(params.Query)
		if err != nil {
			return nil, err
		}
		req = parsed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (v *VapiReservation) ValidateParams(params Params) error {
	_, err := v.request(params)
	return err
}

func (v *VapiReservation) Execute(ctx context.Context, params Params) Result {
	start := time.Now()
	req, err := v.request(params)
	if err != nil {
		return FromError(ToolReservation, err, time.Since(start))
	}

	rec, err := v.client.Place(ctx, req.PhoneNumber,
		"Hello, I'm calling on behalf of a client. I'd like to make a reservation.", CallScript(req))
	if err != nil {
		if rec != nil && rec.ID != "" {
			err = fmt.Errorf("%w (reference %s)", err, Reference(req.ServiceType, rec.ID))
		}
		if errors.Is(err, travel.ErrTimeout) {
			return Failed(ToolReservation, StatusTimeout, err.Error(), time.Since(start))
		}
		return Failed(ToolReservation, StatusProviderError, err.Error(), time.Since(start))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Call completed with %s.\n\n", req.ServiceName)
	fmt.Fprintf(&sb, "Service type: %s\n", req.ServiceType)
	fmt.Fprintf(&sb, "Reservation name: %s\n", req.UserName)
	if req.Details.Date != "" {
		fmt.Fprintf(&sb, "Date: %s\n", req.Details.Date)
	}
	if req.Details.Time != "" {
		fmt.Fprintf(&sb, "Time: %s\n", req.Details.Time)
	}
	if req.Details.NumPeople > 0 {
		fmt.Fprintf(&sb, "Number of people: %d\n", req.Details.NumPeople)
	}
	if req.Details.Duration != "" {
		fmt.Fprintf(&sb, "Duration: %s\n", req.Details.Duration)
	}
	fmt.Fprintf(&sb, "Reference #: %s\n", Reference(req.ServiceType, rec.ID))
	if rec.Summary != "" {
		fmt.Fprintf(&sb, "\nCall summary: %s\n", rec.Summary)
	}
	if rec.Transcript != "" {
		sb.WriteString("\n" + FormatTranscript(rec.Transcript))
	}
	return OK(ToolReservation, sb.String(), time.Since(start))
}

// VapiCall places a direct call to a number given by the user
type VapiCall struct {
	client *VapiClient
}

func NewVapiCall(client *VapiClient) *VapiCall {
	return &VapiCall{client: client}
}

func (v *VapiCall) IsAvailable() bool { return v.client.configured() }

// ParseCallTarget splits "+1415... with message 'hi'" into number and message
func ParseCallTarget(input string) (number, message string) {
	message = defaultCallMessage
	number = input
	if before, after, ok := strings.Cut(input, "with message"); ok {
		number = before
		if m := strings.Trim(strings.TrimSpace(after), `"'`); m != "" {
			message = m
		}
	}
	number = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '+' {
			return r
		}
		return -1
	}, number)
	if number != "" && !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return number, message
}

// Call places the call and returns the formatted transcript as payload
func (v *VapiCall) Call(ctx context.Context, number, message string) Result {
	start := time.Now()
	if !v.IsAvailable() {
		return Failed(ToolDirectCall, StatusProviderError, "call credentials are not configured", time.Since(start))
	}
	number, parsedMessage := ParseCallTarget(number)
	if message == "" {
		message = parsedMessage
	}
	if len(number) < 8 {
		return Failed(ToolDirectCall, StatusValidationError, "a valid phone number is required", time.Since(start))
	}

	rec, err := v.client.Place(ctx, number, message, directCallInstructions)
	if err != nil {
		if errors.Is(err, travel.ErrTimeout) {
			return Failed(ToolDirectCall, StatusTimeout, err.Error(), time.Since(start))
		}
		return Failed(ToolDirectCall, StatusProviderError, err.Error(), time.Since(start))
	}
	text := rec.Transcript
	if text == "" {
		text = rec.Summary
	}
	return OK(ToolDirectCall, FormatTranscript(text), time.Since(start))
}

const directCallInstructions = `You are a travel assistant making a call to make a reservation.
Your primary goal is to make a reservation for the customer. Be professional, friendly, and direct.
1. Introduce yourself
2. State that you're calling to make a reservation
3. Ask for availability and make the reservation
4. Confirm all details (date, time, number of people, special requests)
5. Get a confirmation number if available
6. Thank them for their time
If they ask about services or pricing, politely redirect the conversation back to making the reservation.`
