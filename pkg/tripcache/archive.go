package tripcache

import (
	"context"
	"time"

	"trip-assistant-be/pkg/events"
)

// Replay applies an interaction.recorded event to the manager's store. It
// lets a second store, such as the postgres archive, be filled from the bus.
func (m *Manager) Replay(ctx context.Context, e events.Event) error {
	p, err := events.DecodeInteraction(e)
	if err != nil {
		m.logger.Warn("TRIPCACHE", "Ignoring malformed interaction event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	steps := make([]any, 0, len(p.Steps))
	for _, s := range p.Steps {
		steps = append(steps, ToolStep{ToolName: s.ToolName, ToolInput: s.ToolInput, ToolOutput: s.ToolOutput, Status: s.Status})
	}
	_, err = m.AppendInteraction(ctx, p.UserID, p.Query, Interaction{Response: p.Response, Steps: steps})
	return err
}

// InteractionEvent builds the event published after an interaction
func InteractionEvent(userID, query string, in Interaction, at time.Time) (events.BaseEvent, error) {
	p := events.InteractionPayload{UserID: userID, Query: query, Response: in.Response}
	for _, raw := range in.Steps {
		if s, ok := normalizeStep(raw); ok {
			p.Steps = append(p.Steps, events.StepPayload{ToolName: s.ToolName, ToolInput: s.ToolInput, ToolOutput: s.ToolOutput, Status: s.Status})
		}
	}
	return events.NewInteractionRecorded(p, at)
}
