// Package llmtest provides a scripted llm.LLMProvider for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"trip-assistant-be/pkg/llm"
)

// Fake answers with Reply, or with the first Rules entry whose key appears in
// the last message. Echo returns the last message unchanged when no rule
// matched. Err, when set, is returned for every call.
type Fake struct {
	Reply string
	Rules map[string]string
	Echo  bool
	Err   error

	mu    sync.Mutex
	Calls [][]llm.Message
}

var _ llm.LLMProvider = &Fake{}

func (f *Fake) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, append([]llm.Message(nil), history...))
	f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	if len(history) > 0 {
		last := history[len(history)-1].Content
		for key, reply := range f.Rules {
			if strings.Contains(last, key) {
				return reply, nil
			}
		}
		if f.Echo {
			return last, nil
		}
	}
	return f.Reply, nil
}

func (f *Fake) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// CallCount is safe to use while the fake is shared between goroutines
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
