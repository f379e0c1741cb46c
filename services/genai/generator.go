package genaisvc

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

type (
	// Generator sends each prompt on its own, with no history.
	Generator struct {
		provider Provider
	}

	// Conversation keeps one running dialogue. Each Send carries the earlier turns as context;
	// once more than maxHistory messages are kept, the oldest exchanges are dropped.
	// Sends are serialized so turns never interleave. Each one is bounded by timeout,
	// and a caller waiting for its turn gives up when its ctx is done.
	Conversation struct {
		provider   Provider
		maxHistory int
		timeout    time.Duration

		turn    chan struct{} // held by the Send in flight
		mu      sync.Mutex    // guards history
		history []Message
	}
)

var (
	_ core.TextGenerator = (*Generator)(nil)
	_ core.Conversation  = (*Conversation)(nil)
)

func NewGenerator(p Provider) *Generator {
	return &Generator{provider: p}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.provider.Complete(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// NewConversation starts an empty dialogue. maxHistory <= 0 keeps every turn; a zero timeout
// lets a reply take as long as the caller's ctx allows.
func NewConversation(p Provider, maxHistory int, timeout time.Duration) *Conversation {
	return &Conversation{
		provider:   p,
		maxHistory: maxHistory,
		timeout:    timeout,
		turn:       make(chan struct{}, 1),
	}
}

// Send adds message to the dialogue and returns the reply. A failed exchange is not recorded.
func (c *Conversation) Send(ctx context.Context, message string) (string, error) {
	select {
	case c.turn <- struct{}{}:
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for the conversation")
	}
	defer func() { <-c.turn }()

	messages := append(c.History(), Message{Role: RoleUser, Content: message})

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	reply, err := c.provider.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(messages, Message{Role: RoleAssistant, Content: reply})
	c.trim()
	return reply, nil
}

// History returns a copy of the recorded turns.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// trim drops whole user/assistant exchanges from the front.
func (c *Conversation) trim() {
	if c.maxHistory <= 0 {
		return
	}
	for len(c.history) > c.maxHistory && len(c.history) >= 2 {
		c.history = c.history[2:]
	}
}
