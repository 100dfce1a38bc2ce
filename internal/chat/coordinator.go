// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/model"
)

// FallbackError is shown when a failure carries no backend detail.
const FallbackError = "Failed to get response"

// Service is the remote chat capability.
type Service interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithModel sets the model identifier sent with each request.
func WithModel(name string) Option {
	return func(c *Coordinator) {
		if strings.TrimSpace(name) != "" {
			c.model = strings.TrimSpace(name)
		}
	}
}

// Coordinator owns the in-flight gate and the displayed error for one
// conversation.
type Coordinator struct {
	mu       sync.Mutex
	svc      Service
	store    *model.Conversation
	model    string
	inFlight bool
	lastErr  string
}

// New creates a Coordinator writing into store.
func New(svc Service, store *model.Conversation, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:   svc,
		store: store,
		model: api.DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange is one open send. Call performs the remote request; Resolve
// settles it. Resolve must be called exactly once per Exchange; later calls
// are ignored.
type Exchange struct {
	c        *Coordinator
	text     string
	pending  model.Message
	mu       sync.Mutex
	resolved bool
}

// Begin opens an exchange for text. It returns false, with no state change,
// when the trimmed text is empty or another exchange is open.
func (c *Coordinator) Begin(text string) (*Exchange, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, false
	}

	c.inFlight = true
	c.lastErr = ""
	msg := model.NewUserMessage(trimmed)
	c.store.Append(msg)

	return &Exchange{c: c, text: trimmed, pending: msg}, true
}

// Text returns the trimmed message being sent.
func (e *Exchange) Text() string {
	return e.text
}

// MessageID returns the ID of the tentative user entry.
func (e *Exchange) MessageID() string {
	return e.pending.ID
}

// Call sends the message. It does not touch coordinator state; a panic in
// the service is returned as an error.
func (e *Exchange) Call(ctx context.Context) (resp *api.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("chat: recovered from panic in service call: %v", r)
			resp, err = nil, fmt.Errorf("chat service panic: %v", r)
		}
	}()

	req := api.ChatRequest{Message: e.text, Model: e.c.model}
	return e.c.svc.Chat(ctx, req)
}

// Resolve commits the reply or compensates for the failure, then releases
// the in-flight gate. It reports whether the exchange succeeded.
func (e *Exchange) Resolve(resp *api.ChatResponse, err error) bool {
	e.mu.Lock()
	if e.resolved {
		e.mu.Unlock()
		return false
	}
	e.resolved = true
	e.mu.Unlock()

	c := e.c
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.inFlight = false }()

	if err == nil && resp == nil {
		err = api.ErrMalformedResponse
	}
	if err != nil {
		c.lastErr = errorText(err)
		c.compensate(e.pending.ID)
		return false
	}

	c.store.Append(model.NewAssistantMessage(resp.Response, resp.Usage))
	return true
}

// compensate removes the tentative user entry. The last entry is removed
// only when it is the tentative one.
func (c *Coordinator) compensate(id string) {
	if last, ok := c.store.Last(); ok && last.ID == id {
		c.store.RemoveLast()
		return
	}
	if !c.store.RemoveByID(id) {
		log.Printf("chat: tentative message %s already gone", id)
	}
}

// SendMessage runs a full exchange. It returns false when the input was
// absorbed without a request.
func (c *Coordinator) SendMessage(ctx context.Context, text string) bool {
	ex, ok := c.Begin(text)
	if !ok {
		return false
	}

	var (
		resp *api.ChatResponse
		err  error
	)
	defer func() { ex.Resolve(resp, err) }()
	resp, err = ex.Call(ctx)
	return true
}

// Error returns the displayed error text, empty when none.
func (c *Coordinator) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Busy reports whether an exchange is open.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// History returns a snapshot of the conversation.
func (c *Coordinator) History() []model.Message {
	return c.store.Snapshot()
}

// Model returns the model identifier.
func (c *Coordinator) Model() string {
	return c.model
}

// ClearError dismisses the displayed error.
func (c *Coordinator) ClearError() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

func errorText(err error) string {
	if detail, ok := api.Detail(err); ok {
		return detail
	}
	return FallbackError
}
