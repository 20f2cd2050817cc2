// Package event runs a domain event through resolution, composition, in-app
// persistence and push delivery.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Defimaso/Diario362-sub001/internal/repo"
	"github.com/Defimaso/Diario362-sub001/internal/schema"
	"github.com/Defimaso/Diario362-sub001/internal/service/notification"
	"github.com/Defimaso/Diario362-sub001/internal/service/push"
	"github.com/Defimaso/Diario362-sub001/internal/service/recipient"
)

// Event is the inbound descriptor. It is never persisted.
type Event struct {
	Type       string         `json:"type"`
	ClientID   uuid.UUID      `json:"clientId"`
	AuthorID   *uuid.UUID     `json:"authorId,omitempty"`
	AuthorName string         `json:"authorName,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Validate rejects events the pipeline cannot route.
func (e Event) Validate() error {
	if _, ok := recipient.TargetingFor(e.Type); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if e.ClientID == uuid.Nil {
		return ErrMissingClient
	}
	return nil
}

// Result tallies one dispatch.
type Result struct {
	Recipients int `json:"recipients"`
	InApp      int `json:"inApp"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
	Removed    int `json:"removed"`
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type Resolver interface {
	Resolve(ctx context.Context, req recipient.Request) ([]uuid.UUID, error)
}

type Writer interface {
	Write(ctx context.Context, targets []uuid.UUID, c notification.Content) int
}

type Dispatcher interface {
	Dispatch(ctx context.Context, targets []uuid.UUID, p push.Payload) push.Result
}

type Profiles interface {
	Get(ctx context.Context, id uuid.UUID) (*schema.Profile, error)
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

type Pipeline struct {
	resolver     Resolver
	writer       Writer
	dispatcher   Dispatcher
	profiles     Profiles
	branding     push.Branding
	asyncTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

type Options struct {
	Branding     push.Branding
	AsyncTimeout time.Duration
}

func New(resolver Resolver, writer Writer, dispatcher Dispatcher, profiles Profiles, opts Options) *Pipeline {
	if opts.AsyncTimeout <= 0 {
		opts.AsyncTimeout = time.Minute
	}
	return &Pipeline{
		resolver:     resolver,
		writer:       writer,
		dispatcher:   dispatcher,
		profiles:     profiles,
		branding:     opts.Branding,
		asyncTimeout: opts.AsyncTimeout,
	}
}

// Dispatch handles e synchronously. Every resolved recipient gets an in-app
// row; push is attempted afterwards regardless of how many rows were written.
// An event that resolves to nobody succeeds with a zero result.
func (p *Pipeline) Dispatch(ctx context.Context, e Event) (Result, error) {
	if err := e.Validate(); err != nil {
		return Result{}, err
	}

	targets, err := p.resolver.Resolve(ctx, recipient.Request{
		Type:     e.Type,
		ClientID: e.ClientID,
		AuthorID: e.AuthorID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("resolve recipients: %w", err)
	}
	if len(targets) == 0 {
		slog.InfoContext(ctx, "event: no recipients", "type", e.Type, "client_id", e.ClientID)
		return Result{}, nil
	}

	content, err := notification.Compose(notification.Input{
		Type:        e.Type,
		ClientID:    e.ClientID,
		SubjectName: p.subjectName(ctx, e),
		AuthorName:  e.AuthorName,
		Metadata:    e.Metadata,
	})
	if err != nil {
		return Result{}, fmt.Errorf("compose: %w", err)
	}

	res := Result{Recipients: len(targets)}
	res.InApp = p.writer.Write(ctx, targets, content)

	pr := p.dispatcher.Dispatch(ctx, targets, p.branding.Payload(content))
	res.Sent, res.Failed, res.Removed = pr.Sent, pr.Failed, pr.Removed

	slog.InfoContext(ctx, "event: dispatched",
		"type", e.Type,
		"client_id", e.ClientID,
		"recipients", res.Recipients,
		"in_app", res.InApp,
		"sent", res.Sent,
		"failed", res.Failed,
	)
	return res, nil
}

// Submit runs e in the background, detached from the caller's cancellation
// but bounded by the async timeout. Outcomes are only logged.
func (p *Pipeline) Submit(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrShuttingDown
	}
	p.pending.Add(1)
	p.mu.Unlock()

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.asyncTimeout)
	go func() {
		defer p.pending.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(bg, "event: async dispatch panicked", "type", e.Type, "panic", r)
			}
		}()

		if _, err := p.Dispatch(bg, e); err != nil {
			slog.ErrorContext(bg, "event: async dispatch failed",
				"type", e.Type, "client_id", e.ClientID, "err", err)
		}
	}()
	return nil
}

// Wait stops accepting new submissions and blocks until in-flight ones
// finish or ctx is done.
func (p *Pipeline) Wait(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) subjectName(ctx context.Context, e Event) string {
	prof, err := p.profiles.Get(ctx, e.ClientID)
	switch {
	case err == nil && strings.TrimSpace(prof.FullName) != "":
		return prof.FullName
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		slog.WarnContext(ctx, "event: load subject profile failed", "client_id", e.ClientID, "err", err)
	}
	if name, ok := e.Metadata[notification.MetaClientName].(string); ok && strings.TrimSpace(name) != "" {
		return name
	}
	return notification.DefaultSubjectName
}
