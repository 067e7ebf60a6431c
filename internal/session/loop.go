package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inamate/svgedit/internal/engine"
)

var ErrStopped = errors.New("session loop stopped")

type op struct {
	fn   func(*engine.Engine)
	done chan struct{}
}

// Loop owns an Engine and runs every access to it on one goroutine.
type Loop struct {
	engine *engine.Engine
	ops    chan op
	done   chan struct{}
}

func NewLoop(e *engine.Engine) *Loop {
	return &Loop{
		engine: e,
		ops:    make(chan op),
		done:   make(chan struct{}),
	}
}

// Run serves Do calls until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case o := <-l.ops:
			l.apply(o)
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) apply(o op) {
	defer close(o.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in session loop", "error", r)
		}
	}()
	o.fn(l.engine)
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*engine.Engine)) error {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case l.ops <- o:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-o.done
	return nil
}
