package render

import (
	"context"
	"sync"
)

// LoadError signals that the rendering capability could not be made
// available. Callers may invoke EnsureReady again to retry.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "barcode renderer unavailable: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFunc performs the one-time capability load
type LoadFunc func(ctx context.Context) error

// Loader makes the rendering capability available exactly once per
// session. The first caller starts the load; every caller that arrives
// before it resolves awaits the same underlying operation. Success is
// memoized for good; failure is not, so the next call retries.
type Loader struct {
	mu      sync.Mutex
	load    LoadFunc
	ready   bool
	pending chan struct{}
	lastErr error
}

// NewLoader wraps a load function. A nil fn yields an always-ready
// loader.
func NewLoader(fn LoadFunc) *Loader {
	if fn == nil {
		fn = func(context.Context) error { return nil }
	}
	return &Loader{load: fn}
}

// SelfTestLoad exercises the encoders once so a broken capability is
// caught before the first user-triggered render.
func SelfTestLoad(ctx context.Context) error {
	var e Engine
	if _, err := e.Render("SELFTEST", nil, Options{Symbology: SymbologyCode128, Width: 100, Height: 40}); err != nil {
		return err
	}
	_, err := e.Render("SELFTEST", nil, Options{Symbology: SymbologyQR, Width: 64, Height: 64})
	return err
}

// EnsureReady blocks until the capability is loaded or the load fails
func (l *Loader) EnsureReady(ctx context.Context) error {
	l.mu.Lock()
	if l.ready {
		l.mu.Unlock()
		return nil
	}
	if l.pending != nil {
		ch := l.pending
		l.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.ready {
			return nil
		}
		return &LoadError{Err: l.lastErr}
	}

	ch := make(chan struct{})
	l.pending = ch
	l.mu.Unlock()

	err := l.load(ctx)

	l.mu.Lock()
	l.pending = nil
	l.lastErr = err
	if err == nil {
		l.ready = true
	}
	close(ch)
	l.mu.Unlock()

	if err != nil {
		return &LoadError{Err: err}
	}
	return nil
}

// Ready reports whether the capability has loaded successfully
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}
