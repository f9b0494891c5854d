package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestEnsureReadyLoadsOnce(t *testing.T) {
	var loads int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = loader.EnsureReady(context.Background())
	}()
	<-started // first caller is inside the load

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = loader.EnsureReady(context.Background())
	}()

	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("underlying load ran %d times, want 1", n)
	}

	// Resolved: further calls return immediately without loading again.
	if err := loader.EnsureReady(context.Background()); err != nil {
		t.Errorf("post-resolution call: %v", err)
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("memoized loader reloaded, %d loads", n)
	}
}

func TestEnsureReadyRetriesAfterFailure(t *testing.T) {
	var loads int32
	loader := NewLoader(func(ctx context.Context) error {
		if atomic.AddInt32(&loads, 1) == 1 {
			return errors.New("fetch failed")
		}
		return nil
	})

	err := loader.EnsureReady(context.Background())
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want LoadError, got %v", err)
	}
	if loader.Ready() {
		t.Error("loader must not memoize a failure")
	}

	if err := loader.EnsureReady(context.Background()); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if !loader.Ready() {
		t.Error("loader not ready after successful retry")
	}
	if n := atomic.LoadInt32(&loads); n != 2 {
		t.Errorf("loads = %d, want 2", n)
	}
}

func TestSelfTestLoad(t *testing.T) {
	if err := SelfTestLoad(context.Background()); err != nil {
		t.Fatalf("self test: %v", err)
	}
}
