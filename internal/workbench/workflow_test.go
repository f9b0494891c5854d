package workbench

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/crmforge/orderbench/internal/render"
)

type captureNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (n *captureNotifier) Notify(notif Notification) {
	n.mu.Lock()
	n.items = append(n.items, notif)
	n.mu.Unlock()
}

func (n *captureNotifier) last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return Notification{}, false
	}
	return n.items[len(n.items)-1], true
}

// stubRenderer fails for chosen content strings, otherwise emits a
// fixed PNG-ish payload.
type stubRenderer struct {
	failFor map[string]bool
	renders int32
}

func (r *stubRenderer) Render(content string, target render.Surface, opts render.Options) ([]byte, error) {
	if r.failFor[content] {
		return nil, errors.New("encode refused")
	}
	atomic.AddInt32(&r.renders, 1)
	data := []byte("PNG:" + content)
	if target != nil {
		target.SetImage(data)
	}
	return data, nil
}

func newTestWorkflow(src *stubSource, rend render.Renderer) (*Workflow, *Store, *captureNotifier) {
	store := NewStore(src)
	notifier := &captureNotifier{}
	loader := render.NewLoader(nil)
	flow := NewWorkflow(store, src, loader, rend, render.NewMemoryResolver(), notifier, nil)
	return flow, store, notifier
}

func TestGenerateScenario(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = twoRowOrder()
	flow, store, _ := newTestWorkflow(src, &stubRenderer{})

	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if store.Snapshot().HasAnyGenerated {
		t.Fatal("fresh order should have no generated rows")
	}

	out, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Info {
		t.Error("first generation should not be informational")
	}

	snap := store.Snapshot()
	if !snap.HasAnyGenerated {
		t.Error("hasAnyGenerated should flip after generation")
	}
	row, _ := store.Row("li-1")
	if !row.BarcodeGenerated {
		t.Error("row not marked generated")
	}
	if row.State != GeneratedConfirmed {
		t.Errorf("row state = %v, want confirmed after reload", row.State)
	}
	other, _ := store.Row("li-2")
	if other.BarcodeGenerated {
		t.Error("sibling row must be unchanged")
	}
	if src.persistCalls != 1 {
		t.Errorf("persist calls = %d, want 1", src.persistCalls)
	}
}

func TestGenerateTwiceIsInformational(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = twoRowOrder()
	flow, store, notifier := newTestWorkflow(src, &stubRenderer{})
	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions()); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	out, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions())
	if err != nil {
		t.Fatalf("second generate should not error: %v", err)
	}
	if !out.Info {
		t.Error("second generate should report an informational outcome")
	}
	if src.persistCalls != 1 {
		t.Errorf("second generate must not persist again, calls = %d", src.persistCalls)
	}
	if n, ok := notifier.last(); !ok || n.Severity != SeverityInfo {
		t.Errorf("expected info notification, got %+v", n)
	}
}

func TestGeneratePersistFailureRollsBack(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = twoRowOrder()
	src.persistErr = errors.New("write rejected")
	flow, store, notifier := newTestWorkflow(src, &stubRenderer{})
	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	_, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions())
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("want PersistError, got %v", err)
	}
	row, _ := store.Row("li-1")
	if row.BarcodeGenerated || row.State != NotGenerated || row.BarcodeImage != "" {
		t.Errorf("row should roll back to NotGenerated, got %+v", row)
	}
	if n, ok := notifier.last(); !ok || n.Severity != SeverityError {
		t.Errorf("expected error notification, got %+v", n)
	}
}

func TestGenerateUsesDraftLocation(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = twoRowOrder()
	flow, store, _ := newTestWorkflow(src, &stubRenderer{})
	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := store.SetDraftLocation("li-1", "C-12"); err != nil {
		t.Fatalf("draft: %v", err)
	}

	if _, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := src.persisted["li-1"]; got != "C-12" {
		t.Errorf("persisted location = %q, want the draft value", got)
	}
	if _, ok := store.Draft("li-1"); ok {
		t.Error("draft should be cleared after a successful generation")
	}
}

func TestGenerateWithoutSelection(t *testing.T) {
	src := newStubSource()
	flow, _, _ := newTestWorkflow(src, &stubRenderer{})

	_, err := flow.Generate(context.Background(), "li-1", render.DefaultOptions())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if src.persistCalls != 0 {
		t.Error("no persist call without a selection")
	}
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = []Row{
		{ID: "li-1", OrderNumber: "SO-100", ProductName: "Widget"},
		{ID: "li-2", OrderNumber: "SO-100", ProductName: "Gadget"},
		{ID: "li-3", OrderNumber: "SO-100", ProductName: "Sprocket"},
	}
	rend := &stubRenderer{failFor: map[string]bool{"Gadget": true}}
	flow, store, _ := newTestWorkflow(src, rend)
	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	result, err := flow.GenerateBatch(context.Background(), TierProduct, render.DefaultOptions())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Rendered != 2 {
		t.Errorf("rendered = %d, want 2", result.Rendered)
	}
	if len(result.Failed) != 1 || result.Failed[0] != SurfaceKey(TierProduct, "Gadget") {
		t.Errorf("failed = %v", result.Failed)
	}
	if src.persistCalls != 0 {
		t.Error("batch tiers are render-only")
	}
}

func TestGenerateBatchOrderTier(t *testing.T) {
	src := newStubSource()
	src.lines["O-1"] = twoRowOrder()
	src.headers["O-1"] = OrderHeader{ID: "O-1", Number: "SO-100", AccountName: "Acme"}
	rend := &stubRenderer{}
	flow, store, _ := newTestWorkflow(src, rend)
	if err := store.Select(context.Background(), "O-1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	result, err := flow.GenerateBatch(context.Background(), TierOrder, render.DefaultOptions())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Rendered != 1 {
		t.Errorf("rendered = %d, want 1", result.Rendered)
	}
}
