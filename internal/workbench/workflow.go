package workbench

import (
	"context"
	"fmt"
	"log"

	"github.com/crmforge/orderbench/internal/render"
)

// GenerationRecord is handed to the recorder after a confirmed
// generation, for the local audit trail.
type GenerationRecord struct {
	RowID   string
	OrderID string
	Tier    Tier
	Content string
	Image   string
	Options render.Options
}

// Recorder stores generation records. Failures are logged, never fatal.
type Recorder interface {
	RecordGeneration(ctx context.Context, rec GenerationRecord) error
}

// Workflow sequences barcode generation: guard, resolve location,
// compose content, ensure the renderer is loaded, render, persist,
// refresh. All row mutation goes through the store.
type Workflow struct {
	store    *Store
	source   Source
	loader   *render.Loader
	engine   render.Renderer
	resolver render.Resolver
	notifier Notifier
	recorder Recorder
}

// NewWorkflow wires a workflow. notifier and recorder may be nil.
func NewWorkflow(store *Store, source Source, loader *render.Loader, engine render.Renderer, resolver render.Resolver, notifier Notifier, recorder Recorder) *Workflow {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Workflow{
		store:    store,
		source:   source,
		loader:   loader,
		engine:   engine,
		resolver: resolver,
		notifier: notifier,
		recorder: recorder,
	}
}

// Outcome reports how a generation ended
type Outcome struct {
	Info    bool   `json:"info,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Generate runs the full single-row workflow. A row that is already
// generated yields an informational outcome, not an error.
func (w *Workflow) Generate(ctx context.Context, rowID string, opts render.Options) (Outcome, error) {
	orderID := w.store.OrderID()
	if orderID == "" {
		return w.fail("Generation failed", &ValidationError{Reason: "no order selected"})
	}
	row, ok := w.store.Row(rowID)
	if !ok {
		return w.fail("Generation failed", &ValidationError{Reason: "row not found: " + rowID})
	}
	if row.BarcodeGenerated {
		out := Outcome{Info: true, Title: "Already generated", Message: fmt.Sprintf("A barcode already exists for %s", row.ProductName)}
		w.notifier.Notify(Notification{Title: out.Title, Message: out.Message, Severity: SeverityInfo})
		return out, nil
	}

	location := row.WarehouseLocation
	if draft, ok := w.store.Draft(rowID); ok {
		location = draft
	}
	content := ComposeRowContent(row.OrderNumber, row.ProductName, row.ID)

	if err := w.loader.EnsureReady(ctx); err != nil {
		return w.fail("Barcode renderer unavailable", err)
	}

	surface, err := w.resolver.Surface(SurfaceKey(TierLineItem, rowID))
	if err != nil {
		return w.fail("Generation failed", err)
	}
	pngData, err := w.engine.Render(content, surface, opts)
	if err != nil {
		return w.fail("Generation failed", err)
	}
	image := render.EncodeDataURL(pngData)

	w.store.ApplyGenerated(rowID, image, location)

	if err := w.source.PersistBarcode(ctx, rowID, image, location); err != nil {
		w.store.RevertGenerated(rowID)
		return w.fail("Failed to save barcode", &PersistError{RowID: rowID, Err: err})
	}

	w.store.ClearDraft(rowID)
	if err := w.store.Reload(ctx); err != nil {
		log.Printf("⚠️ reload after generation failed: %v", err)
	}
	if w.recorder != nil {
		rec := GenerationRecord{RowID: rowID, OrderID: orderID, Tier: TierLineItem, Content: content, Image: image, Options: opts}
		if err := w.recorder.RecordGeneration(ctx, rec); err != nil {
			log.Printf("⚠️ audit record failed for row %s: %v", rowID, err)
		}
	}

	out := Outcome{Title: "Success", Message: fmt.Sprintf("Barcode generated for %s", row.ProductName)}
	w.notifier.Notify(Notification{Title: out.Title, Message: out.Message, Severity: SeveritySuccess})
	return out, nil
}

// BatchResult summarizes a batch tier run
type BatchResult struct {
	Tier     Tier     `json:"tier"`
	Rendered int      `json:"rendered"`
	Failed   []string `json:"failed,omitempty"`
}

// GenerateBatch renders one barcode per item of the tier's collection.
// Batch tiers are display-only: nothing is persisted. A failure on one
// item never aborts its siblings.
func (w *Workflow) GenerateBatch(ctx context.Context, tier Tier, opts render.Options) (BatchResult, error) {
	result := BatchResult{Tier: tier}
	if !ValidTier(tier) {
		_, err := w.fail("Batch generation failed", &ValidationError{Reason: "unknown tier: " + string(tier)})
		return result, err
	}
	orderID := w.store.OrderID()
	if orderID == "" {
		_, err := w.fail("Batch generation failed", &ValidationError{Reason: "no order selected"})
		return result, err
	}

	type item struct {
		key     string
		content string
	}
	var items []item
	switch tier {
	case TierOrder:
		header, err := w.source.OrderHeader(ctx, orderID)
		if err != nil {
			_, ferr := w.fail("Batch generation failed", &FetchError{Op: "order header", Err: err})
			return result, ferr
		}
		items = append(items, item{key: SurfaceKey(TierOrder, orderID), content: header.Number})
	case TierProduct:
		seen := make(map[string]bool)
		for _, r := range w.store.Snapshot().Rows {
			if r.ProductName == "" || seen[r.ProductName] {
				continue
			}
			seen[r.ProductName] = true
			items = append(items, item{key: SurfaceKey(TierProduct, r.ProductName), content: r.ProductName})
		}
	case TierLineItem:
		for _, r := range w.store.Snapshot().Rows {
			items = append(items, item{key: SurfaceKey(TierLineItem, r.ID), content: r.ID})
		}
	}

	if err := w.loader.EnsureReady(ctx); err != nil {
		_, ferr := w.fail("Barcode renderer unavailable", err)
		return result, ferr
	}

	for _, it := range items {
		surface, err := w.resolver.Surface(it.key)
		if err == nil {
			_, err = w.engine.Render(it.content, surface, opts)
		}
		if err != nil {
			log.Printf("⚠️ batch render failed for %s: %v", it.key, err)
			result.Failed = append(result.Failed, it.key)
			continue
		}
		result.Rendered++
	}

	w.notifier.Notify(Notification{
		Title:    "Batch complete",
		Message:  fmt.Sprintf("Rendered %d of %d %s barcodes", result.Rendered, len(items), tier),
		Severity: SeveritySuccess,
	})
	return result, nil
}

// fail notifies the user and logs before returning the error
func (w *Workflow) fail(title string, err error) (Outcome, error) {
	log.Printf("❌ %s: %v", title, err)
	w.notifier.Notify(Notification{Title: title, Message: err.Error(), Severity: SeverityError})
	return Outcome{Title: title, Message: err.Error()}, err
}
