package workbench

import (
	"context"
	"log"
	"sync"
)

// Store owns the row collection for the currently selected order plus
// the per-row draft edits. All mutation goes through Store methods;
// callers get copies, never references into the live slice.
type Store struct {
	mu     sync.Mutex
	source Source

	orderID string
	rows    []Row
	drafts  map[string]string

	// loadSeq tags every load with the selection generation active at
	// request time. A response whose tag is no longer current is
	// discarded wholesale, so a slow load for a previous order can
	// never overwrite a faster load for the current one.
	loadSeq uint64

	loading         bool
	hasRows         bool
	hasAnyGenerated bool
}

// NewStore creates an empty store backed by the given source
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		drafts: make(map[string]string),
	}
}

// Snapshot is the UI-ready view of the store
type Snapshot struct {
	OrderID         string `json:"orderId"`
	Rows            []Row  `json:"rows"`
	IsLoading       bool   `json:"isLoading"`
	HasRows         bool   `json:"hasRows"`
	HasAnyGenerated bool   `json:"hasAnyGenerated"`
}

// Select switches the active order. A non-empty id clears all drafts
// and reloads; an empty id clears rows and drafts without any call.
func (s *Store) Select(ctx context.Context, orderID string) error {
	s.mu.Lock()
	s.drafts = make(map[string]string)
	s.orderID = orderID
	if orderID == "" {
		s.loadSeq++ // invalidate any in-flight load
		s.rows = nil
		s.loading = false
		s.hasRows = false
		s.hasAnyGenerated = false
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.Reload(ctx)
}

// OrderID returns the current selection, empty when none
func (s *Store) OrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

// Reload replaces the full row set from the source for the current
// selection. The loading flag is set while the fetch is in flight and
// cleared on every exit path owned by the still-current load.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	orderID := s.orderID
	if orderID == "" {
		s.mu.Unlock()
		return &ValidationError{Reason: "no order selected"}
	}
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.mu.Unlock()

	rows, err := s.source.OrderLines(ctx, orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq || orderID != s.orderID {
		// Superseded by a newer selection or reload; the newer load
		// owns the flags now.
		return nil
	}
	s.loading = false
	if err != nil {
		s.rows = nil
		s.hasRows = false
		s.hasAnyGenerated = false
		return &FetchError{Op: "order lines", Err: err}
	}
	for i := range rows {
		if rows[i].BarcodeGenerated {
			rows[i].State = GeneratedConfirmed
		} else {
			rows[i].State = NotGenerated
		}
	}
	s.rows = rows
	s.recomputeLocked()
	return nil
}

// Snapshot returns a copy of the current view state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]Row, len(s.rows))
	copy(rows, s.rows)
	return Snapshot{
		OrderID:         s.orderID,
		Rows:            rows,
		IsLoading:       s.loading,
		HasRows:         s.hasRows,
		HasAnyGenerated: s.hasAnyGenerated,
	}
}

// Row returns a copy of one row by id
func (s *Store) Row(rowID string) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == rowID {
			return r, true
		}
	}
	return Row{}, false
}

// SetDraftLocation buffers an unsaved location edit for a row. The
// canonical row value is untouched until a save succeeds.
func (s *Store) SetDraftLocation(rowID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == rowID {
			s.drafts[rowID] = value
			return nil
		}
	}
	return &ValidationError{Reason: "row not found: " + rowID}
}

// Draft returns the pending location edit for a row, if any
func (s *Store) Draft(rowID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.drafts[rowID]
	return v, ok
}

// ClearDraft drops the pending edit for a row
func (s *Store) ClearDraft(rowID string) {
	s.mu.Lock()
	delete(s.drafts, rowID)
	s.mu.Unlock()
}

// ApplyGenerated marks a row generated with the freshly rendered image
// and the location the persist call carries. This is the optimistic
// half of generation; Reload later confirms or corrects it.
func (s *Store) ApplyGenerated(rowID, image, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			s.rows[i].BarcodeGenerated = true
			s.rows[i].BarcodeImage = image
			s.rows[i].WarehouseLocation = location
			s.rows[i].State = GeneratedOptimistic
			s.recomputeLocked()
			return
		}
	}
}

// RevertGenerated rolls an optimistic row back to NotGenerated after a
// failed persist call.
func (s *Store) RevertGenerated(rowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == rowID && s.rows[i].State == GeneratedOptimistic {
			s.rows[i].BarcodeGenerated = false
			s.rows[i].BarcodeImage = ""
			s.rows[i].State = NotGenerated
			s.recomputeLocked()
			return
		}
	}
}

// SaveReport summarizes a SaveDrafts run
type SaveReport struct {
	// Blocked lists product names of drafted rows that have no
	// generated barcode yet; nothing was sent for them.
	Blocked []string `json:"blocked,omitempty"`
	Saved   []string `json:"saved,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}

// SaveDrafts persists all pending location edits. Rows without a
// generated barcode are blocked locally: the persist endpoint requires
// the stored image alongside the location, and the image only exists
// once generation has happened. For the rest the current image is
// fetched from the with-barcodes source and re-sent with the new
// location. If that fetch fails, no drafts are cleared. Drafts whose
// update call was issued are cleared whether it succeeded or not;
// blocked rows keep theirs. The store reloads afterwards regardless of
// partial failure.
func (s *Store) SaveDrafts(ctx context.Context) (SaveReport, error) {
	var report SaveReport

	s.mu.Lock()
	orderID := s.orderID
	if orderID == "" {
		s.mu.Unlock()
		return report, &ValidationError{Reason: "no order selected"}
	}
	type pending struct {
		rowID    string
		location string
	}
	var eligible []pending
	byID := make(map[string]Row, len(s.rows))
	for _, r := range s.rows {
		byID[r.ID] = r
	}
	for rowID, loc := range s.drafts {
		row, ok := byID[rowID]
		if !ok {
			continue
		}
		if !row.BarcodeGenerated {
			report.Blocked = append(report.Blocked, row.ProductName)
			continue
		}
		eligible = append(eligible, pending{rowID: rowID, location: loc})
	}
	s.mu.Unlock()

	if len(eligible) == 0 {
		return report, nil
	}

	lines, err := s.source.LinesWithBarcodes(ctx, orderID)
	if err != nil {
		// Drafts stay pending so the user can retry the save.
		return report, &FetchError{Op: "lines with barcodes", Err: err}
	}
	images := make(map[string]string, len(lines))
	for _, l := range lines {
		images[l.ID] = l.Image
	}

	var firstErr error
	for _, p := range eligible {
		image := images[p.rowID]
		if image == "" {
			// Generated locally but not yet visible server-side;
			// treat like a blocked row and keep the draft.
			if row, ok := s.Row(p.rowID); ok {
				report.Blocked = append(report.Blocked, row.ProductName)
			}
			continue
		}
		err := s.source.PersistBarcode(ctx, p.rowID, image, p.location)
		s.ClearDraft(p.rowID)
		if err != nil {
			report.Failed = append(report.Failed, p.rowID)
			if firstErr == nil {
				firstErr = &PersistError{RowID: p.rowID, Err: err}
			}
			continue
		}
		report.Saved = append(report.Saved, p.rowID)
	}

	if err := s.Reload(ctx); err != nil {
		log.Printf("⚠️ reload after save failed: %v", err)
	}
	return report, firstErr
}

func (s *Store) recomputeLocked() {
	s.hasRows = len(s.rows) > 0
	s.hasAnyGenerated = false
	for _, r := range s.rows {
		if r.BarcodeGenerated {
			s.hasAnyGenerated = true
			return
		}
	}
}
