// Package records owns the authoritative case collection: id assignment,
// ordering, batch merge and the durability contract against the backing
// store. It is read-through — every load reflects exactly what the store
// committed, so a failed write can never leave a phantom record visible.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"logbook/internal/core"
	"logbook/internal/store"
)

type Repository struct {
	// Serializes mutating operations. Behind net/http concurrent callers
	// are real, and the store has no cross-record transactions to lean on.
	mu sync.Mutex

	kv store.Store
}

func New(kv store.Store) *Repository {
	return &Repository{kv: kv}
}

// LoadAll returns every stored record, newest date first, ties broken by
// descending id. Unreadable or malformed entries are skipped and counted
// rather than failing the whole read; only an unreadable key listing is
// fatal.
func (r *Repository) LoadAll(ctx context.Context) ([]core.Record, error) {
	keys, err := r.kv.Keys(ctx)
	if err != nil {
		countOp("load_all", err)
		return nil, fmt.Errorf("%w: list keys: %v", ErrStorageUnavailable, err)
	}

	records := make([]core.Record, 0, len(keys))
	for _, key := range keys {
		raw, err := r.kv.Get(ctx, key)
		if err != nil {
			// Deleted between Keys and Get, or a bad entry. Good data wins
			// over completeness of one read.
			slog.WarnContext(ctx, "Skipping unreadable case", "key", key, "error", err)
			skippedTotal.Inc()
			continue
		}
		var rec core.Record
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
			slog.WarnContext(ctx, "Skipping malformed case", "key", key, "error", err)
			skippedTotal.Inc()
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Less(records[j]) })
	countOp("load_all", nil)
	return records, nil
}

// Create persists fields as a new record, assigning a fresh id when the
// input carries none, and returns the stored record. On failure nothing is
// stored and nothing becomes visible.
func (r *Repository) Create(ctx context.Context, fields core.Record) (core.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fields.ID == "" {
		fields.ID = core.NewID()
	}
	if err := r.put(ctx, fields); err != nil {
		countOp("create", err)
		return core.Record{}, err
	}

	slog.InfoContext(ctx, "Case saved", "id", fields.ID, "date", fields.Date, "specialty", fields.Specialty)
	countOp("create", nil)
	return fields, nil
}

// Update replaces the stored record wholesale. Semantics are upsert: an id
// unknown to the store is written, not rejected, so a caller can never lose
// an edit to a race with deletion. The record must carry an id.
func (r *Repository) Update(ctx context.Context, rec core.Record) error {
	if rec.ID == "" {
		return ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.put(ctx, rec); err != nil {
		countOp("update", err)
		return err
	}
	countOp("update", nil)
	return nil
}

// Delete removes the record with the given id. Idempotent; deleting an
// absent id succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Delete(ctx, id); err != nil {
		countOp("delete", err)
		return fmt.Errorf("%w: delete %s: %v", ErrStorageUnavailable, id, err)
	}
	slog.InfoContext(ctx, "Case deleted", "id", id)
	countOp("delete", nil)
	return nil
}

// ClearAll removes every record. Irreversible; meant for an explicit
// user-initiated reset only.
func (r *Repository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Clear(ctx); err != nil {
		countOp("clear_all", err)
		return fmt.Errorf("%w: clear: %v", ErrStorageUnavailable, err)
	}
	slog.WarnContext(ctx, "All cases cleared")
	countOp("clear_all", nil)
	return nil
}

// ImportBatch persists one record per input item. Items without an id get a
// fresh one — identity is never inferred from content, so re-importing the
// same logical case produces a second record. Items that carry an id upsert
// under it, matching what an export/re-import round trip expects. Per-item
// failures are collected in the report; the rest of the batch proceeds.
func (r *Repository) ImportBatch(ctx context.Context, items []core.Record) (ImportReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report ImportReport
	for i, item := range items {
		if item.ID == "" {
			item.ID = core.NewID()
		}
		if err := r.put(ctx, item); err != nil {
			slog.WarnContext(ctx, "Import item failed", "index", i, "id", item.ID, "error", err)
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Index: i, Err: err})
			continue
		}
		report.Added++
		importedTotal.Inc()
	}

	slog.InfoContext(ctx, "Import finished", "added", report.Added, "failed", report.Failed)
	countOp("import_batch", nil)
	return report, nil
}

func (r *Repository) put(ctx context.Context, rec core.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, rec.ID, err)
	}
	if err := r.kv.Set(ctx, rec.ID, raw); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorageUnavailable, rec.ID, err)
	}
	return nil
}
