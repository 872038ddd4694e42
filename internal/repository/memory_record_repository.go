package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

type memoryRecord struct {
	record  models.Record
	ownerID string
}

// MemoryRecordRepository keeps records in process, for development and tests.
type MemoryRecordRepository struct {
	mu     sync.RWMutex
	byKind map[models.Kind][]memoryRecord
}

// NewMemoryRecordRepository creates an empty in-memory store.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{byKind: make(map[models.Kind][]memoryRecord)}
}

func (r *MemoryRecordRepository) List(ctx context.Context, q models.RecordQuery) ([]models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Record, 0, len(r.byKind[q.Kind]))
	for _, item := range r.byKind[q.Kind] {
		if q.OwnerID != "" && item.ownerID != q.OwnerID {
			continue
		}
		if q.Grade != "" && item.record.Fields.Text("grade") != q.Grade {
			continue
		}
		out = append(out, item.record.Clone())
	}
	return out, nil
}

func (r *MemoryRecordRepository) Get(ctx context.Context, kind models.Kind, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(kind, id); i >= 0 {
		rec := r.byKind[kind][i].record.Clone()
		return &rec, nil
	}
	return nil, appErrors.ErrNotFound
}

func (r *MemoryRecordRepository) Create(ctx context.Context, rec models.Record, ownerID string) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if r.indexOf(rec.Kind, rec.ID) >= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record already exists")
	}
	if rec.Fields == nil {
		rec.Fields = models.Fields{}
	}
	stored := rec.Clone()
	r.byKind[rec.Kind] = append(r.byKind[rec.Kind], memoryRecord{record: stored, ownerID: ownerID})
	out := stored.Clone()
	return &out, nil
}

func (r *MemoryRecordRepository) Update(ctx context.Context, rec models.Record) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(rec.Kind, rec.ID)
	if i < 0 {
		return nil, appErrors.ErrNotFound
	}
	r.byKind[rec.Kind][i].record = rec.Clone()
	out := rec.Clone()
	return &out, nil
}

func (r *MemoryRecordRepository) Delete(ctx context.Context, kind models.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(kind, id)
	if i < 0 {
		return appErrors.ErrNotFound
	}
	items := r.byKind[kind]
	r.byKind[kind] = append(items[:i], items[i+1:]...)
	return nil
}

func (r *MemoryRecordRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKind[kind]), nil
}

func (r *MemoryRecordRepository) indexOf(kind models.Kind, id string) int {
	for i, item := range r.byKind[kind] {
		if item.record.ID == id {
			return i
		}
	}
	return -1
}
