package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

const recordColumns = "kind, id, owner_id, fields, position, created_at, updated_at"

// RecordRepository stores records of every kind as JSONB rows.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new instance of RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// List returns the records of a kind in insertion order.
func (r *RecordRepository) List(ctx context.Context, q models.RecordQuery) ([]models.Record, error) {
	conditions := []string{"kind = $1"}
	args := []interface{}{q.Kind}

	if q.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, q.OwnerID)
	}
	if q.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("fields->>'grade' = $%d", len(args)+1))
		args = append(args, q.Grade)
	}

	query := fmt.Sprintf("SELECT %s FROM records WHERE %s ORDER BY position ASC", recordColumns, strings.Join(conditions, " AND "))

	var rows []models.StoredRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s records: %w", q.Kind, err)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Get returns one record.
func (r *RecordRepository) Get(ctx context.Context, kind models.Kind, id string) (*models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM records WHERE kind = $1 AND id = $2 LIMIT 1", recordColumns)
	var row models.StoredRecord
	if err := r.db.GetContext(ctx, &row, query, kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get %s record: %w", kind, err)
	}
	rec, err := toRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a record owned by ownerID, assigning an id when missing.
func (r *RecordRepository) Create(ctx context.Context, rec models.Record, ownerID string) (*models.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", rec.Kind, err)
	}

	query := fmt.Sprintf("INSERT INTO records (kind, id, owner_id, fields) VALUES ($1, $2, $3, $4) RETURNING %s", recordColumns)
	var row models.StoredRecord
	if err := r.db.GetContext(ctx, &row, query, rec.Kind, rec.ID, ownerID, payload); err != nil {
		return nil, fmt.Errorf("create %s record: %w", rec.Kind, err)
	}
	created, err := toRecord(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the field map of an existing record.
func (r *RecordRepository) Update(ctx context.Context, rec models.Record) (*models.Record, error) {
	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", rec.Kind, err)
	}

	query := fmt.Sprintf("UPDATE records SET fields = $3, updated_at = NOW() WHERE kind = $1 AND id = $2 RETURNING %s", recordColumns)
	var row models.StoredRecord
	if err := r.db.GetContext(ctx, &row, query, rec.Kind, rec.ID, payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update %s record: %w", rec.Kind, err)
	}
	updated, err := toRecord(row)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a record.
func (r *RecordRepository) Delete(ctx context.Context, kind models.Kind, id string) error {
	const query = `DELETE FROM records WHERE kind = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, kind, id)
	if err != nil {
		return fmt.Errorf("delete %s record: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s record: %w", kind, err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// Count returns the number of stored records of a kind.
func (r *RecordRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	const query = `SELECT COUNT(*) FROM records WHERE kind = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, kind); err != nil {
		return 0, fmt.Errorf("count %s records: %w", kind, err)
	}
	return total, nil
}

func toRecord(row models.StoredRecord) (models.Record, error) {
	fields, err := models.DecodeFields(row.Fields)
	if err != nil {
		return models.Record{}, fmt.Errorf("decode %s record %s: %w", row.Kind, row.ID, err)
	}
	return models.Record{Kind: row.Kind, ID: row.ID, Fields: fields}, nil
}
