package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/schema"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

// RecordStore persists records of every kind.
type RecordStore interface {
	List(ctx context.Context, q models.RecordQuery) ([]models.Record, error)
	Get(ctx context.Context, kind models.Kind, id string) (*models.Record, error)
	Create(ctx context.Context, rec models.Record, ownerID string) (*models.Record, error)
	Update(ctx context.Context, rec models.Record) (*models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
	Count(ctx context.Context, kind models.Kind) (int, error)
}

// personalKinds are scoped to their owner when a student lists them.
var personalKinds = map[models.Kind]bool{
	models.KindGrades:      true,
	models.KindFees:        true,
	models.KindAssignments: true,
	models.KindProfile:     true,
}

// RecordService implements list, update and delete for every record kind.
type RecordService struct {
	repo      RecordStore
	validator *schema.Validator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(repo RecordStore, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		repo:      repo,
		validator: schema.NewValidator(validate),
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns the records of kind visible to the caller. Students see their
// own personal records; staff may narrow by grade.
func (s *RecordService) List(ctx context.Context, kind models.Kind, caller *models.JWTClaims, filter models.ListFilter) ([]models.Record, error) {
	q := models.RecordQuery{Kind: kind}
	switch {
	case caller == nil:
		return nil, appErrors.ErrUnauthorized
	case caller.Role == models.RoleStudent:
		if personalKinds[kind] {
			q.OwnerID = caller.UserID
		}
	default:
		if filter.Grade != "" && filter.Grade != models.AllGrades {
			q.Grade = filter.Grade
		}
	}

	key := ListKey(q)
	var cached []map[string]any
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		if records, err := fromPayloads(kind, cached); err == nil {
			s.metrics.RecordsServed(kind, len(records))
			return records, nil
		}
	}

	records, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}

	payloads := make([]map[string]any, len(records))
	for i, rec := range records {
		payloads[i] = rec.Payload()
	}
	_ = s.cache.Set(ctx, key, payloads, 0)

	s.metrics.RecordsServed(kind, len(records))
	return records, nil
}

// Update replaces the fields of kind/id with payload after validation.
func (s *RecordService) Update(ctx context.Context, kind models.Kind, id string, payload map[string]any) (*models.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "record id is required")
	}
	if bodyID, ok := payload[kind.IDKey()]; ok && models.FormatValue(bodyID) != id {
		return nil, appErrors.Clone(appErrors.ErrValidation, "record id in body does not match path")
	}

	sch := schema.MustFor(kind)
	fields := make(models.Fields, len(payload))
	for name, value := range payload {
		if name == kind.IDKey() || name == "id" {
			continue
		}
		fields[name] = value
	}
	if errs := s.validator.Validate(sch, fields); len(errs) > 0 {
		return nil, errs.AsError()
	}

	rec, err := models.RecordFromMap(kind, sch.Encode(id, fields))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid record payload")
	}

	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update record")
	}

	_ = s.cache.InvalidateKind(ctx, kind)
	s.metrics.RecordMutation(kind, "update")
	s.logger.Info("record updated", zap.String("kind", string(kind)), zap.String("id", id))
	return updated, nil
}

// Delete removes kind/id.
func (s *RecordService) Delete(ctx context.Context, kind models.Kind, id string) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete record")
	}

	_ = s.cache.InvalidateKind(ctx, kind)
	s.metrics.RecordMutation(kind, "delete")
	s.logger.Info("record deleted", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

// CreateProfile stores the profile record of a newly registered account.
func (s *RecordService) CreateProfile(ctx context.Context, actor models.Actor, grade string) error {
	fields := models.Fields{
		"firstName":     actor.FirstName,
		"lastName":      actor.LastName,
		"email":         actor.Email,
		"contactNumber": actor.Phone,
	}
	if grade != "" {
		fields["grade"] = grade
	}
	if _, err := s.repo.Create(ctx, models.Record{Kind: models.KindProfile, ID: actor.ID, Fields: fields}, actor.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
	}
	_ = s.cache.InvalidateKind(ctx, models.KindProfile)
	return nil
}

// Seed inserts samples for every kind that has no records yet.
func (s *RecordService) Seed(ctx context.Context, samples func(models.Kind) []models.Record) error {
	for _, kind := range models.Kinds() {
		n, err := s.repo.Count(ctx, kind)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count records")
		}
		if n > 0 {
			continue
		}
		recs := samples(kind)
		for _, rec := range recs {
			if _, err := s.repo.Create(ctx, rec, ""); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed records")
			}
		}
		if len(recs) > 0 {
			s.logger.Info("seeded sample records", zap.String("kind", string(kind)), zap.Int("count", len(recs)))
		}
	}
	return nil
}

func fromPayloads(kind models.Kind, payloads []map[string]any) ([]models.Record, error) {
	records := make([]models.Record, 0, len(payloads))
	for _, p := range payloads {
		rec, err := models.RecordFromMap(kind, p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
