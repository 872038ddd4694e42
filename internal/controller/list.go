package controller

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/schema"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

var studentGrades = []string{"9", "10", "11", "12"}

// GradeOptions lists the grade selector values for role. The first entry is
// the default after a role change.
func GradeOptions(role models.Role) []string {
	switch role {
	case models.RoleAdmin:
		return []string{models.AllGrades}
	case models.RoleStudent, models.RoleTeacher:
		return append([]string(nil), studentGrades...)
	default:
		return nil
	}
}

// ListOptions configures a List controller.
type ListOptions struct {
	Fallback  FallbackFunc
	Validator *schema.Validator
	Logger    *zap.Logger
}

// List drives a collection screen of one kind.
type List struct {
	kind      models.Kind
	gateway   RecordGateway
	actors    ActorSource
	fetcher   *Fetcher
	validator *schema.Validator
	logger    *zap.Logger

	mu         sync.Mutex
	records    []models.Record
	degraded   bool
	loading    bool
	filter     models.ListFilter
	generation uint64
	closed     bool
}

// NewList builds a list controller for kind.
func NewList(kind models.Kind, gw RecordGateway, actors ActorSource, opts ListOptions) *List {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = schema.NewValidator(nil)
	}
	logger := opts.Logger.With(zap.String("kind", string(kind)))
	return &List{
		kind:      kind,
		gateway:   gw,
		actors:    actors,
		fetcher:   NewFetcher(gw, opts.Fallback, logger),
		validator: opts.Validator,
		logger:    logger,
		records:   []models.Record{},
		filter:    models.ListFilter{UserType: models.RoleStudent, Grade: studentGrades[0]},
	}
}

// Kind returns the record kind of the list.
func (l *List) Kind() models.Kind { return l.kind }

// FilterVisible reports whether the role filter surface is shown.
func (l *List) FilterVisible() bool {
	if l.actors == nil {
		return false
	}
	return l.actors.Actor().CanFilter()
}

// Start mounts the screen. Records handed in by navigation are shown as is;
// otherwise the first load runs.
func (l *List) Start(ctx context.Context, preloaded []models.Record) {
	if len(preloaded) > 0 {
		l.mu.Lock()
		if !l.closed {
			l.records = cloneRecords(preloaded)
			l.degraded = false
		}
		l.mu.Unlock()
		return
	}
	l.Load(ctx, l.Filter())
}

// Load performs one GET with filter. It reports whether the result was
// applied; superseded or post-close results are dropped.
func (l *List) Load(ctx context.Context, filter models.ListFilter) bool {
	var params url.Values
	if l.FilterVisible() {
		params = filter.Params()
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.generation++
	gen := l.generation
	l.filter = filter
	l.loading = true
	l.mu.Unlock()

	records, degraded := l.fetcher.Fetch(ctx, l.kind, params)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.generation {
		l.logger.Debug("dropping stale list response", zap.Uint64("generation", gen))
		return false
	}
	l.records = cloneRecords(records)
	l.degraded = degraded
	l.loading = false
	return true
}

// Refresh reloads with the last used filter.
func (l *List) Refresh(ctx context.Context) bool {
	return l.Load(ctx, l.Filter())
}

// SetRole changes the role selector and resets the grade to its first
// option. A load runs only while the collection is empty.
func (l *List) SetRole(ctx context.Context, role models.Role) error {
	if !l.FilterVisible() {
		return appErrors.Clone(appErrors.ErrForbidden, "filters are not available for this account")
	}
	parsed, ok := models.ParseRole(string(role))
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "role must be student, teacher or admin")
	}
	return l.applyFilter(ctx, models.ListFilter{UserType: parsed, Grade: GradeOptions(parsed)[0]})
}

// SetGrade changes the grade selector. A load runs only while the
// collection is empty.
func (l *List) SetGrade(ctx context.Context, grade string) error {
	if !l.FilterVisible() {
		return appErrors.Clone(appErrors.ErrForbidden, "filters are not available for this account")
	}
	filter := l.Filter()
	for _, option := range GradeOptions(filter.UserType) {
		if option == grade {
			filter.Grade = grade
			return l.applyFilter(ctx, filter)
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "grade is not available for the selected role")
}

func (l *List) applyFilter(ctx context.Context, filter models.ListFilter) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.filter = filter
	empty := len(l.records) == 0
	l.mu.Unlock()

	if empty {
		l.Load(ctx, filter)
	}
	return nil
}

// Select returns the full record with id.
func (l *List) Select(id string) (models.Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return models.Record{}, false
}

// Open builds a detail controller for id whose saves and deletes are
// reflected back into this list.
func (l *List) Open(id string) (*Detail, error) {
	rec, ok := l.Select(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "record not found in list")
	}
	return NewDetail(rec, l.gateway, l.actors, DetailOptions{
		OnSaved:   l.replace,
		OnDeleted: l.remove,
		Validator: l.validator,
		Logger:    l.logger,
	}), nil
}

func (l *List) replace(rec models.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].ID == rec.ID {
			l.records[i] = rec.Clone()
			return
		}
	}
}

func (l *List) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return
		}
	}
}

// Close unmounts the screen; in-flight loads are discarded.
func (l *List) Close() {
	l.mu.Lock()
	l.closed = true
	l.loading = false
	l.mu.Unlock()
}

// Records returns a copy of the collection in display order.
func (l *List) Records() []models.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneRecords(l.records)
}

// Degraded reports whether sample data is shown.
func (l *List) Degraded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.degraded
}

// Loading reports whether a load is in flight.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Filter returns the current selector values.
func (l *List) Filter() models.ListFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func cloneRecords(in []models.Record) []models.Record {
	out := make([]models.Record, len(in))
	for i, rec := range in {
		out[i] = rec.Clone()
	}
	return out
}
