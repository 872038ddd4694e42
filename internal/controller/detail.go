package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/schema"
)

// State is the mode of a detail screen.
type State int

const (
	StateViewing State = iota
	StateEditing
	StateSaving
	StateDeleting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateDeleting:
		return "deleting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Action is a mutation control offered to the actor.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionSave   Action = "save"
	ActionCancel Action = "cancel"
)

// DetailOptions configures a Detail controller.
type DetailOptions struct {
	OnSaved   func(models.Record)
	OnDeleted func(id string)
	Validator *schema.Validator
	Logger    *zap.Logger
}

// Detail drives the view/edit lifecycle of one record.
type Detail struct {
	gateway   RecordGateway
	actors    ActorSource
	schema    schema.Schema
	validator *schema.Validator
	logger    *zap.Logger
	onSaved   func(models.Record)
	onDeleted func(string)

	mu              sync.Mutex
	state           State
	record          models.Record
	draft           models.Fields
	baseline        models.Fields
	deleteRequested bool
	err             error
	fieldErrs       schema.FieldErrors
}

// NewDetail opens rec in Viewing mode.
func NewDetail(rec models.Record, gw RecordGateway, actors ActorSource, opts DetailOptions) *Detail {
	if opts.Validator == nil {
		opts.Validator = schema.NewValidator(nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	rec = rec.Clone()
	if rec.Fields == nil {
		rec.Fields = models.Fields{}
	}
	return &Detail{
		gateway:   gw,
		actors:    actors,
		schema:    schema.MustFor(rec.Kind),
		validator: opts.Validator,
		logger:    opts.Logger.With(zap.String("kind", string(rec.Kind)), zap.String("id", rec.ID)),
		onSaved:   opts.OnSaved,
		onDeleted: opts.OnDeleted,
		state:     StateViewing,
		record:    rec,
		draft:     rec.Fields.Clone(),
	}
}

func (d *Detail) isAdmin() bool {
	if d.actors == nil {
		return false
	}
	return d.actors.Actor().IsAdmin()
}

// Edit enters Editing and snapshots the draft as the cancel baseline.
func (d *Detail) Edit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return ErrClosed
	}
	if !d.isAdmin() {
		return ErrNotPermitted
	}
	if d.state != StateViewing {
		return ErrInvalidState
	}
	d.baseline = d.draft.Clone()
	d.state = StateEditing
	d.deleteRequested = false
	d.err = nil
	d.fieldErrs = nil
	return nil
}

// SetField changes one draft value. The id key is never editable.
func (d *Detail) SetField(name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return ErrClosed
	}
	if d.state != StateEditing {
		return ErrInvalidState
	}
	if name == d.record.Kind.IDKey() || name == "id" {
		return ErrReadOnlyField
	}
	d.draft[name] = value
	delete(d.fieldErrs, name)
	return nil
}

// Cancel discards the edits and restores the baseline without a network call.
func (d *Detail) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return ErrClosed
	}
	if d.state != StateEditing {
		return ErrInvalidState
	}
	d.draft = d.baseline.Clone()
	d.baseline = nil
	d.state = StateViewing
	d.err = nil
	d.fieldErrs = nil
	return nil
}

// Save validates the draft and sends it. On success the server's record
// replaces the local one; on failure the draft is kept in Editing.
func (d *Detail) Save(ctx context.Context) error {
	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.state != StateEditing {
		d.mu.Unlock()
		return ErrInvalidState
	}
	if !d.isAdmin() {
		d.mu.Unlock()
		return ErrNotPermitted
	}
	if errs := d.validator.Validate(d.schema, d.draft); len(errs) > 0 {
		d.fieldErrs = errs
		d.err = errs.AsError()
		d.mu.Unlock()
		return d.err
	}

	kind, id := d.record.Kind, d.record.ID
	body := d.schema.Encode(id, d.draft)
	d.state = StateSaving
	d.err = nil
	d.fieldErrs = nil
	d.mu.Unlock()

	saved, err := d.gateway.Update(ctx, kind, id, body)

	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		d.logger.Debug("discarding save response after close")
		return ErrClosed
	}
	if err != nil {
		d.state = StateEditing
		d.err = err
		d.mu.Unlock()
		d.logger.Warn("save failed", zap.Error(err))
		return err
	}

	saved.Kind, saved.ID = kind, id
	if saved.Fields == nil {
		saved.Fields = models.Fields{}
	}
	d.record = saved.Clone()
	d.draft = saved.Fields.Clone()
	d.baseline = nil
	d.state = StateViewing
	cb := d.onSaved
	d.mu.Unlock()

	d.logger.Info("record saved")
	if cb != nil {
		cb(saved)
	}
	return nil
}

// RequestDelete asks for confirmation before deleting.
func (d *Detail) RequestDelete() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return ErrClosed
	}
	if !d.isAdmin() {
		return ErrNotPermitted
	}
	if d.state != StateViewing {
		return ErrInvalidState
	}
	d.deleteRequested = true
	return nil
}

// ConfirmDelete answers the confirmation. A negative answer clears the
// request; an affirmative one deletes the record and closes the screen.
func (d *Detail) ConfirmDelete(ctx context.Context, affirmative bool) error {
	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.state != StateViewing || !d.deleteRequested {
		d.mu.Unlock()
		return ErrInvalidState
	}
	d.deleteRequested = false
	if !affirmative {
		d.mu.Unlock()
		return nil
	}
	if !d.isAdmin() {
		d.mu.Unlock()
		return ErrNotPermitted
	}
	kind, id := d.record.Kind, d.record.ID
	d.state = StateDeleting
	d.err = nil
	d.mu.Unlock()

	err := d.gateway.Delete(ctx, kind, id)

	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		d.logger.Debug("discarding delete response after close")
		return ErrClosed
	}
	if err != nil {
		d.state = StateViewing
		d.err = err
		d.mu.Unlock()
		d.logger.Warn("delete failed", zap.Error(err))
		return err
	}
	d.state = StateClosed
	cb := d.onDeleted
	d.mu.Unlock()

	d.logger.Info("record deleted")
	if cb != nil {
		cb(id)
	}
	return nil
}

// Close unmounts the screen; later gateway responses are ignored.
func (d *Detail) Close() {
	d.mu.Lock()
	d.state = StateClosed
	d.deleteRequested = false
	d.mu.Unlock()
}

// Actions lists the mutation controls available right now.
func (d *Detail) Actions() []Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isAdmin() {
		return nil
	}
	switch d.state {
	case StateViewing:
		return []Action{ActionEdit, ActionDelete}
	case StateEditing:
		return []Action{ActionSave, ActionCancel}
	default:
		return nil
	}
}

// State returns the current mode.
func (d *Detail) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Record returns a copy of the last saved record.
func (d *Detail) Record() models.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record.Clone()
}

// Draft returns a copy of the field values being shown or edited.
func (d *Detail) Draft() models.Fields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft.Clone()
}

// Err is the last save or delete failure.
func (d *Detail) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// FieldErrors returns the validation messages of the last Save, by field.
func (d *Detail) FieldErrors() schema.FieldErrors {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(schema.FieldErrors, len(d.fieldErrs))
	for k, v := range d.fieldErrs {
		out[k] = v
	}
	return out
}

// DeleteRequested reports whether a delete awaits confirmation.
func (d *Detail) DeleteRequested() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleteRequested
}

// Schema returns the field schema of the record kind.
func (d *Detail) Schema() schema.Schema {
	return d.schema
}
