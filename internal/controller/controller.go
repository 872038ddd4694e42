// Package controller implements the list and detail screen logic shared by
// every record kind. Controllers hold no rendering concerns.
package controller

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

// ActorSource yields the current actor; it is consulted on every permission
// check.
type ActorSource interface {
	Actor() *models.Actor
}

// Lister reads a record collection.
type Lister interface {
	List(ctx context.Context, kind models.Kind, params url.Values) ([]models.Record, error)
}

// RecordGateway is the remote record API used by controllers.
type RecordGateway interface {
	Lister
	Update(ctx context.Context, kind models.Kind, id string, body map[string]any) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
}

var (
	ErrNotPermitted  = appErrors.New("NOT_PERMITTED", http.StatusForbidden, "only administrators may modify records")
	ErrInvalidState  = appErrors.New("INVALID_STATE", http.StatusConflict, "action not available in the current mode")
	ErrClosed        = appErrors.New("SCREEN_CLOSED", http.StatusGone, "screen is closed")
	ErrReadOnlyField = appErrors.New("READ_ONLY_FIELD", http.StatusBadRequest, "the record id cannot be edited")
)
