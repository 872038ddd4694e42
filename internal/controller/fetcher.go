package controller

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/fallback"
	"github.com/noah-isme/sma-portal/internal/models"
)

// FallbackFunc returns the records shown when a kind cannot be read.
type FallbackFunc func(kind models.Kind) []models.Record

// Fetcher performs a GET and substitutes the fallback sequence on any
// failure.
type Fetcher struct {
	lister   Lister
	fallback FallbackFunc
	logger   *zap.Logger
}

// NewFetcher builds a fetcher; nil fallback uses the built-in samples.
func NewFetcher(lister Lister, fb FallbackFunc, logger *zap.Logger) *Fetcher {
	if fb == nil {
		fb = fallback.For
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{lister: lister, fallback: fb, logger: logger}
}

// Fetch returns the records of kind in server order. degraded is true when
// the fallback sequence was substituted.
func (f *Fetcher) Fetch(ctx context.Context, kind models.Kind, params url.Values) (records []models.Record, degraded bool) {
	records, err := f.lister.List(ctx, kind, params)
	if err == nil {
		if records == nil {
			records = []models.Record{}
		}
		return records, false
	}

	f.logger.Warn("record fetch failed, showing sample data",
		zap.String("kind", string(kind)),
		zap.String("params", params.Encode()),
		zap.Error(err),
	)
	return f.fallback(kind), true
}
