package controller

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

func TestFetchFailureYieldsExamSamples(t *testing.T) {
	for _, failure := range []error{
		appErrors.ErrGatewayUnavailable,
		appErrors.ErrGatewayTimeout,
		appErrors.ErrDecode,
		appErrors.New("HTTP_502", 502, "bad gateway"),
	} {
		gw := &gatewayStub{listFn: func(context.Context, models.Kind, url.Values) ([]models.Record, error) {
			return nil, failure
		}}
		records, degraded := NewFetcher(gw, nil, nil).Fetch(context.Background(), models.KindExams, nil)

		assert.True(t, degraded)
		require.Len(t, records, 2)
		assert.Equal(t, "Mathematics", records[0].Fields["subject"])
		assert.Equal(t, "2024-03-15", records[0].Fields["date"])
		assert.Equal(t, "English", records[1].Fields["subject"])
		assert.Equal(t, "2024-03-16", records[1].Fields["date"])
	}
}

func TestFetchSuccessKeepsServerOrder(t *testing.T) {
	want := []models.Record{
		{Kind: models.KindFees, ID: "9", Fields: models.Fields{"month": "March"}},
		{Kind: models.KindFees, ID: "3", Fields: models.Fields{"month": "April"}},
	}
	gw := &gatewayStub{listFn: func(context.Context, models.Kind, url.Values) ([]models.Record, error) {
		return want, nil
	}}
	records, degraded := NewFetcher(gw, nil, nil).Fetch(context.Background(), models.KindFees, nil)
	assert.False(t, degraded)
	assert.Equal(t, want, records)

	empty, degraded := NewFetcher(&gatewayStub{}, nil, nil).Fetch(context.Background(), models.KindFees, nil)
	assert.False(t, degraded)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestFetchLogsDegradedPath(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gw := &gatewayStub{listFn: func(context.Context, models.Kind, url.Values) ([]models.Record, error) {
		return nil, appErrors.ErrGatewayUnavailable
	}}
	custom := func(kind models.Kind) []models.Record {
		return []models.Record{{Kind: kind, ID: "x"}}
	}

	records, degraded := NewFetcher(gw, custom, zap.New(core)).Fetch(context.Background(), models.KindLibrary, url.Values{"grade": {"9"}})
	assert.True(t, degraded)
	assert.Equal(t, "x", records[0].ID)

	entries := logs.FilterMessage("record fetch failed, showing sample data").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "library", entries[0].ContextMap()["kind"])
	assert.Equal(t, "grade=9", entries[0].ContextMap()["params"])
}
