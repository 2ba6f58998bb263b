package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
	"github.com/alanyoungcy/cpmmquote/internal/service"
)

type memBlobs map[string]string

func (m memBlobs) Get(_ context.Context, path string) (io.ReadCloser, error) {
	v, ok := m[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader([]byte(v))), nil
}

func (m memBlobs) List(_ context.Context, prefix string) ([]domain.BlobInfo, error) {
	var out []domain.BlobInfo
	for _, k := range []string{"books/a.json", "books/b.json", "books/c.json", "books/readme.txt"} {
		if _, ok := m[k]; ok {
			out = append(out, domain.BlobInfo{Path: k})
		}
	}
	return out, nil
}

const snapshotA = `{"market_id":"m1","outcome":"yes","recorded_at":"2026-01-02T15:04:05Z","rows":[
	{"side":"sell","price":"0.5","quantity":"10","cumulative_quantity":"10","order_count":1},
	{"side":"buy","price":0.45,"quantity":5,"cumulative_quantity":5,"order_count":1}
]}`

const snapshotB = `{"market_id":"m2","outcome":"no","rows":[]}`

func TestReplayerRun(t *testing.T) {
	blobs := memBlobs{
		"books/a.json":     snapshotA,
		"books/b.json":     snapshotB,
		"books/c.json":     `{not json`,
		"books/readme.txt": "ignored",
	}
	r := service.NewReplayer(blobs, "books/", 4, 2, discardLogger())

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Snapshots)
	assert.Equal(t, 1, sum.Skipped)
	require.Len(t, sum.Estimates, 4)

	buyA := sum.Estimates[0]
	assert.Equal(t, "m1", buyA.MarketID)
	assert.Equal(t, orderbook.Buy, buyA.Side)
	assert.True(t, buyA.Estimate.Feasible)
	assert.InDelta(t, 2.0, buyA.Estimate.TotalCost, 1e-12)

	sellB := sum.Estimates[3]
	assert.Equal(t, "m2", sellB.MarketID)
	assert.Equal(t, cpmm.No, sellB.Outcome)
	assert.False(t, sellB.Estimate.Feasible)
}

func TestReplayerDecodesBoolOutcome(t *testing.T) {
	blobs := memBlobs{
		"books/a.json": `{"market_id":"m3","outcome":false,"rows":[
			{"side":"sell","price":0.3,"quantity":4,"cumulative_quantity":4,"order_count":1}
		]}`,
		"books/b.json": `{"market_id":"m4","outcome":true,"rows":[]}`,
	}
	r := service.NewReplayer(blobs, "books/", 2, 1, discardLogger())

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Snapshots)
	assert.Zero(t, sum.Skipped)
	require.Len(t, sum.Estimates, 4)

	assert.Equal(t, "m3", sum.Estimates[0].MarketID)
	assert.Equal(t, cpmm.No, sum.Estimates[0].Outcome)
	assert.InDelta(t, 0.6, sum.Estimates[0].Estimate.TotalCost, 1e-12)
	assert.Equal(t, cpmm.Yes, sum.Estimates[2].Outcome)
}

type failingBlobs struct{ memBlobs }

func (failingBlobs) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("connection reset")
}

func TestReplayerDownloadFailure(t *testing.T) {
	r := service.NewReplayer(failingBlobs{memBlobs{"books/a.json": snapshotA}}, "books/", 1, 1, discardLogger())
	_, err := r.Run(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestReplayerRejectsQuantity(t *testing.T) {
	r := service.NewReplayer(memBlobs{}, "", 0, 1, discardLogger())
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}
