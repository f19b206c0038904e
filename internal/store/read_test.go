package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ipl2sql/internal/iplog"
)

func TestProbe_EmptyTable(t *testing.T) {
	s := createTestStore(t)

	found, err := s.Probe(context.Background(), createTestRecord("10.0.0.1", "curl"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProbe_FindsAppended(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("10.0.0.1", "curl")
	require.NoError(t, s.Append(ctx, &rec))

	// A fresh candidate with a different insertion time still matches.
	candidate := createTestRecord("10.0.0.1", "curl")
	candidate.InsertionTime = "2099.0101.0000.00"
	found, err := s.Probe(ctx, candidate)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestProbe_EveryKeyFieldMatters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	stored := createTestRecord("10.0.0.1", "curl")
	require.NoError(t, s.Append(ctx, &stored))

	tests := []struct {
		name   string
		mutate func(*iplog.StoredRecord)
	}{
		{"ip", func(r *iplog.StoredRecord) { r.IPAddress = "10.0.0.2" }},
		{"datetime", func(r *iplog.StoredRecord) { r.LogDateTime = "15/Jul/2014:05:44:41 -0700" }},
		{"method_uri", func(r *iplog.StoredRecord) { r.MethodURI = "HEAD /robots.txt HTTP/1.1" }},
		{"status", func(r *iplog.StoredRecord) { r.Status = 304 }},
		{"page_size", func(r *iplog.StoredRecord) { r.PageSize = iplog.PageSizeUnavailable }},
		{"referer", func(r *iplog.StoredRecord) { r.Referer = "http://referer.example.com/" }},
		{"agent case", func(r *iplog.StoredRecord) { r.Agent = "CURL" }},
		{"agent trailing space", func(r *iplog.StoredRecord) { r.Agent = "curl " }},
		{"origin host", func(r *iplog.StoredRecord) { r.OriginHost = "mirror.example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := stored
			candidate.ID = 0
			tt.mutate(&candidate)

			found, err := s.Probe(ctx, candidate)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCount_Empty(t *testing.T) {
	s := createTestStore(t)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
