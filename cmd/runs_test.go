//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/customer-pipeline/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:     "abc12345-6789-0000-0000-000000000000",
			Status: model.RunStatusComplete,
			Result: &model.RunResult{
				TotalFetched:        12,
				TotalUnique:         11,
				AverageQualityScore: 86.36,
			},
			CreatedAt: now,
			UpdatedAt: now.Add(2 * time.Minute),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Status:    model.RunStatusFetching,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Minute),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "AVG_SCORE")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "fetching")
	assert.Contains(t, output, "86.36")
	assert.Contains(t, output, "2026-06-15 10:30")
	assert.Contains(t, output, "abc12345")
	// Runs without a result render placeholders.
	assert.Contains(t, output, "-")
}

func TestComputeRunStats(t *testing.T) {
	now := time.Now()
	runs := []model.Run{
		{
			Status:    model.RunStatusComplete,
			Result:    &model.RunResult{AverageQualityScore: 90},
			CreatedAt: now,
			UpdatedAt: now.Add(10 * time.Second),
		},
		{
			Status:    model.RunStatusComplete,
			Result:    &model.RunResult{AverageQualityScore: 70},
			CreatedAt: now,
			UpdatedAt: now.Add(20 * time.Second),
		},
		{Status: model.RunStatusFailed},
		{Status: model.RunStatusFetching},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Other)
	assert.InDelta(t, 80.0, s.AvgScore, 0.001)
	assert.InDelta(t, 15.0, s.AvgDurSecs, 0.001)
}

func TestComputeRunStats_Empty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.AvgScore)
	assert.Zero(t, s.AvgDurSecs)
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, runStats{Total: 3, Complete: 2, Failed: 1, AvgScore: 85.5, AvgDurSecs: 12.3})

	output := buf.String()
	assert.Contains(t, output, "Total runs:")
	assert.Contains(t, output, "85.50")
	assert.Contains(t, output, "12.3s")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}
