package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/customer-pipeline/internal/model"
)

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(nil)

	assert.Equal(t, 0, report.TotalCustomers)
	assert.Equal(t, 0.0, report.AverageQualityScore)
	assert.Equal(t, model.QualitySummary{}, report.QualitySummary)
	assert.Empty(t, report.EngagementDistribution)
	assert.NotNil(t, report.EngagementDistribution, "maps stay non-nil for JSON output")
	assert.NotNil(t, report.TierDistribution)
}

func TestSummarize_AverageAndBuckets(t *testing.T) {
	report := Summarize([]model.EnrichedCustomer{
		{CustomerID: 1, QualityScore: 100},
		{CustomerID: 2, QualityScore: 80},
	})

	assert.Equal(t, 2, report.TotalCustomers)
	assert.Equal(t, 90.0, report.AverageQualityScore)
	assert.Equal(t, model.QualitySummary{HighQuality: 1, MediumQuality: 1, LowQuality: 0}, report.QualitySummary)
}

func TestSummarize_BucketBoundaries(t *testing.T) {
	report := Summarize([]model.EnrichedCustomer{
		{CustomerID: 1, QualityScore: 90}, // high
		{CustomerID: 2, QualityScore: 89}, // medium
		{CustomerID: 3, QualityScore: 70}, // medium
		{CustomerID: 4, QualityScore: 69}, // low
		{CustomerID: 5, QualityScore: 0},  // low
	})

	assert.Equal(t, model.QualitySummary{HighQuality: 1, MediumQuality: 2, LowQuality: 2}, report.QualitySummary)
}

func TestSummarize_AverageRoundedToTwoDecimals(t *testing.T) {
	report := Summarize([]model.EnrichedCustomer{
		{CustomerID: 1, QualityScore: 100},
		{CustomerID: 2, QualityScore: 90},
		{CustomerID: 3, QualityScore: 90},
	})

	// 280/3 = 93.333... → 93.33
	assert.Equal(t, 93.33, report.AverageQualityScore)
}

func TestSummarize_Distributions(t *testing.T) {
	report := Summarize([]model.EnrichedCustomer{
		{
			CustomerID:         1,
			EngagementLevel:    model.EngagementHigh,
			ActivityStatus:     model.ActivityActive,
			AcquisitionChannel: model.ChannelWebsite,
			MarketSegment:      model.SegmentUSWest,
			CustomerTier:       model.TierBasic,
			QualityScore:       100,
		},
		{
			CustomerID:         2,
			EngagementLevel:    model.EngagementHigh,
			ActivityStatus:     model.ActivityInactive,
			AcquisitionChannel: model.ChannelMobileApp,
			MarketSegment:      model.SegmentAPAC,
			CustomerTier:       model.TierBasic,
			QualityScore:       80,
		},
		{
			CustomerID:         3,
			EngagementLevel:    model.EngagementUnknown,
			ActivityStatus:     model.ActivityActive,
			AcquisitionChannel: model.ChannelWebsite,
			MarketSegment:      model.SegmentUSWest,
			CustomerTier:       model.TierEnterprise,
			QualityScore:       60,
		},
	})

	require.Equal(t, 3, report.TotalCustomers)
	assert.Equal(t, map[string]int{"high": 2, "unknown": 1}, report.EngagementDistribution)
	assert.Equal(t, map[string]int{"active": 2, "inactive": 1}, report.ActivityDistribution)
	assert.Equal(t, map[string]int{"website": 2, "mobile_app": 1}, report.ChannelDistribution)
	assert.Equal(t, map[string]int{"US-West": 2, "APAC": 1}, report.SegmentDistribution)
	assert.Equal(t, map[string]int{"basic": 2, "enterprise": 1}, report.TierDistribution)
	assert.Equal(t, 80.0, report.AverageQualityScore)
}
