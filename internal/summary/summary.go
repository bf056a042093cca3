// Package summary computes aggregate statistics over enriched customers.
package summary

import (
	"math"

	"github.com/sells-group/customer-pipeline/internal/model"
)

// Summarize builds a SummaryReport over the final enriched set. It is a
// total function: empty input yields zero counts and average 0.
func Summarize(records []model.EnrichedCustomer) *model.SummaryReport {
	report := &model.SummaryReport{
		TotalCustomers:         len(records),
		EngagementDistribution: map[string]int{},
		ActivityDistribution:   map[string]int{},
		ChannelDistribution:    map[string]int{},
		SegmentDistribution:    map[string]int{},
		TierDistribution:       map[string]int{},
	}
	if len(records) == 0 {
		return report
	}

	var total int
	for _, rec := range records {
		total += rec.QualityScore
		report.QualitySummary = bucketScore(report.QualitySummary, rec.QualityScore)

		report.EngagementDistribution[string(rec.EngagementLevel)]++
		report.ActivityDistribution[string(rec.ActivityStatus)]++
		report.ChannelDistribution[string(rec.AcquisitionChannel)]++
		report.SegmentDistribution[string(rec.MarketSegment)]++
		report.TierDistribution[string(rec.CustomerTier)]++
	}

	avg := float64(total) / float64(len(records))
	report.AverageQualityScore = math.Round(avg*100) / 100

	return report
}

// bucketScore adds one score to the three-band quality histogram.
func bucketScore(q model.QualitySummary, score int) model.QualitySummary {
	switch {
	case score >= 90:
		q.HighQuality++
	case score >= 70:
		q.MediumQuality++
	default:
		q.LowQuality++
	}
	return q
}
