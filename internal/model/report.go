package model

import "time"

// QualitySummary buckets completeness scores into three quality bands.
type QualitySummary struct {
	HighQuality   int `json:"high_quality"`   // score >= 90
	MediumQuality int `json:"medium_quality"` // 70 <= score < 90
	LowQuality    int `json:"low_quality"`    // score < 70
}

// SummaryReport holds aggregate statistics over the final enriched set.
type SummaryReport struct {
	TotalCustomers         int            `json:"total_customers"`
	QualitySummary         QualitySummary `json:"data_quality_summary"`
	EngagementDistribution map[string]int `json:"engagement_distribution"`
	ActivityDistribution   map[string]int `json:"activity_distribution"`
	ChannelDistribution    map[string]int `json:"channel_distribution"`
	SegmentDistribution    map[string]int `json:"segment_distribution"`
	TierDistribution       map[string]int `json:"tier_distribution"`
	AverageQualityScore    float64        `json:"average_quality_score"`
}

// ExportMetadata describes one customer export artifact.
type ExportMetadata struct {
	TotalCustomers  int            `json:"total_customers"`
	ExportTimestamp time.Time      `json:"export_timestamp"`
	QualitySummary  QualitySummary `json:"data_quality_summary"`
}

// CustomerExport is the on-disk shape of the customer artifact.
type CustomerExport struct {
	Metadata  ExportMetadata     `json:"metadata"`
	Customers []EnrichedCustomer `json:"customers"`
}
