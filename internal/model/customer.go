// Package model defines the data types passed between pipeline stages.
package model

// EngagementLevel classifies how engaged a customer is.
type EngagementLevel string

const (
	EngagementHigh    EngagementLevel = "high"
	EngagementMedium  EngagementLevel = "medium"
	EngagementLow     EngagementLevel = "low"
	EngagementUnknown EngagementLevel = "unknown"
)

// ActivityStatus indicates whether a customer account is currently active.
type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "active"
	ActivityInactive ActivityStatus = "inactive"
	ActivityUnknown  ActivityStatus = "unknown"
)

// AcquisitionChannel records how a customer was acquired.
type AcquisitionChannel string

const (
	ChannelWebsite       AcquisitionChannel = "website"
	ChannelMobileApp     AcquisitionChannel = "mobile_app"
	ChannelEmailCampaign AcquisitionChannel = "email_campaign"
)

// MarketSegment is the geographic market a customer belongs to.
type MarketSegment string

const (
	SegmentUSWest    MarketSegment = "US-West"
	SegmentUSEast    MarketSegment = "US-East"
	SegmentEUCentral MarketSegment = "EU-Central"
	SegmentAPAC      MarketSegment = "APAC"
)

// CustomerTier is the commercial tier of a customer.
type CustomerTier string

const (
	TierBasic      CustomerTier = "basic"
	TierPremium    CustomerTier = "premium"
	TierEnterprise CustomerTier = "enterprise"
)

// RawCustomer is a customer record as returned by the upstream listing API.
// Fields may be empty or malformed; enrichment degrades gracefully.
type RawCustomer struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// Page is one page of the upstream customer listing. TotalPages is
// authoritative once the first page has been fetched successfully.
type Page struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Data       []RawCustomer `json:"data"`
}

// EnrichedCustomer is the analytics-ready form of a RawCustomer: derived
// fields plus sampled categorical attributes and a completeness score.
type EnrichedCustomer struct {
	CustomerID         int                `json:"customer_id"`
	FullName           string             `json:"full_name"`
	EmailDomain        string             `json:"email_domain"`
	EngagementLevel    EngagementLevel    `json:"engagement_level"`
	ActivityStatus     ActivityStatus     `json:"activity_status"`
	AcquisitionChannel AcquisitionChannel `json:"acquisition_channel"`
	MarketSegment      MarketSegment      `json:"market_segment"`
	CustomerTier       CustomerTier       `json:"customer_tier"`
	QualityScore       int                `json:"data_quality_score"`
}
