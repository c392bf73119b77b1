// internal/workers/assistant/retrieve-records/models.go
package retrieverecords

import "dealer-assistant/internal/models"

// Kind names the retrieval branch that produced a Result.
type Kind string

const (
	KindTodayLeads       Kind = "today_leads"
	KindBrandLeads       Kind = "brand_leads"
	KindSourceLeads      Kind = "source_leads"
	KindLeadsSummary     Kind = "leads_summary"
	KindTodayInquiries   Kind = "today_inquiries"
	KindInquiriesSummary Kind = "inquiries_summary"
	KindEmpty            Kind = "empty"
)

type Input struct {
	Intent models.QueryIntent `json:"intent"`
	Date   string             `json:"date"`
}

type Output struct {
	Result *Result `json:"result"`
}

// Count is one aggregate bucket.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Result is the records and aggregates selected for one intent. Which fields
// are set depends on Kind:
//
//	TodayLeads, BrandLeads, SourceLeads: Leads
//	TodayInquiries: Inquiries
//	LeadsSummary: Total, TodayCount, BySource, ByBrand, Leads (today's)
//	InquiriesSummary: Total, TodayCount, Inquiries (today's)
type Result struct {
	Kind       Kind             `json:"kind"`
	Date       string           `json:"date"`
	Brand      string           `json:"brand,omitempty"`
	Source     string           `json:"source,omitempty"`
	Leads      []models.Lead    `json:"leads,omitempty"`
	Inquiries  []models.Inquiry `json:"inquiries,omitempty"`
	Total      int              `json:"total"`
	TodayCount int              `json:"today_count"`
	BySource   []Count          `json:"by_source,omitempty"`
	ByBrand    []Count          `json:"by_brand,omitempty"`
}

// Empty reports whether the result carries no context at all.
func (r *Result) Empty() bool {
	return r == nil || r.Kind == KindEmpty
}
