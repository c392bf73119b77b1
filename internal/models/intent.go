package models

import "strings"

type DataType string

const (
	DataTypeLeads     DataType = "leads"
	DataTypeInquiries DataType = "inquiries"
	DataTypeNone      DataType = "none"
)

type Topic string

const (
	TopicAllLeads     Topic = "all_leads"
	TopicAllInquiries Topic = "all_inquiries"
	TopicNone         Topic = "none"
)

type DateFilter string

const (
	DateFilterToday DateFilter = "today"
	DateFilterNone  DateFilter = "none"
)

type QueryType string

const (
	QueryTypeCount   QueryType = "count"
	QueryTypeList    QueryType = "list"
	QueryTypeGeneral QueryType = "general"
)

// LeadFocus narrows a leads query to a brand (car_<brand>) or a lead source.
type LeadFocus string

const (
	FocusPhoneCall   LeadFocus = "phone_call"
	FocusWebForm     LeadFocus = "web_form"
	FocusWalkIn      LeadFocus = "walk-in"
	FocusEmail       LeadFocus = "email"
	FocusTestDrive   LeadFocus = "test_drive"
	FocusSocialMedia LeadFocus = "social_media"
	FocusNone        LeadFocus = "none"

	brandFocusPrefix = "car_"
)

// sourceNames maps a source focus to the lead_source value it selects.
var sourceNames = map[LeadFocus]string{
	FocusPhoneCall:   "Phone Call",
	FocusWebForm:     "Web Form",
	FocusWalkIn:      "Walk-in",
	FocusEmail:       "Email",
	FocusTestDrive:   "Test Drive",
	FocusSocialMedia: "Social Media",
}

// BrandFocus returns the focus value for a lower-case brand name.
func BrandFocus(brand string) LeadFocus {
	return LeadFocus(brandFocusPrefix + brand)
}

// Brand returns the brand of a car_<brand> focus.
func (f LeadFocus) Brand() (string, bool) {
	if !strings.HasPrefix(string(f), brandFocusPrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(f), brandFocusPrefix), true
}

// SourceName returns the lead_source display value of a source focus.
func (f LeadFocus) SourceName() (string, bool) {
	name, ok := sourceNames[f]
	return name, ok
}

// QueryIntent is the structured classification of a single user turn. It is
// a plain value: build a fresh one per request and never share it.
type QueryIntent struct {
	DataType      DataType   `json:"data_type"`
	CurrentTopic  Topic      `json:"current_topic"`
	LeadTypeFocus LeadFocus  `json:"lead_type_focus"`
	DateFilter    DateFilter `json:"date_filter"`
	LastQueryType QueryType  `json:"last_query_type"`
}

// NewQueryIntent returns the all-none/general intent.
func NewQueryIntent() QueryIntent {
	return QueryIntent{
		DataType:      DataTypeNone,
		CurrentTopic:  TopicNone,
		LeadTypeFocus: FocusNone,
		DateFilter:    DateFilterNone,
		LastQueryType: QueryTypeGeneral,
	}
}

// Key is a compact, stable encoding of every field, usable as a cache key.
func (q QueryIntent) Key() string {
	return strings.Join([]string{
		string(q.DataType),
		string(q.CurrentTopic),
		string(q.LeadTypeFocus),
		string(q.DateFilter),
		string(q.LastQueryType),
	}, "|")
}
