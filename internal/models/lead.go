package models

import "strings"

// Display placeholders for missing record fields.
const (
	PlaceholderUnknown      = "Unknown"
	PlaceholderNotSpecified = "Not specified"
	PlaceholderNA           = "N/A"
)

// Lead represents one customer sales lead
type Lead struct {
	Name          string `json:"name"`
	LeadSource    string `json:"lead_source"`
	CarInterest   string `json:"car_interest"`
	Budget        string `json:"budget"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Timestamp     string `json:"timestamp"`
	TestDriveDate string `json:"test_drive_date,omitempty"`
}

// LeadFromRecord maps the known lead keys out of a loose record. Unknown
// keys are ignored and missing keys stay empty.
func LeadFromRecord(r Record) Lead {
	return Lead{
		Name:          r.Value("name"),
		LeadSource:    r.Value("lead_source"),
		CarInterest:   r.Value("car_interest"),
		Budget:        r.Value("budget"),
		Phone:         r.Value("phone"),
		Email:         r.Value("email"),
		Timestamp:     r.Value("timestamp"),
		TestDriveDate: r.Value("test_drive_date"),
	}
}

// Brand is the first whitespace-delimited token of CarInterest, or "".
func (l Lead) Brand() string {
	fields := strings.Fields(l.CarInterest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CreatedOn reports whether the lead timestamp starts with date (YYYY-MM-DD).
// No parsing or timezone handling is done.
func (l Lead) CreatedOn(date string) bool {
	return date != "" && strings.HasPrefix(l.Timestamp, date)
}

// ValueOr returns v, or placeholder when v is blank.
func ValueOr(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
