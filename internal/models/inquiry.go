package models

import "strings"

// Inquiry is a non-lead record with an open schema. Only name and timestamp
// are first-class; every other key is kept in Fields in source order.
type Inquiry struct {
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Fields    Record `json:"fields,omitempty"`
}

// InquiryFromRecord splits a loose record into the known header fields and
// the ordered remainder.
func InquiryFromRecord(r Record) Inquiry {
	inq := Inquiry{}
	for _, f := range r {
		switch f.Key {
		case "name":
			inq.Name = f.Value
		case "timestamp":
			inq.Timestamp = f.Value
		default:
			inq.Fields = append(inq.Fields, f)
		}
	}
	return inq
}

// CreatedOn reports whether the inquiry timestamp starts with date.
func (i Inquiry) CreatedOn(date string) bool {
	return date != "" && strings.HasPrefix(i.Timestamp, date)
}
