package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Get(t *testing.T) {
	r := Record{{Key: "name", Value: "Ravi"}, {Key: "email", Value: ""}}

	v, ok := r.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Ravi", v)

	v, ok = r.Get("email")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = r.Get("phone")
	assert.False(t, ok)
	assert.Empty(t, r.Value("phone"))
}

func TestLead_Brand(t *testing.T) {
	tests := []struct {
		interest string
		want     string
	}{
		{"BMW X5", "BMW"},
		{"  toyota   camry ", "toyota"},
		{"Tesla", "Tesla"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Lead{CarInterest: tt.interest}.Brand(), tt.interest)
	}
}

func TestCreatedOn(t *testing.T) {
	lead := Lead{Timestamp: "2025-06-02T09:14:00"}
	assert.True(t, lead.CreatedOn("2025-06-02"))
	assert.False(t, lead.CreatedOn("2025-06-01"))
	assert.False(t, lead.CreatedOn(""))
	assert.False(t, Lead{}.CreatedOn("2025-06-02"))

	inq := Inquiry{Timestamp: "2025-06-02 10:30"}
	assert.True(t, inq.CreatedOn("2025-06-02"))
	assert.False(t, inq.CreatedOn("2025-06-03"))
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, "x", ValueOr("x", PlaceholderUnknown))
	assert.Equal(t, PlaceholderUnknown, ValueOr("", PlaceholderUnknown))
	assert.Equal(t, PlaceholderNA, ValueOr("  ", PlaceholderNA))
}

func TestLeadFromRecord_MissingKeysStayEmpty(t *testing.T) {
	l := LeadFromRecord(Record{{Key: "name", Value: "Ravi"}, {Key: "test_drive_date", Value: "2025-06-05"}})
	assert.Equal(t, Lead{Name: "Ravi", TestDriveDate: "2025-06-05"}, l)
}

func TestInquiryFromRecord_KeepsOrder(t *testing.T) {
	inq := InquiryFromRecord(Record{
		{Key: "zeta", Value: "1"},
		{Key: "name", Value: "Peter"},
		{Key: "alpha", Value: "2"},
	})
	assert.Equal(t, "Peter", inq.Name)
	assert.Equal(t, Record{{Key: "zeta", Value: "1"}, {Key: "alpha", Value: "2"}}, inq.Fields)
}

func TestQueryIntent(t *testing.T) {
	q := NewQueryIntent()
	assert.Equal(t, "none|none|none|none|general", q.Key())

	q.LeadTypeFocus = BrandFocus("bmw")
	brand, ok := q.LeadTypeFocus.Brand()
	assert.True(t, ok)
	assert.Equal(t, "bmw", brand)
	_, ok = q.LeadTypeFocus.SourceName()
	assert.False(t, ok)

	name, ok := FocusWalkIn.SourceName()
	assert.True(t, ok)
	assert.Equal(t, "Walk-in", name)
	_, ok = FocusWalkIn.Brand()
	assert.False(t, ok)
}
