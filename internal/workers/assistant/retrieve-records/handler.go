// internal/workers/assistant/retrieve-records/handler.go
package retrieverecords

import (
	"sort"
	"strings"

	"dealer-assistant/internal/common/metrics"
	"dealer-assistant/internal/models"
)

const (
	TaskType = "retrieve-records"
)

// Records is the read-only view of the record store.
type Records interface {
	Leads() []models.Lead
	Inquiries() []models.Inquiry
}

type Handler struct {
	records Records
}

func NewHandler(records Records) *Handler {
	return &Handler{records: records}
}

func (h *Handler) Execute(input *Input) *Output {
	result := Retrieve(input.Intent, h.records, input.Date)
	metrics.RetrievalsTotal.WithLabelValues(string(result.Kind)).Inc()
	return &Output{Result: result}
}

// Retrieve selects the records for intent. Exactly one branch is taken and
// it never fails; an empty store yields a result with no records.
func Retrieve(intent models.QueryIntent, records Records, date string) *Result {
	switch intent.DataType {
	case models.DataTypeInquiries:
		if intent.DateFilter == models.DateFilterToday {
			return todayInquiries(records.Inquiries(), date)
		}
		return inquiriesSummary(records.Inquiries(), date)

	case models.DataTypeLeads:
		if intent.DateFilter == models.DateFilterToday {
			return todayLeads(records.Leads(), date)
		}
		if brand, ok := intent.LeadTypeFocus.Brand(); ok {
			return brandLeads(records.Leads(), brand, date)
		}
		if source, ok := intent.LeadTypeFocus.SourceName(); ok {
			return sourceLeads(records.Leads(), source, date)
		}
		return leadsSummary(records.Leads(), date)
	}

	return &Result{Kind: KindEmpty, Date: date}
}

func todayLeads(leads []models.Lead, date string) *Result {
	return &Result{
		Kind:  KindTodayLeads,
		Date:  date,
		Leads: leadsOn(leads, date),
	}
}

func brandLeads(leads []models.Lead, brand, date string) *Result {
	needle := strings.ToLower(brand)
	var matched []models.Lead
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.CarInterest), needle) {
			matched = append(matched, l)
		}
	}
	return &Result{
		Kind:  KindBrandLeads,
		Date:  date,
		Brand: brand,
		Leads: matched,
	}
}

// sourceLeads is an exact, case-insensitive match on lead_source.
func sourceLeads(leads []models.Lead, source, date string) *Result {
	var matched []models.Lead
	for _, l := range leads {
		if strings.EqualFold(l.LeadSource, source) {
			matched = append(matched, l)
		}
	}
	return &Result{
		Kind:   KindSourceLeads,
		Date:   date,
		Source: source,
		Leads:  matched,
	}
}

func leadsSummary(leads []models.Lead, date string) *Result {
	bySource := make(map[string]int)
	byBrand := make(map[string]int)
	for _, l := range leads {
		bySource[models.ValueOr(l.LeadSource, models.PlaceholderUnknown)]++
		byBrand[models.ValueOr(l.Brand(), models.PlaceholderUnknown)]++
	}

	today := leadsOn(leads, date)
	return &Result{
		Kind:       KindLeadsSummary,
		Date:       date,
		Leads:      today,
		Total:      len(leads),
		TodayCount: len(today),
		BySource:   sortedCounts(bySource),
		ByBrand:    sortedCounts(byBrand),
	}
}

func todayInquiries(inquiries []models.Inquiry, date string) *Result {
	return &Result{
		Kind:      KindTodayInquiries,
		Date:      date,
		Inquiries: inquiriesOn(inquiries, date),
	}
}

func inquiriesSummary(inquiries []models.Inquiry, date string) *Result {
	today := inquiriesOn(inquiries, date)
	return &Result{
		Kind:       KindInquiriesSummary,
		Date:       date,
		Inquiries:  today,
		Total:      len(inquiries),
		TodayCount: len(today),
	}
}

func leadsOn(leads []models.Lead, date string) []models.Lead {
	var out []models.Lead
	for _, l := range leads {
		if l.CreatedOn(date) {
			out = append(out, l)
		}
	}
	return out
}

func inquiriesOn(inquiries []models.Inquiry, date string) []models.Inquiry {
	var out []models.Inquiry
	for _, i := range inquiries {
		if i.CreatedOn(date) {
			out = append(out, i)
		}
	}
	return out
}

func sortedCounts(m map[string]int) []Count {
	if len(m) == 0 {
		return nil
	}
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
