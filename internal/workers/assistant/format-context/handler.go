// internal/workers/assistant/format-context/handler.go
package formatcontext

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dealer-assistant/internal/models"
	retrieverecords "dealer-assistant/internal/workers/assistant/retrieve-records"
)

const (
	TaskType = "format-context"
)

type Handler struct {
	config *Config
}

func NewHandler(config *Config) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{config: config}
}

func (h *Handler) Execute(input *Input) *Output {
	return &Output{Text: FormatWithLanguage(input.Result, h.config.Language)}
}

// Format renders a retrieval result as a fixed-layout text block. Every
// non-empty kind renders at least a header and a line stating what was
// found; only an Empty result renders "".
func Format(result *retrieverecords.Result) string {
	return FormatWithLanguage(result, language.English)
}

func FormatWithLanguage(result *retrieverecords.Result, lang language.Tag) string {
	if result.Empty() {
		return ""
	}

	// A Caser is stateful; one per call keeps Format safe for concurrent use.
	f := &formatter{title: cases.Title(lang)}

	switch result.Kind {
	case retrieverecords.KindTodayLeads:
		f.leadList(fmt.Sprintf("Today's Leads (%s): %d", result.Date, len(result.Leads)),
			result.Leads, "No leads found for today.")
	case retrieverecords.KindBrandLeads:
		brand := f.title.String(result.Brand)
		f.leadList(fmt.Sprintf("%s Leads: %d", brand, len(result.Leads)),
			result.Leads, fmt.Sprintf("No leads found for %s.", brand))
	case retrieverecords.KindSourceLeads:
		f.leadList(fmt.Sprintf("%s Leads: %d", result.Source, len(result.Leads)),
			result.Leads, fmt.Sprintf("No %s leads found.", result.Source))
	case retrieverecords.KindLeadsSummary:
		f.leadsSummary(result)
	case retrieverecords.KindTodayInquiries:
		f.inquiryList(fmt.Sprintf("Today's Inquiries (%s): %d", result.Date, len(result.Inquiries)),
			result.Inquiries, "No inquiries found for today.")
	case retrieverecords.KindInquiriesSummary:
		f.inquiriesSummary(result)
	default:
		return ""
	}

	return strings.TrimRight(f.b.String(), "\n")
}

type formatter struct {
	b     strings.Builder
	title cases.Caser
}

func (f *formatter) line(s string) {
	f.b.WriteString(s)
	f.b.WriteByte('\n')
}

func (f *formatter) header(h string) {
	f.line(h)
	f.line(strings.Repeat("=", len([]rune(h))))
}

func (f *formatter) leadList(header string, leads []models.Lead, none string) {
	f.header(header)
	if len(leads) == 0 {
		f.line(none)
		return
	}
	f.leadEntries(leads)
}

func (f *formatter) leadEntries(leads []models.Lead) {
	for i, l := range leads {
		f.line("")
		f.line(fmt.Sprintf("%d. Name: %s", i+1, models.ValueOr(l.Name, models.PlaceholderUnknown)))
		f.field("Lead Source", models.ValueOr(l.LeadSource, models.PlaceholderUnknown))
		f.field("Car Interest", models.ValueOr(l.CarInterest, models.PlaceholderNotSpecified))
		f.field("Budget", models.ValueOr(l.Budget, models.PlaceholderNotSpecified))
		f.field("Phone", models.ValueOr(l.Phone, models.PlaceholderNA))
		f.field("Email", models.ValueOr(l.Email, models.PlaceholderNA))
		f.field("Timestamp", models.ValueOr(l.Timestamp, models.PlaceholderNA))
		f.field("Test Drive Date", models.ValueOr(l.TestDriveDate, models.PlaceholderNA))
	}
}

func (f *formatter) inquiryList(header string, inquiries []models.Inquiry, none string) {
	f.header(header)
	if len(inquiries) == 0 {
		f.line(none)
		return
	}
	f.inquiryEntries(inquiries)
}

func (f *formatter) inquiryEntries(inquiries []models.Inquiry) {
	for i, inq := range inquiries {
		f.line("")
		f.line(fmt.Sprintf("%d. Name: %s", i+1, models.ValueOr(inq.Name, models.PlaceholderUnknown)))
		f.field("Timestamp", models.ValueOr(inq.Timestamp, models.PlaceholderNA))
		for _, fld := range inq.Fields {
			f.field(f.titleKey(fld.Key), fld.Value)
		}
	}
}

func (f *formatter) field(label, value string) {
	f.line(fmt.Sprintf("   %s: %s", label, value))
}

// titleKey turns "test_drive_date" into "Test Drive Date" and "trade-in"
// into "Trade-In". Values of extra keys are printed as stored.
func (f *formatter) titleKey(key string) string {
	return f.title.String(strings.ReplaceAll(key, "_", " "))
}

func (f *formatter) leadsSummary(r *retrieverecords.Result) {
	f.header("Leads Summary")
	if r.Total == 0 {
		f.line("No leads found.")
		return
	}

	f.line("")
	f.line(fmt.Sprintf("Total leads: %d", r.Total))
	f.line(fmt.Sprintf("Leads today: %d", r.TodayCount))

	f.line("")
	f.line("Leads by source:")
	for _, c := range r.BySource {
		f.line(fmt.Sprintf("- %s: %d", c.Key, c.Count))
	}

	f.line("")
	f.line("Leads by brand:")
	for _, c := range r.ByBrand {
		f.line(fmt.Sprintf("- %s: %d", c.Key, c.Count))
	}

	f.line("")
	f.line(fmt.Sprintf("Today's leads (%s):", r.Date))
	if len(r.Leads) == 0 {
		f.line("No leads found for today.")
		return
	}
	f.leadEntries(r.Leads)
}

func (f *formatter) inquiriesSummary(r *retrieverecords.Result) {
	f.header("Inquiries Summary")
	if r.Total == 0 {
		f.line("No inquiries found.")
		return
	}

	f.line("")
	f.line(fmt.Sprintf("Total inquiries: %d", r.Total))
	f.line(fmt.Sprintf("Inquiries today: %d", r.TodayCount))

	f.line("")
	f.line(fmt.Sprintf("Today's inquiries (%s):", r.Date))
	if len(r.Inquiries) == 0 {
		f.line("No inquiries found for today.")
		return
	}
	f.inquiryEntries(r.Inquiries)
}
