// internal/workers/assistant/classify-intent/handler.go
package classifyintent

import (
	"strings"

	"dealer-assistant/internal/common/metrics"
	"dealer-assistant/internal/models"
)

const (
	TaskType = "classify-intent"
)

var (
	inquiryKeywords = []string{"inquiry", "inquiries"}
	leadKeywords    = []string{"leads", "lead"}
	todayKeywords   = []string{"today", "today's", "this morning", "this afternoon"}
	countKeywords   = []string{"how many", "count", "number of"}
	listKeywords    = []string{"show", "list", "see", "give me", "what are"}

	// Evaluated in order; the first match is the source focus.
	sourceRules = []sourceRule{
		{focus: models.FocusPhoneCall, keywords: []string{"phone", "call"}},
		{focus: models.FocusWebForm, keywords: []string{"web", "form", "online"}},
		{focus: models.FocusWalkIn, keywords: []string{"walk-in", "walk in", "walkin"}},
		{focus: models.FocusEmail, keywords: []string{"email"}},
		{focus: models.FocusTestDrive, keywords: []string{"test drive", "testdrive"}},
		{focus: models.FocusSocialMedia, keywords: []string{"social", "media"}},
	}
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

// Execute classifies one turn. The returned intent belongs to the caller.
func (h *Handler) Execute(input *Input) *Output {
	intent := ClassifyWithBrands(input.Text, h.config.Brands)

	metrics.IntentsClassified.WithLabelValues(string(intent.DataType), string(intent.LastQueryType)).Inc()

	return &Output{Intent: intent}
}

// Classify maps raw user text to a QueryIntent using the default brand list.
func Classify(text string) models.QueryIntent {
	return ClassifyWithBrands(text, DefaultBrands)
}

// ClassifyWithBrands starts from an all-none intent on every call, so nothing
// carries over between turns. Matching is case-insensitive substring search.
func ClassifyWithBrands(text string, brands []string) models.QueryIntent {
	intent := models.NewQueryIntent()
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, inquiryKeywords):
		intent.DataType = models.DataTypeInquiries
		intent.CurrentTopic = models.TopicAllInquiries
	case containsAny(lower, leadKeywords):
		intent.DataType = models.DataTypeLeads
		intent.CurrentTopic = models.TopicAllLeads
	}

	if containsAny(lower, todayKeywords) {
		intent.DateFilter = models.DateFilterToday
	}

	if intent.DataType == models.DataTypeLeads {
		for _, brand := range brands {
			if strings.Contains(lower, brand) {
				intent.LeadTypeFocus = models.BrandFocus(brand)
				break
			}
		}

		// A source keyword overwrites any brand focus.
		for _, rule := range sourceRules {
			if containsAny(lower, rule.keywords) {
				intent.LeadTypeFocus = rule.focus
				break
			}
		}
	}

	switch {
	case containsAny(lower, countKeywords):
		intent.LastQueryType = models.QueryTypeCount
	case containsAny(lower, listKeywords):
		intent.LastQueryType = models.QueryTypeList
	}

	return intent
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
