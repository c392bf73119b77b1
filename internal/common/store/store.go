// Package store holds the lead and inquiry collections. A Store is built once
// and never mutated, so it is safe to share between concurrent requests.
package store

import (
	"dealer-assistant/internal/common/loader"
	"dealer-assistant/internal/models"
)

type Store struct {
	leads     []models.Lead
	inquiries []models.Inquiry
}

// New builds a store from already-typed records. The slices are copied.
func New(leads []models.Lead, inquiries []models.Inquiry) *Store {
	s := &Store{
		leads:     make([]models.Lead, len(leads)),
		inquiries: make([]models.Inquiry, len(inquiries)),
	}
	copy(s.leads, leads)
	copy(s.inquiries, inquiries)
	return s
}

// FromDatasets converts loose loader records into a store.
func FromDatasets(ds loader.Datasets) *Store {
	s := &Store{
		leads:     make([]models.Lead, 0, len(ds.Leads)),
		inquiries: make([]models.Inquiry, 0, len(ds.Inquiries)),
	}
	for _, r := range ds.Leads {
		s.leads = append(s.leads, models.LeadFromRecord(r))
	}
	for _, r := range ds.Inquiries {
		s.inquiries = append(s.inquiries, models.InquiryFromRecord(r))
	}
	return s
}

// Empty returns a store with no records.
func Empty() *Store {
	return &Store{}
}

// Leads returns the lead collection. Callers must not modify it.
func (s *Store) Leads() []models.Lead {
	return s.leads
}

// Inquiries returns the inquiry collection. Callers must not modify it.
func (s *Store) Inquiries() []models.Inquiry {
	return s.inquiries
}
