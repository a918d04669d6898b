package services

import (
	"fmt"
	"sort"
	"sync"
)

// The QC engine does not own application, document, or stipulation data; it
// consumes them through these narrow interfaces when seeding a review.

// ApplicationSummary is the slice of loan-application data the engine
// denormalizes onto a review for listing and filtering.
type ApplicationSummary struct {
	ApplicationID string
	BorrowerName  string
	SchoolID      string
	SchoolName    string
}

// ApplicationDirectory looks up loan applications.
type ApplicationDirectory interface {
	GetApplication(applicationID string) (*ApplicationSummary, error)
}

// RequiredDocument describes one document the application must supply.
type RequiredDocument struct {
	DocumentID   string
	DocumentType string
	FileName     string
	DownloadURL  string
}

// DocumentCatalog lists the documents required for an application.
type DocumentCatalog interface {
	RequiredDocuments(applicationID string) ([]RequiredDocument, error)
}

// StipulationSource lists the underwriting stipulations for an application.
type StipulationSource interface {
	Stipulations(applicationID string) ([]string, error)
}

// ChecklistEntry is one reviewer-facing assertion to verify.
type ChecklistEntry struct {
	Category string
	Text     string
}

// ChecklistTemplate supplies the checklist entries seeded onto a new review.
// The seed source is deliberately an input, not a hard-coded list.
type ChecklistTemplate interface {
	Entries(applicationID string) ([]ChecklistEntry, error)
}

// StaticCollaborators is a fixture-backed implementation of all four seed
// interfaces, used in tests and local development.
type StaticCollaborators struct {
	mu           sync.RWMutex
	applications map[string]ApplicationSummary
	documents    map[string][]RequiredDocument
	stipulations map[string][]string
	checklist    []ChecklistEntry
}

// NewStaticCollaborators creates an empty fixture set with the given
// checklist template.
func NewStaticCollaborators(checklist []ChecklistEntry) *StaticCollaborators {
	return &StaticCollaborators{
		applications: make(map[string]ApplicationSummary),
		documents:    make(map[string][]RequiredDocument),
		stipulations: make(map[string][]string),
		checklist:    checklist,
	}
}

// AddApplication registers an application fixture with its documents and
// stipulations.
func (s *StaticCollaborators) AddApplication(app ApplicationSummary, docs []RequiredDocument, stips []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ApplicationID] = app
	s.documents[app.ApplicationID] = docs
	s.stipulations[app.ApplicationID] = stips
}

func (s *StaticCollaborators) GetApplication(applicationID string) (*ApplicationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[applicationID]
	if !ok {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}
	return &app, nil
}

func (s *StaticCollaborators) RequiredDocuments(applicationID string) ([]RequiredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RequiredDocument(nil), s.documents[applicationID]...), nil
}

func (s *StaticCollaborators) Stipulations(applicationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.stipulations[applicationID]...), nil
}

func (s *StaticCollaborators) Entries(applicationID string) ([]ChecklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ChecklistEntry(nil), s.checklist...), nil
}

// ApplicationIDs returns the registered fixture ids, sorted, for dev output.
func (s *StaticCollaborators) ApplicationIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.applications))
	for id := range s.applications {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultChecklist is the standard QC checklist applied when no
// program-specific template is configured.
func DefaultChecklist() []ChecklistEntry {
	return []ChecklistEntry{
		{Category: "loan_terms", Text: "Loan amount matches underwriting approval"},
		{Category: "loan_terms", Text: "Interest rate and fees match the approved program"},
		{Category: "identity", Text: "Borrower identity matches application and documents"},
		{Category: "enrollment", Text: "School and program enrollment confirmed"},
		{Category: "signatures", Text: "All required signatures are present and dated"},
		{Category: "compliance", Text: "Disclosures delivered within required timeframes"},
	}
}
