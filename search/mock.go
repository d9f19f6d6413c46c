package search

import (
	"context"
	"strings"

	"github.com/chinesepowered/appliedai/models"
)

// StatuteProvider is a mocked statute-db source. It serves the small set of
// California landlord-tenant statutes the demo is built around.
type StatuteProvider struct{}

// NewStatuteProvider creates the mocked statute source.
func NewStatuteProvider() *StatuteProvider {
	return &StatuteProvider{}
}

func (p *StatuteProvider) Name() string {
	return models.SourceStatuteDB
}

// Search returns statutes when the query touches the landlord-tenant
// domain, nothing otherwise.
func (p *StatuteProvider) Search(_ context.Context, query, _ string) ([]models.CaseRecord, error) {
	q := strings.ToLower(query)
	if !containsAny(q, "landlord", "tenant", "deposit", "lease", "eviction", "rent", "1950.5", "1942") {
		return nil, nil
	}

	return []models.CaseRecord{
		{
			Identifier:   "statute-1950-5",
			Name:         "Cal. Civ. Code § 1950.5 (Security Deposits)",
			Court:        "California Legislature",
			Date:         "2024-01-01",
			Snippet:      "A landlord must return the security deposit within 21 days of the tenant vacating, with an itemized statement of any deductions under Civil Code 1950.5.",
			Jurisdiction: "ca",
			Citation:     "Cal. Civ. Code § 1950.5",
			Source:       models.SourceStatuteDB,
		},
		{
			Identifier:   "statute-1942",
			Name:         "Cal. Civ. Code § 1942 (Repair and Deduct)",
			Court:        "California Legislature",
			Date:         "2024-01-01",
			Snippet:      "When a landlord fails to maintain habitability, the tenant may repair and deduct the cost from rent under Civil Code 1942.",
			Jurisdiction: "ca",
			Citation:     "Cal. Civ. Code § 1942",
			Source:       models.SourceStatuteDB,
		},
	}, nil
}

// DemoProvider is a mocked reporter that serves the hackathon's canned case
// sets, keyed on query keywords the same way the original fallback data was.
type DemoProvider struct{}

// NewDemoProvider creates the mocked demo source.
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

func (p *DemoProvider) Name() string {
	return models.SourceDemo
}

func (p *DemoProvider) Search(_ context.Context, query, _ string) ([]models.CaseRecord, error) {
	q := strings.ToLower(query)
	if containsAny(q, "murder", "criminal") {
		return criminalCases(), nil
	}
	return landlordTenantCases(), nil
}

func criminalCases() []models.CaseRecord {
	return []models.CaseRecord{
		{
			Identifier:   "mock-criminal-1",
			Name:         "People v. Wilson",
			Court:        "California Court of Appeal",
			Date:         "1963-05-15",
			Snippet:      "The location of the actus reus (the criminal act) is a key determinant in establishing jurisdiction for criminal prosecution.",
			Jurisdiction: "ca",
			Citation:     "220 Cal.App.2d 568 (1963)",
			Source:       models.SourceDemo,
		},
		{
			Identifier:   "mock-criminal-2",
			Name:         "Strassheim v. Daily",
			Court:        "U.S. Supreme Court",
			Date:         "1911-03-13",
			Snippet:      "A state's power to prosecute offenses committed within its boundaries is not lost merely because the defendant is later found outside of the state.",
			Jurisdiction: "federal",
			Citation:     "221 U.S. 280 (1911)",
			Source:       models.SourceDemo,
		},
	}
}

func landlordTenantCases() []models.CaseRecord {
	return []models.CaseRecord{
		{
			Identifier:   "mock-1",
			Name:         "Green v. Superior Court",
			Court:        "CA Supreme Court",
			Date:         "2023-03-15",
			Snippet:      "Security deposits must be returned within 21 days unless specific deductions are itemized.",
			Jurisdiction: "ca",
			Citation:     "2023 Cal. LEXIS 1234",
			Source:       models.SourceDemo,
		},
		{
			Identifier:   "mock-2",
			Name:         "Tenant Rights Coalition v. Metro Housing",
			Court:        "9th Circuit",
			Date:         "2022-11-08",
			Snippet:      "Landlords bear burden of proof for security deposit deductions under Civil Code 1950.5.",
			Jurisdiction: "federal",
			Citation:     "2022 F.3d 567 (9th Cir.)",
			Source:       models.SourceDemo,
		},
		{
			Identifier:   "mock-opp-1",
			Name:         "Landlord Protection Alliance v. Davis",
			Court:        "CA Court of Appeal",
			Date:         "2023-01-20",
			Snippet:      "Court held that normal wear and tear standards are subjective and landlords have discretion in deposit deductions.",
			Jurisdiction: "ca",
			Citation:     "2023 Cal. App. LEXIS 890",
			Source:       models.SourceDemo,
		},
		{
			Identifier:   "mock-opp-2",
			Name:         "Property Owners United v. State",
			Court:        "Superior Court",
			Date:         "2022-09-14",
			Snippet:      "Tenant failed to provide forwarding address, relieving landlord of deposit return obligations.",
			Jurisdiction: "ca",
			Citation:     "2022 Cal. Super. LEXIS 445",
			Source:       models.SourceDemo,
		},
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
