package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chinesepowered/appliedai/models"
)

const (
	defaultCourtListenerURL = "https://www.courtlistener.com"
	courtListenerSearchPath = "/api/rest/v4/search/"

	// federalCourts is the court filter applied for federal-jurisdiction
	// searches: SCOTUS plus the circuit courts of appeals.
	federalCourts = "scotus,ca1,ca2,ca3,ca4,ca5,ca6,ca7,ca8,ca9,ca10,ca11,cadc"

	// maxCasesPerQuery keeps each sub-query's contribution small; the
	// ranker caps the combined list anyway.
	maxCasesPerQuery = 5
)

// CourtListenerClient searches the CourtListener opinion API. Requests are
// throttled to stay under the API's anonymous rate limits.
type CourtListenerClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewCourtListenerClient creates a client. baseURL may be empty to use the
// public API; token may be empty for anonymous access.
func NewCourtListenerClient(baseURL, token string) *CourtListenerClient {
	if baseURL == "" {
		baseURL = defaultCourtListenerURL
	}
	return &CourtListenerClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Name returns the provenance tag for records from this provider.
func (c *CourtListenerClient) Name() string {
	return models.SourceOfficialReporter
}

type courtListenerResponse struct {
	Results []courtListenerResult `json:"results"`
}

type courtListenerResult struct {
	ID          json.Number           `json:"id"`
	CaseName    string                `json:"caseName"`
	Court       string                `json:"court"`
	DateFiled   string                `json:"dateFiled"`
	Snippet     string                `json:"snippet"`
	AbsoluteURL string                `json:"absolute_url"`
	Citation    courtListenerCitation `json:"citation"`
}

type courtListenerCitation struct {
	Neutral string `json:"neutral"`
}

// Search queries the opinion search endpoint and normalizes the top results
// into CaseRecords.
func (c *CourtListenerClient) Search(ctx context.Context, query, jurisdiction string) ([]models.CaseRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "o") // opinions
	params.Set("order_by", "score desc")
	params.Set("format", "json")
	if strings.EqualFold(jurisdiction, "federal") {
		params.Set("court", federalCourts)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+courtListenerSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search CourtListener: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CourtListener API error: %d", resp.StatusCode)
	}

	var payload courtListenerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := payload.Results
	if len(results) > maxCasesPerQuery {
		results = results[:maxCasesPerQuery]
	}

	records := make([]models.CaseRecord, 0, len(results))
	for _, result := range results {
		records = append(records, c.normalize(result, jurisdiction))
	}
	return records, nil
}

// normalize maps one raw API result onto the common CaseRecord shape,
// defaulting missing fields the way the demo frontend expects.
func (c *CourtListenerClient) normalize(result courtListenerResult, jurisdiction string) models.CaseRecord {
	name := result.CaseName
	if name == "" {
		name = "Unknown Case"
	}
	court := result.Court
	if court == "" {
		court = "Unknown Court"
	}

	record := models.CaseRecord{
		Identifier: result.ID.String(),
		Name:       name,
		Court:      court,
		Date:       result.DateFiled,
		Snippet:    result.Snippet,
		Citation:   result.Citation.Neutral,
		Source:     models.SourceOfficialReporter,
	}
	if result.AbsoluteURL != "" {
		record.URL = c.baseURL + result.AbsoluteURL
	}
	if strings.EqualFold(jurisdiction, "federal") {
		record.Jurisdiction = "federal"
	}
	return record
}
