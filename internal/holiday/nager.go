package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const nagerBaseURL = "https://date.nager.at"

// NagerProvider fetches public holidays from a Nager.Date compatible API.
type NagerProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	country    string
}

// NewNagerProvider creates a provider for the given ISO 3166-1 country code.
// An empty baseURL uses the public Nager.Date service.
func NewNagerProvider(httpClient *http.Client, baseURL, country string) *NagerProvider {
	if baseURL == "" {
		baseURL = nagerBaseURL
	}
	return &NagerProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    strings.ToUpper(country),
	}
}

// Name returns the provider's display name.
func (p *NagerProvider) Name() string { return "Nager.Date" }

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
}

// Holidays fetches the public holidays of year. Regional holidays
// (global=false) are ignored.
func (p *NagerProvider) Holidays(ctx context.Context, year int) (Dates, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", p.baseURL, year, p.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday http request for %d/%s: %w", year, p.country, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday request for %d/%s: unexpected status %d", year, p.country, resp.StatusCode)
	}

	var body []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding holiday response for %d/%s: %w", year, p.country, err)
	}

	dates := make(Dates, len(body))
	for _, h := range body {
		if !h.Global || len(h.Date) < len("2006-01-02") {
			continue
		}
		name := h.Name
		if name == "" {
			name = h.LocalName
		}
		dates[h.Date[:10]] = name
	}
	return dates, nil
}
