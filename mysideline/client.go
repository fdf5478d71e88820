// Package mysideline talks to the external MySideline carnival feed. The
// core only sees the FeedSource interface; the HTTP client here is one
// implementation of it.
package mysideline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FeedRecord is one carnival as published by MySideline.
type FeedRecord struct {
	ExternalID          string     `json:"id"`
	Title               string     `json:"title"`
	Subtitle            *string    `json:"subtitle,omitempty"`
	OrganiserEmail      *string    `json:"organiser_email,omitempty"`
	AddressLine1        *string    `json:"address_line1,omitempty"`
	AddressLine2        *string    `json:"address_line2,omitempty"`
	Suburb              *string    `json:"suburb,omitempty"`
	State               *string    `json:"state,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	TeamRegistrationFee float64    `json:"team_registration_fee"`
	PerPlayerFee        float64    `json:"per_player_fee"`
}

// FeedSource fetches the current set of carnivals from the feed.
type FeedSource interface {
	FetchCarnivals(ctx context.Context) ([]FeedRecord, error)
}

type feedPage struct {
	Results  []FeedRecord `json:"results"`
	NextPage *int         `json:"next_page,omitempty"`
}

type httpFeedSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFeedSource builds a FeedSource over the MySideline HTTP API.
func NewHTTPFeedSource(baseURL string, timeout time.Duration) FeedSource {
	return &httpFeedSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *httpFeedSource) FetchCarnivals(ctx context.Context) ([]FeedRecord, error) {
	records := make([]FeedRecord, 0)
	page := 1
	for {
		result, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		records = append(records, result.Results...)
		if result.NextPage == nil {
			return records, nil
		}
		page = *result.NextPage
	}
}

func (s *httpFeedSource) fetchPage(ctx context.Context, page int) (*feedPage, error) {
	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("page", strconv.Itoa(page))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned unexpected status %d", resp.StatusCode)
	}

	var result feedPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode feed page %d: %w", page, err)
	}
	return &result, nil
}
