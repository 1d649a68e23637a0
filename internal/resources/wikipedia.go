package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/planforge/planforge/internal/plan"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org"

// WikipediaClient looks up topic summaries on the Wikipedia REST API.
type WikipediaClient struct {
	baseURL string
	client  *http.Client
}

// NewWikipediaClient creates a client with a bounded request timeout.
func NewWikipediaClient(timeout time.Duration) *WikipediaClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WikipediaClient{
		baseURL: defaultWikipediaBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewWikipediaClientWithBaseURL is used by tests to point at a fake server.
func NewWikipediaClientWithBaseURL(baseURL string, timeout time.Duration) *WikipediaClient {
	c := NewWikipediaClient(timeout)
	c.baseURL = baseURL
	return c
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup fetches the page summary for the topic. One outbound call; the
// subject is not part of the Wikipedia query but is kept on the interface
// for lookups that can use it.
func (w *WikipediaClient) Lookup(ctx context.Context, subject, topic string) ([]plan.Resource, error) {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", w.baseURL, url.PathEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No article for this topic. Not an error worth logging loudly.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary: unexpected status %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode wikipedia summary: %w", err)
	}
	if summary.Extract == "" {
		return nil, nil
	}

	pageURL := summary.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/wiki/%s", w.baseURL, url.PathEscape(topic))
	}

	title := summary.Title
	if title == "" {
		title = topic
	}

	return []plan.Resource{{
		Title:       title,
		Description: summary.Extract,
		Source:      "Wikipedia",
		URL:         pageURL,
	}}, nil
}
