package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Domain allowlists per search flavor.
var (
	educationalDomains = []string{
		"youtube.com", "khanacademy.org", "coursera.org", "edx.org",
		"mit.edu", "stanford.edu", "harvard.edu", "codecademy.com",
		"udemy.com", "pluralsight.com", "wikipedia.org", "britannica.com",
	}
	videoDomains = []string{
		"youtube.com", "vimeo.com", "khanacademy.org", "coursera.org", "edx.org",
	}
	articleDomains = []string{
		"wikipedia.org", "britannica.com", "khanacademy.org",
		"mit.edu", "stanford.edu", "harvard.edu",
	}
	courseDomains = []string{
		"coursera.org", "edx.org", "udemy.com",
		"pluralsight.com", "codecademy.com", "khanacademy.org",
	}
)

type TavilyProvider struct {
	apiKey string
	client *http.Client
}

var _ SearchProvider = &TavilyProvider{}

func NewTavilyProvider(apiKey string) *TavilyProvider {
	return &TavilyProvider{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tavilySearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (p *TavilyProvider) search(ctx context.Context, query string, maxResults int, domains []string) (*tavilySearchResponse, error) {
	reqPayload := tavilySearchRequest{
		Query:          query,
		SearchDepth:    "advanced",
		MaxResults:     maxResults,
		IncludeDomains: domains,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", tavilyEndpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp tavilySearchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &searchResp, nil
}

func (p *TavilyProvider) SearchEducationalResources(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	query := fmt.Sprintf("%s %s education tutorial learn", topic, subject)
	resp, err := p.search(ctx, query, maxResults, educationalDomains)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(resp.Results))
	for _, r := range resp.Results {
		resources = append(resources, Resource{
			Title:          r.Title,
			URL:            r.URL,
			Description:    r.Content,
			Source:         extractDomain(r.URL),
			Type:           DetermineResourceType(r.URL),
			RelevanceScore: r.Score,
		})
	}
	return resources, nil
}

func (p *TavilyProvider) SearchVideos(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	query := fmt.Sprintf("%s %s video tutorial explanation", topic, subject)
	resp, err := p.search(ctx, query, maxResults, videoDomains)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(resp.Results))
	for _, r := range resp.Results {
		if !isVideoContent(r.URL) {
			continue
		}
		resources = append(resources, Resource{
			Title:          r.Title,
			URL:            r.URL,
			Description:    r.Content,
			Source:         extractDomain(r.URL),
			Type:           "video",
			RelevanceScore: r.Score,
		})
	}
	return resources, nil
}

func (p *TavilyProvider) SearchArticles(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	query := fmt.Sprintf("%s %s article guide explanation", topic, subject)
	resp, err := p.search(ctx, query, maxResults, articleDomains)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(resp.Results))
	for _, r := range resp.Results {
		if isVideoContent(r.URL) {
			continue
		}
		resources = append(resources, Resource{
			Title:          r.Title,
			URL:            r.URL,
			Description:    r.Content,
			Source:         extractDomain(r.URL),
			Type:           "article",
			RelevanceScore: r.Score,
		})
	}
	return resources, nil
}

func (p *TavilyProvider) SearchCourses(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	query := fmt.Sprintf("%s %s course online learning", topic, subject)
	resp, err := p.search(ctx, query, maxResults, courseDomains)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(resp.Results))
	for _, r := range resp.Results {
		resources = append(resources, Resource{
			Title:          r.Title,
			URL:            r.URL,
			Description:    r.Content,
			Source:         extractDomain(r.URL),
			Type:           "course",
			RelevanceScore: r.Score,
		})
	}
	return resources, nil
}

func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// DetermineResourceType classifies a URL as video, course, article or generic resource.
func DetermineResourceType(rawURL string) string {
	lower := strings.ToLower(rawURL)

	switch {
	case strings.Contains(lower, "youtube.com") || strings.Contains(lower, "vimeo.com"):
		return "video"
	case strings.Contains(lower, "coursera.org") || strings.Contains(lower, "edx.org") || strings.Contains(lower, "udemy.com"):
		return "course"
	case strings.Contains(lower, "wikipedia.org") || strings.Contains(lower, "britannica.com"):
		return "article"
	default:
		return "resource"
	}
}

func isVideoContent(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, indicator := range []string{"youtube.com", "vimeo.com", "video", "watch"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
