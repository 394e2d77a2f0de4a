package websearch

import "context"

// Resource is a single educational resource found on the web.
type Resource struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Description    string  `json:"description"`
	Source         string  `json:"source"`
	Type           string  `json:"type"` // video, article, course, resource
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchProvider defines the contract for educational web search backends.
type SearchProvider interface {
	SearchEducationalResources(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error)
	SearchVideos(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error)
	SearchArticles(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error)
	SearchCourses(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error)
}
