package websearch

import (
	"testing"
)

func TestDetermineResourceType(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "video"},
		{"https://vimeo.com/12345", "video"},
		{"https://www.coursera.org/learn/calculus", "course"},
		{"https://www.edx.org/course/chemistry", "course"},
		{"https://www.udemy.com/course/golang", "course"},
		{"https://en.wikipedia.org/wiki/Redox", "article"},
		{"https://www.britannica.com/science/oxidation", "article"},
		{"https://ocw.mit.edu/courses/physics", "resource"},
		{"https://example.com/blog/post", "resource"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DetermineResourceType(tt.url); got != tt.want {
				t.Errorf("DetermineResourceType(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsVideoContent(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://vimeo.com/999", true},
		{"https://khanacademy.org/video/limits", true},
		{"https://example.com/watch-this", true},
		{"https://en.wikipedia.org/wiki/Limit", false},
		{"https://mit.edu/lecture-notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := isVideoContent(tt.url); got != tt.want {
				t.Errorf("isVideoContent(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "youtube.com"},
		{"https://en.wikipedia.org/wiki/Redox", "en.wikipedia.org"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := extractDomain(tt.url); got != tt.want {
				t.Errorf("extractDomain(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
