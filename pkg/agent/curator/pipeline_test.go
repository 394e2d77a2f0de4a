package curator

import (
	"context"
	"fmt"
	"testing"

	"eduverse-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawResources(n int) []websearch.Resource {
	resources := make([]websearch.Resource, 0, n)
	for i := 0; i < n; i++ {
		resources = append(resources, websearch.Resource{
			Title:       fmt.Sprintf("Resource %d", i+1),
			URL:         fmt.Sprintf("https://example.edu/r/%d", i+1),
			Type:        "article",
			Description: "An educational article",
			Source:      "example.edu",
		})
	}
	return resources
}

func TestFallbackCurationKeepsFirstN(t *testing.T) {
	p := &Pipeline{fallbackLimit: 8, fallbackRating: 4.0}
	state := &State{
		Analysis:     Analysis{Topic: "photosynthesis"},
		RawResources: rawResources(12),
	}

	curation := p.fallbackCuration(state)

	require.Len(t, curation.CuratedResources, 8)
	assert.Equal(t, 12, curation.TotalFound)
	assert.Equal(t, "Found 12 resources for photosynthesis", curation.SearchSummary)

	for i, resource := range curation.CuratedResources {
		assert.Equal(t, fmt.Sprintf("Resource %d", i+1), resource.Title)
		assert.Equal(t, 4.0, resource.Rating)
		assert.Equal(t, "Quality educational content from trusted source", resource.WhyRecommended)
	}
}

func TestFallbackCurationFewerThanLimit(t *testing.T) {
	p := &Pipeline{fallbackLimit: 8, fallbackRating: 4.0}
	state := &State{
		Analysis:     Analysis{Topic: "limits"},
		RawResources: rawResources(3),
	}

	curation := p.fallbackCuration(state)

	require.Len(t, curation.CuratedResources, 3)
	assert.Equal(t, 3, curation.TotalFound)
}

func TestCurateAndRankNoResources(t *testing.T) {
	p := &Pipeline{fallbackLimit: 8, fallbackRating: 4.0}
	state := &State{
		Analysis: Analysis{Topic: "obscure topic", Subject: "general"},
	}

	require.NoError(t, p.curateAndRank(context.Background(), state))

	assert.NotNil(t, state.Result.CuratedResources, "empty, not null")
	assert.Empty(t, state.Result.CuratedResources)
	assert.Equal(t, 0, state.Result.TotalFound)
	assert.Equal(t, "No resources found", state.Result.Error)
	assert.Equal(t, "No resources found", state.Result.SearchSummary)
	assert.NotEmpty(t, state.Result.CollectionId)
	assert.Empty(t, state.Errors, "an empty result set is not a stage failure")
}

func TestFallbackAnalysisUsesRawInput(t *testing.T) {
	p := &Pipeline{}
	analysis := p.fallbackAnalysis("find me calculus videos")

	assert.Equal(t, "find me calculus videos", analysis.Topic)
	assert.Equal(t, "general", analysis.Subject)
	assert.Equal(t, []string{"video", "article", "course"}, analysis.ResourceTypes)
	assert.Equal(t, "medium", analysis.Difficulty)
}
