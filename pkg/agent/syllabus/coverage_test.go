package syllabus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathWith(topics ...Topic) LearningPath {
	return LearningPath{PathId: "path-1", Topics: topics}
}

func resourcesFor(topicId string, types ...string) []PathResource {
	resources := make([]PathResource, 0, len(types))
	for _, resourceType := range types {
		resources = append(resources, PathResource{TopicId: topicId, Type: resourceType})
	}
	return resources
}

func TestAnalyzeCoverageCategorizesTopics(t *testing.T) {
	p := &Pipeline{}
	state := &State{
		LearningPath: pathWith(
			Topic{TopicId: "t1", Title: "Well Covered"},
			Topic{TopicId: "t2", Title: "Barely Covered"},
			Topic{TopicId: "t3", Title: "Uncovered"},
		),
	}
	state.Resources = append(state.Resources, resourcesFor("t1", "video", "article", "course")...)
	state.Resources = append(state.Resources, resourcesFor("t2", "article", "article")...)

	require.NoError(t, p.analyzeCoverage(context.Background(), state))

	assert.Equal(t, 3, state.Coverage.TotalTopics)
	assert.Equal(t, 2, state.Coverage.TopicsWithResources)
	assert.Equal(t, 5, state.Coverage.TotalResources)
	assert.Equal(t, []string{"Well Covered"}, state.Coverage.WellCoveredTopics)
	assert.Equal(t, []string{"Uncovered"}, state.Coverage.UnderCoveredTopics)
	assert.Equal(t, 1, state.Coverage.ResourceDistribution["video"])
	assert.Equal(t, 3, state.Coverage.ResourceDistribution["article"])
	assert.Equal(t, 1, state.Coverage.ResourceDistribution["course"])
	assert.InDelta(t, 5.0/3.0, state.Coverage.AverageResourcesPerTopic, 0.001)
}

func TestAnalyzeCoverageRecommendations(t *testing.T) {
	t.Run("under covered topics named first", func(t *testing.T) {
		p := &Pipeline{}
		state := &State{
			LearningPath: pathWith(
				Topic{TopicId: "t1", Title: "Alpha"},
				Topic{TopicId: "t2", Title: "Beta"},
			),
		}

		require.NoError(t, p.analyzeCoverage(context.Background(), state))
		require.NotEmpty(t, state.Recommendations)
		assert.Contains(t, state.Recommendations[0], "Alpha, Beta")
	})

	t.Run("low video share flagged", func(t *testing.T) {
		p := &Pipeline{}
		state := &State{
			LearningPath: pathWith(Topic{TopicId: "t1", Title: "Solo"}),
		}
		state.Resources = resourcesFor("t1", "article", "article", "article", "course")

		require.NoError(t, p.analyzeCoverage(context.Background(), state))
		assert.Contains(t, state.Recommendations, "Consider adding more video content for visual learners")
	})

	t.Run("good coverage praised", func(t *testing.T) {
		p := &Pipeline{}
		state := &State{
			LearningPath: pathWith(Topic{TopicId: "t1", Title: "Solo"}),
		}
		state.Resources = resourcesFor("t1", "video", "video", "article", "course")

		require.NoError(t, p.analyzeCoverage(context.Background(), state))
		assert.Equal(t, []string{"Excellent resource coverage! Ready to start learning."}, state.Recommendations)
	})
}

func TestFallbackLearningPathMilestones(t *testing.T) {
	p := &Pipeline{}
	state := &State{CourseName: "Organic Chemistry", Subject: "chemistry"}
	for i := 0; i < 7; i++ {
		state.Parsed.MainTopics = append(state.Parsed.MainTopics, Topic{Title: "Topic", EstimatedHours: 2})
	}

	path := p.fallbackLearningPath(state)

	assert.Equal(t, 7, path.TotalWeeks)
	assert.Equal(t, 14, path.TotalEstimatedHours)
	assert.Equal(t, []int{1, 4, 7}, path.Milestones)
	assert.Equal(t, "Organic Chemistry", path.CourseName)
}

func TestFallbackLearningPathWithoutTopics(t *testing.T) {
	p := &Pipeline{}
	state := &State{CourseName: "Mystery", Subject: "general"}

	path := p.fallbackLearningPath(state)

	require.Len(t, path.Topics, 1)
	assert.Equal(t, "Course Introduction", path.Topics[0].Title)
	assert.Equal(t, 1, path.TotalWeeks)
	assert.Equal(t, []int{1}, path.Milestones)
}
