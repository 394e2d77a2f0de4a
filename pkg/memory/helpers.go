package memory

import (
	"context"
	"fmt"
	"strings"

	"eduverse-be/internal/entity"

	"github.com/google/uuid"
)

func (s *store) AddLearningContext(ctx context.Context, userId uuid.UUID, topic, learningContext string, performance string) error {
	if performance == "" {
		performance = "neutral" // good, poor, neutral
	}
	content := fmt.Sprintf("Learning about: %s\n%s", topic, learningContext)
	_, err := s.Add(ctx, userId, content, entity.MemoryTypeLearningContext, map[string]interface{}{
		"topic":       topic,
		"performance": performance,
	})
	return err
}

func (s *store) AddDifficultyContext(ctx context.Context, userId uuid.UUID, topic, difficulty, details string) error {
	content := fmt.Sprintf("Having difficulty with: %s\nDifficulty level: %s. Details: %s", topic, difficulty, details)
	_, err := s.Add(ctx, userId, content, entity.MemoryTypeDifficulty, map[string]interface{}{
		"topic":            topic,
		"difficulty_level": difficulty,
	})
	return err
}

func (s *store) AddExamPerformance(ctx context.Context, userId uuid.UUID, topic string, score float64, weakAreas []string) error {
	content := fmt.Sprintf("Exam completed for: %s\nScore: %.1f%%. Weak areas: %s", topic, score, strings.Join(weakAreas, ", "))
	_, err := s.Add(ctx, userId, content, entity.MemoryTypeExamPerformance, map[string]interface{}{
		"topic":      topic,
		"score":      score,
		"weak_areas": weakAreas,
	})
	return err
}

func (s *store) LearningHistory(ctx context.Context, userId uuid.UUID, topic string, limit int) ([]*entity.MemoryRecord, error) {
	records, err := s.Search(ctx, userId, fmt.Sprintf("topic:%s", topic), limit)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.MemoryRecord, 0, len(records))
	for _, record := range records {
		if recordTopic, ok := record.Metadata["topic"].(string); ok && recordTopic == topic {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

func (s *store) WeakAreas(ctx context.Context, userId uuid.UUID) ([]string, error) {
	records, err := s.repository.FindRecent(ctx, userId, "", 100)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	weakAreas := make([]string, 0)
	appendArea := func(area string) {
		if area == "" {
			return
		}
		if _, ok := seen[area]; ok {
			return
		}
		seen[area] = struct{}{}
		weakAreas = append(weakAreas, area)
	}

	for _, record := range records {
		switch record.MetadataType {
		case entity.MemoryTypeDifficulty:
			if topic, ok := record.Metadata["topic"].(string); ok {
				appendArea(topic)
			}
		case entity.MemoryTypeExamPerformance:
			if areas, ok := record.Metadata["weak_areas"].([]interface{}); ok {
				for _, area := range areas {
					if s, ok := area.(string); ok {
						appendArea(s)
					}
				}
			}
		}
	}
	return weakAreas, nil
}
