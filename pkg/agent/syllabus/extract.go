package syllabus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxExtractedTopics = 15

var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)chapter\s+\d+[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)week\s+\d+[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)module\s+\d+[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)unit\s+\d+[:\-]\s*(.+)`),
	regexp.MustCompile(`(?i)topic\s+\d+[:\-]\s*(.+)`),
	regexp.MustCompile(`^\d+\.\s*(.+)`),
	regexp.MustCompile(`^[IVX]+\.\s*(.+)`),
}

// ExtractTopics pulls topic headings out of raw syllabus text. It recognizes
// chapter/week/module/unit/topic prefixes plus numbered and roman-numeral
// outlines, assigns sequential week numbers, and caps the list at 15 topics.
func ExtractTopics(content string) []Topic {
	var topics []Topic

	weekNumber := 1
	for _, line := range strings.Split(content, "\n") {
		if len(topics) >= maxExtractedTopics {
			break
		}
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		for _, pattern := range topicPatterns {
			match := pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			title := strings.TrimSpace(match[1])
			topics = append(topics, Topic{
				TopicId:            uuid.New().String(),
				Title:              title,
				Description:        fmt.Sprintf("Topic covering %s", title),
				WeekNumber:         weekNumber,
				EstimatedHours:     3,
				Prerequisites:      []string{},
				LearningObjectives: []string{},
			})
			weekNumber++
			break
		}
	}
	return topics
}
