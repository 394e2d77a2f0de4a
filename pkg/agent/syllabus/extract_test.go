package syllabus

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	content := `Introduction to Organic Chemistry
Chapter 1: Atomic Structure and Bonding
Week 2: Alkanes and Cycloalkanes
Module 3: Stereochemistry Fundamentals
Unit 4: Reaction Mechanisms
Topic 5: Alcohols and Ethers
6. Aldehydes and Ketones
IV. Carboxylic Acids
short
Grading: 40% exams, 60% assignments`

	topics := ExtractTopics(content)

	wantTitles := []string{
		"Atomic Structure and Bonding",
		"Alkanes and Cycloalkanes",
		"Stereochemistry Fundamentals",
		"Reaction Mechanisms",
		"Alcohols and Ethers",
		"Aldehydes and Ketones",
		"Carboxylic Acids",
	}
	if len(topics) != len(wantTitles) {
		t.Fatalf("got %d topics, want %d", len(topics), len(wantTitles))
	}
	for i, topic := range topics {
		if topic.Title != wantTitles[i] {
			t.Errorf("topic %d title = %q, want %q", i, topic.Title, wantTitles[i])
		}
		if topic.WeekNumber != i+1 {
			t.Errorf("topic %d week = %d, want %d", i, topic.WeekNumber, i+1)
		}
		if topic.EstimatedHours != 3 {
			t.Errorf("topic %d hours = %d, want 3", i, topic.EstimatedHours)
		}
		if topic.TopicId == "" {
			t.Errorf("topic %d missing id", i)
		}
		if !strings.HasPrefix(topic.Description, "Topic covering ") {
			t.Errorf("topic %d description = %q", i, topic.Description)
		}
	}
}

func TestExtractTopicsCapsAtFifteen(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "Week %d: Extended topic number %d in the outline\n", i, i)
	}

	topics := ExtractTopics(b.String())
	if len(topics) != 15 {
		t.Fatalf("got %d topics, want cap of 15", len(topics))
	}
}

func TestExtractTopicsIgnoresShortAndPlainLines(t *testing.T) {
	content := "1. ab\nJust a paragraph about the course without numbering that is long enough.\n"
	topics := ExtractTopics(content)
	if len(topics) != 0 {
		t.Fatalf("got %d topics, want 0", len(topics))
	}
}

func TestExtractTopicsEmptyContent(t *testing.T) {
	if topics := ExtractTopics(""); len(topics) != 0 {
		t.Fatalf("got %d topics from empty content, want 0", len(topics))
	}
}

func TestExtractTopicsCaseInsensitivePrefixes(t *testing.T) {
	content := "CHAPTER 1: Thermodynamics Basics\nweek 2: Heat Transfer Mechanisms\n"
	topics := ExtractTopics(content)
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}
	if topics[0].Title != "Thermodynamics Basics" {
		t.Errorf("topic 0 title = %q", topics[0].Title)
	}
	if topics[1].Title != "Heat Transfer Mechanisms" {
		t.Errorf("topic 1 title = %q", topics[1].Title)
	}
}
