package examcoach

import (
	"strings"
	"testing"
)

func TestFallbackQuestionsRedoxBank(t *testing.T) {
	questions := FallbackQuestions("redox reactions", "chemistry", 8, []string{"mcq"})

	if len(questions) != 8 {
		t.Fatalf("got %d questions, want 8", len(questions))
	}

	// The bank holds six curated items and cycles past the end.
	if questions[0].Question != questions[6].Question {
		t.Errorf("question 7 should repeat question 1, got %q vs %q", questions[6].Question, questions[0].Question)
	}
	if !strings.Contains(questions[0].Question, "Zn + Cu²⁺") {
		t.Errorf("first redox question = %q, want the zinc displacement item", questions[0].Question)
	}

	for i, q := range questions {
		if q.Points != 1 {
			t.Errorf("question %d points = %d, want 1", i, q.Points)
		}
		if q.Type != "mcq" {
			t.Errorf("question %d type = %q, want mcq", i, q.Type)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		matched := false
		for _, option := range q.Options {
			if option == q.CorrectAnswer {
				matched = true
			}
		}
		if !matched {
			t.Errorf("question %d correct answer %q not among options %v", i, q.CorrectAnswer, q.Options)
		}
	}
}

func TestFallbackQuestionsIds(t *testing.T) {
	questions := FallbackQuestions("redox", "chemistry", 3, []string{"mcq"})
	want := []string{"q_1", "q_2", "q_3"}
	for i, q := range questions {
		if q.Id != want[i] {
			t.Errorf("question %d id = %q, want %q", i, q.Id, want[i])
		}
	}
}

func TestFallbackQuestionsAlternatesTypes(t *testing.T) {
	questions := FallbackQuestions("oxidation states", "chemistry", 4, []string{"mcq", "short_answer"})

	wantTypes := []string{"mcq", "short_answer", "mcq", "short_answer"}
	for i, q := range questions {
		if q.Type != wantTypes[i] {
			t.Errorf("question %d type = %q, want %q", i, q.Type, wantTypes[i])
		}
	}
	if len(questions[1].Options) != 0 {
		t.Errorf("short answer question should carry no options, got %v", questions[1].Options)
	}
}

func TestFallbackQuestionsIntegrationTemplates(t *testing.T) {
	questions := FallbackQuestions("integration by parts", "calculus", 2, []string{"mcq"})

	if !strings.Contains(questions[0].Question, "∫x^2 dx") {
		t.Errorf("question 1 = %q, want the ∫x^2 dx template", questions[0].Question)
	}
	if !strings.Contains(questions[1].Question, "∫x^3 dx") {
		t.Errorf("question 2 = %q, want the ∫x^3 dx template", questions[1].Question)
	}
	if questions[0].CorrectAnswer != "x^3/3 + C" {
		t.Errorf("question 1 answer = %q, want x^3/3 + C", questions[0].CorrectAnswer)
	}
}

func TestFallbackQuestionsGenericSubject(t *testing.T) {
	questions := FallbackQuestions("the French Revolution", "history", 1, []string{"mcq"})

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].CorrectAnswer != "Understanding the basic principles" {
		t.Errorf("generic answer = %q", questions[0].CorrectAnswer)
	}
	if !strings.Contains(questions[0].Question, "the French Revolution") {
		t.Errorf("generic question should name the topic, got %q", questions[0].Question)
	}
}

func TestFallbackQuestionsDefaults(t *testing.T) {
	// Zero count and no types fall back to ten MCQs.
	questions := FallbackQuestions("anything", "general", 0, nil)
	if len(questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(questions))
	}
	for i, q := range questions {
		if q.Type != "mcq" {
			t.Errorf("question %d type = %q, want mcq", i, q.Type)
		}
	}
}
