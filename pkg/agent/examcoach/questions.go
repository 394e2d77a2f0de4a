package examcoach

import (
	"fmt"
	"strings"
)

var redoxMcqBank = []Question{
	{
		Question:      "In the reaction: Zn + Cu²⁺ → Zn²⁺ + Cu, which species is oxidized?",
		Options:       []string{"Zn", "Cu²⁺", "Zn²⁺", "Cu"},
		CorrectAnswer: "Zn",
		Explanation:   "Zn loses electrons (goes from 0 to +2 oxidation state), so it is oxidized.",
	},
	{
		Question:      "What is the oxidation state of sulfur in H₂SO₄?",
		Options:       []string{"+6", "+4", "-2", "+2"},
		CorrectAnswer: "+6",
		Explanation:   "In H₂SO₄, H is +1, O is -2. For the molecule to be neutral: 2(+1) + S + 4(-2) = 0, so S = +6.",
	},
	{
		Question:      "Which of the following is a reducing agent?",
		Options:       []string{"H₂", "O₂", "Cl₂", "F₂"},
		CorrectAnswer: "H₂",
		Explanation:   "H₂ can donate electrons (be oxidized) to reduce other species, making it a reducing agent.",
	},
	{
		Question:      "In electrolysis of NaCl solution, what is produced at the cathode?",
		Options:       []string{"Cl₂ gas", "Na metal", "H₂ gas", "O₂ gas"},
		CorrectAnswer: "H₂ gas",
		Explanation:   "At the cathode, H⁺ ions are reduced to form H₂ gas: 2H⁺ + 2e⁻ → H₂.",
	},
	{
		Question:      "Which reaction represents a combustion (redox) reaction?",
		Options:       []string{"2H₂ + O₂ → 2H₂O", "NaCl + AgNO₃ → AgCl + NaNO₃", "HCl + NaOH → NaCl + H₂O", "CaCO₃ → CaO + CO₂"},
		CorrectAnswer: "2H₂ + O₂ → 2H₂O",
		Explanation:   "In combustion, H₂ is oxidized (0 to +1) and O₂ is reduced (0 to -2), making it a redox reaction.",
	},
	{
		Question:      "What happens to the oxidation number of an element when it gains electrons?",
		Options:       []string{"Increases", "Decreases", "Stays the same", "Becomes zero"},
		CorrectAnswer: "Decreases",
		Explanation:   "When an element gains electrons, its oxidation number decreases (becomes more negative).",
	},
}

var redoxShortAnswerBank = []Question{
	{
		Question:      "Balance the redox equation: Al + CuSO₄ → Al₂(SO₄)₃ + Cu",
		CorrectAnswer: "2Al + 3CuSO₄ → Al₂(SO₄)₃ + 3Cu",
		Explanation:   "Balance atoms and charge: 2 Al atoms are oxidized, 3 Cu atoms are reduced.",
	},
	{
		Question:      "Explain why rusting of iron is a redox reaction.",
		CorrectAnswer: "Iron loses electrons (oxidized) to form Fe²⁺/Fe³⁺ while oxygen gains electrons (reduced) to form oxide ions.",
		Explanation:   "Rusting involves electron transfer: Fe → Fe²⁺ + 2e⁻ (oxidation) and O₂ + 4e⁻ → 2O²⁻ (reduction).",
	},
	{
		Question:      "Calculate the oxidation state of chromium in K₂Cr₂O₇.",
		CorrectAnswer: "+6",
		Explanation:   "K is +1, O is -2. For neutral compound: 2(+1) + 2(Cr) + 7(-2) = 0, so 2Cr = +12, Cr = +6.",
	},
}

// FallbackQuestions builds a subject-aware question set used when generation
// fails. Chemistry and math topics get curated banks, everything else gets
// templated questions on the requested topic.
func FallbackQuestions(topic, subject string, count int, questionTypes []string) []Question {
	if count <= 0 {
		count = 10
	}
	if len(questionTypes) == 0 {
		questionTypes = []string{"mcq"}
	}

	topicLower := strings.ToLower(topic)
	subjectLower := strings.ToLower(subject)

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		questionType := questionTypes[i%len(questionTypes)]
		if questionType != "short_answer" {
			questionType = "mcq"
		}

		var q Question
		switch {
		case subjectLower == "chemistry":
			q = chemistryQuestion(topicLower, topic, subject, questionType, i)
		case subjectLower == "mathematics" || subjectLower == "math" ||
			subjectLower == "calculus" || subjectLower == "algebra":
			q = mathQuestion(topicLower, topic, questionType, i)
		default:
			q = genericQuestion(topic, subject, questionType)
		}

		q.Id = fmt.Sprintf("q_%d", i+1)
		q.Type = questionType
		q.Points = 1
		questions = append(questions, q)
	}
	return questions
}

func chemistryQuestion(topicLower, topic, subject, questionType string, i int) Question {
	if strings.Contains(topicLower, "redox") || strings.Contains(topicLower, "oxidation") ||
		strings.Contains(topicLower, "reduction") {
		if questionType == "mcq" {
			return redoxMcqBank[i%len(redoxMcqBank)]
		}
		return redoxShortAnswerBank[i%len(redoxShortAnswerBank)]
	}

	if questionType == "mcq" {
		return Question{
			Question: fmt.Sprintf("Which of the following best describes %s?", topic),
			Options: []string{
				fmt.Sprintf("A fundamental concept in %s", subject),
				"An advanced topic requiring prerequisites",
				"A practical application only",
				"A theoretical concept with no applications",
			},
			CorrectAnswer: fmt.Sprintf("A fundamental concept in %s", subject),
			Explanation:   fmt.Sprintf("%s is an important concept in %s that builds understanding.", topic, subject),
		}
	}
	return Question{
		Question:      fmt.Sprintf("Define %s and explain its importance in %s.", topic, subject),
		CorrectAnswer: fmt.Sprintf("%s is a key concept in %s that involves...", topic, subject),
		Explanation:   fmt.Sprintf("This tests understanding of fundamental %s principles.", topic),
	}
}

func mathQuestion(topicLower, topic, questionType string, i int) Question {
	if strings.Contains(topicLower, "integration") {
		if questionType == "mcq" {
			return Question{
				Question: fmt.Sprintf("What is ∫x^%d dx?", i+2),
				Options: []string{
					fmt.Sprintf("x^%d/%d + C", i+3, i+3),
					fmt.Sprintf("x^%d", i+2),
					fmt.Sprintf("%dx^%d", i+2, i+1),
					fmt.Sprintf("x^%d", i+3),
				},
				CorrectAnswer: fmt.Sprintf("x^%d/%d + C", i+3, i+3),
				Explanation:   "Using the power rule: ∫x^n dx = x^(n+1)/(n+1) + C",
			}
		}
		return Question{
			Question:      fmt.Sprintf("Find ∫(%dx^%d) dx", i+1, i),
			CorrectAnswer: fmt.Sprintf("x^%d + C", i+1),
			Explanation:   fmt.Sprintf("∫(%dx^%d) dx = %d · x^%d/%d + C = x^%d + C", i+1, i, i+1, i+1, i+1, i+1),
		}
	}

	if questionType == "mcq" {
		return Question{
			Question:      fmt.Sprintf("Which mathematical principle is most relevant to %s?", topic),
			Options:       []string{"Linear relationships", "Exponential growth", "Periodic functions", "Discrete mathematics"},
			CorrectAnswer: "Linear relationships",
			Explanation:   fmt.Sprintf("This tests understanding of mathematical principles in %s.", topic),
		}
	}
	return Question{
		Question:      fmt.Sprintf("Solve a problem involving %s.", topic),
		CorrectAnswer: fmt.Sprintf("Apply the relevant %s formulas and methods.", topic),
		Explanation:   fmt.Sprintf("This tests problem-solving skills in %s.", topic),
	}
}

func genericQuestion(topic, subject, questionType string) Question {
	if questionType == "mcq" {
		return Question{
			Question: fmt.Sprintf("What is the most important aspect of %s in %s?", topic, subject),
			Options: []string{
				"Understanding the basic principles",
				"Memorizing all definitions",
				"Practical applications only",
				"Historical context only",
			},
			CorrectAnswer: "Understanding the basic principles",
			Explanation:   fmt.Sprintf("Understanding principles is key to mastering %s in %s.", topic, subject),
		}
	}
	return Question{
		Question:      fmt.Sprintf("Explain the key concepts of %s in %s.", topic, subject),
		CorrectAnswer: fmt.Sprintf("The key concepts include fundamental principles and applications of %s.", topic),
		Explanation:   fmt.Sprintf("This tests comprehensive understanding of %s.", topic),
	}
}
