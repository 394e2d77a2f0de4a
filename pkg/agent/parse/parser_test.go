package parse

import (
	"testing"
)

type analysisPayload struct {
	Topic   string   `json:"topic"`
	Subject string   `json:"subject"`
	Items   []string `json:"items"`
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantTopic   string
		wantSubject string
		wantErr     bool
	}{
		{
			name:        "bare object",
			response:    `{"topic": "calculus", "subject": "math"}`,
			wantTopic:   "calculus",
			wantSubject: "math",
		},
		{
			name:        "object wrapped in prose",
			response:    `Sure! Here is the analysis you asked for: {"topic": "redox", "subject": "chemistry"} Hope this helps.`,
			wantTopic:   "redox",
			wantSubject: "chemistry",
		},
		{
			name: "markdown fenced json",
			response: "Here you go:\n```json\n{\"topic\": \"algebra\", \"subject\": \"math\"}\n```\nDone.",
			wantTopic:   "algebra",
			wantSubject: "math",
		},
		{
			name: "plain fence without language tag",
			response: "```\n{\"topic\": \"biology\", \"subject\": \"science\"}\n```",
			wantTopic:   "biology",
			wantSubject: "science",
		},
		{
			name:     "no json at all",
			response: "I cannot produce structured output for this request.",
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `{"topic": "calculus", "subject":`,
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := JSON[analysisPayload](tt.response)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("JSON() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}
			if value.Topic != tt.wantTopic {
				t.Errorf("Topic = %q, want %q", value.Topic, tt.wantTopic)
			}
			if value.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", value.Subject, tt.wantSubject)
			}
		})
	}
}

func TestJSONArray(t *testing.T) {
	response := `The resources are: ["one", "two", "three"]`
	value, err := JSON[[]string](response)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if len(value) != 3 || value[0] != "one" {
		t.Errorf("value = %v, want [one two three]", value)
	}
}

func TestJSONPrefersFirstOpener(t *testing.T) {
	// An object embedding an array must be parsed as the object.
	response := `{"topic": "sets", "items": ["a", "b"]}`
	value, err := JSON[analysisPayload](response)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if len(value.Items) != 2 {
		t.Errorf("Items = %v, want 2 entries", value.Items)
	}
}

func TestJSONWithFallback(t *testing.T) {
	t.Run("valid response skips fallback", func(t *testing.T) {
		result := JSONWithFallback(`{"topic": "limits"}`, func(reason string) analysisPayload {
			t.Fatal("fallback should not run")
			return analysisPayload{}
		})
		if result.Failed {
			t.Errorf("Failed = true, want false")
		}
		if result.Value.Topic != "limits" {
			t.Errorf("Topic = %q, want %q", result.Value.Topic, "limits")
		}
	})

	t.Run("broken response synthesizes fallback", func(t *testing.T) {
		result := JSONWithFallback("not json", func(reason string) analysisPayload {
			return analysisPayload{Topic: "fallback"}
		})
		if !result.Failed {
			t.Errorf("Failed = false, want true")
		}
		if result.Reason == "" {
			t.Errorf("Reason is empty, want parse failure reason")
		}
		if result.Value.Topic != "fallback" {
			t.Errorf("Topic = %q, want %q", result.Value.Topic, "fallback")
		}
	})
}
