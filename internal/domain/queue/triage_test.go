package queue

import "testing"

func TestKeywordClassifier(t *testing.T) {
	var c KeywordClassifier
	cases := []struct {
		name     string
		symptoms string
		flag     bool
		number   int
		want     PriorityClass
	}{
		{"emergency keyword", "sudden chest pain since morning", false, 10, PriorityEmergency},
		{"keyword case-insensitive", "EMERGENCY fall", false, 10, PriorityEmergency},
		{"severe bleeding", "severe bleeding from cut", false, 10, PriorityEmergency},
		{"keyword beats flag", "unconscious", true, 10, PriorityEmergency},
		{"priority flag", "fever", true, 10, PriorityPriority},
		{"early queue number", "fever", false, 2, PriorityPriority},
		{"regular", "mild cough", false, 5, PriorityRegular},
		{"no symptoms", "", false, 7, PriorityRegular},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.symptoms, tc.flag, tc.number); got != tc.want {
			t.Errorf("%s: Classify(%q, %v, %d) = %s, want %s",
				tc.name, tc.symptoms, tc.flag, tc.number, got, tc.want)
		}
	}
}
