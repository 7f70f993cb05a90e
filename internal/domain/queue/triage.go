package queue

import "strings"

// Classifier maps a new entry's symptoms and flags to a priority class.
// Classification is fixed at entry creation/update time and stored on the
// row; dispatch ordering reads the stored class.
type Classifier interface {
	Classify(symptoms string, priorityFlag bool, queueNumber int) PriorityClass
}

// KeywordClassifier is the default triage heuristic: free-text symptom
// matching for emergencies, then the explicit priority flag or an early
// queue number for the priority class.
type KeywordClassifier struct{}

var emergencyKeywords = []string{
	"emergency",
	"critical",
	"unconscious",
	"chest pain",
	"severe bleeding",
	"not breathing",
}

func (KeywordClassifier) Classify(symptoms string, priorityFlag bool, queueNumber int) PriorityClass {
	lower := strings.ToLower(symptoms)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return PriorityEmergency
		}
	}
	if priorityFlag || queueNumber <= 2 {
		return PriorityPriority
	}
	return PriorityRegular
}
