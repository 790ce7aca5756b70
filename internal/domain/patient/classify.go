package patient

import "strings"

// Note keywords that, combined with fever, indicate an emergency
// presentation. Matching is case-insensitive substring.
var severeKeywords = []string{"severe", "chest pain", "difficulty breathing", "unconscious"}

// Classify maps intake data to an initial criticality level. It is a pure
// rule-based decision kept behind a stable signature so the rules can be
// swapped for another decision procedure without touching ordering or
// storage. Age is accepted for future use and must not affect the result.
func Classify(_ int, symptom Symptom, notes string) CriticalLevel {
	if symptom == SymptomFever && notes != "" {
		lower := strings.ToLower(notes)
		for _, kw := range severeKeywords {
			if strings.Contains(lower, kw) {
				return CriticalEmergency
			}
		}
	}
	return CriticalNormal
}
