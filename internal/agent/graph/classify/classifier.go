// Package classify assigns a coarse semantic category to a raw query before
// routing. Classification is a pure keyword match: no I/O, no failure mode,
// unmatched input degrades to the general category.
package classify

import (
	"strings"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

// Boost phrases appended to the query before retrieval to bias similarity
// search toward the matching policy area.
const (
	MedicalBoostPhrase  = "sick leave medical condition health illness"
	VacationBoostPhrase = "annual leave vacation time off holiday"
)

var medicalKeywords = []string{
	"sick", "ill", "illness", "medical", "health", "disease", "condition",
	"fever", "cold", "flu", "infection", "sinus", "cough", "injury", "pain",
	"surgery", "hospital", "doctor", "treatment", "medication", "allergy",
	"allergies", "migraine", "headache", "fatigue", "body ache", "unwell",
	"covid", "diabetes", "asthma", "physical", "mental", "wound",
}

var vacationKeywords = []string{
	"vacation", "holiday", "trip", "travel", "leisure", "time off",
	"annual leave", "break", "getaway", "tour",
}

var actionKeywords = []string{
	"ticket", "report", "complaint", "issue", "problem", "request",
	"help", "support", "escalate", "balance", "check",
}

// Classify maps a query to its category and retrieval boost phrase.
// Keyword sets are tested in priority order medical, vacation, action; the
// first matching set wins, so a query naming both a medical and a vacation
// term classifies as medical. The action category carries no boost phrase.
func Classify(query string) (model.QueryCategory, string) {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, medicalKeywords):
		return model.CategoryMedical, MedicalBoostPhrase
	case containsAny(q, vacationKeywords):
		return model.CategoryVacation, VacationBoostPhrase
	case containsAny(q, actionKeywords):
		return model.CategoryAction, ""
	default:
		return model.CategoryGeneral, ""
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
