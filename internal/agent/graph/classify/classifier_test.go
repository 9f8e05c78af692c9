package classify

import (
	"testing"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		category  model.QueryCategory
		boost     string
	}{
		{
			name:     "medical keyword",
			query:    "I came down with a fever yesterday",
			category: model.CategoryMedical,
			boost:    MedicalBoostPhrase,
		},
		{
			name:     "medical keyword sinus",
			query:    "Can I take leave for sinus infection?",
			category: model.CategoryMedical,
			boost:    MedicalBoostPhrase,
		},
		{
			name:     "vacation keyword",
			query:    "planning a trip next month",
			category: model.CategoryVacation,
			boost:    VacationBoostPhrase,
		},
		{
			name:     "medical beats vacation",
			query:    "I need a vacation after my surgery",
			category: model.CategoryMedical,
			boost:    MedicalBoostPhrase,
		},
		{
			name:     "action keyword no boost",
			query:    "please create a ticket for my broken chair",
			category: model.CategoryAction,
			boost:    "",
		},
		{
			name:     "no keyword",
			query:    "Hi there",
			category: model.CategoryGeneral,
			boost:    "",
		},
		{
			name:     "case insensitive",
			query:    "WHAT IS THE SURGERY POLICY",
			category: model.CategoryMedical,
			boost:    MedicalBoostPhrase,
		},
		{
			name:     "empty query",
			query:    "",
			category: model.CategoryGeneral,
			boost:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, boost := Classify(tt.query)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.boost, boost)
		})
	}
}

func TestClassifyMedicalBoostMentionsSickLeave(t *testing.T) {
	_, boost := Classify("recovering from the flu")
	assert.Contains(t, boost, "sick leave")
}

func TestClassifyIdempotent(t *testing.T) {
	const q = "checking my leave balance before the holiday"
	c1, b1 := Classify(q)
	c2, b2 := Classify(q)
	assert.Equal(t, c1, c2)
	assert.Equal(t, b1, b2)
}
