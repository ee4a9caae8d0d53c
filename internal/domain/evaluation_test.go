package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrideSet(t *testing.T) {
	set := NewOverrideSet([]string{"张三", "", "李四"})
	assert.True(t, set.Contains("张三"))
	assert.True(t, set.Contains("李四"))
	assert.False(t, set.Contains("王五"))
	assert.False(t, set.Contains(""))
	assert.ElementsMatch(t, []string{"张三", "李四"}, set.Names())
}

func TestQuestionSelectableOptions(t *testing.T) {
	q := Question{
		ID:       "q1",
		IsChoice: true,
		Options: []Option{
			{ID: "a", Selectable: true},
			{ID: "b", Selectable: false},
			{ID: "c", Selectable: true},
		},
	}
	opts := q.SelectableOptions()
	assert.Len(t, opts, 2)
	assert.Equal(t, "a", opts[0].ID)
	assert.Equal(t, "c", opts[1].ID)
}

func TestQuestionnaireChoiceQuestions(t *testing.T) {
	q := Questionnaire{Questions: []Question{
		{ID: "q1", IsChoice: true},
		{ID: "q2", IsChoice: false},
		{ID: "q3", IsChoice: true},
	}}
	choices := q.ChoiceQuestions()
	assert.Len(t, choices, 2)
	assert.Equal(t, "q1", choices[0].ID)
	assert.Equal(t, "q3", choices[1].ID)
}
