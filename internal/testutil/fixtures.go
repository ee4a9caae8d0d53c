package testutil

import (
	"fmt"

	"github.com/zenalexa/autoeval/internal/domain"
)

// FourTierQuestion builds a choice question carrying the site's fixed
// four-tier scale, best option first in source order.
func FourTierQuestion(id string) domain.Question {
	return domain.Question{
		ID:       id,
		Type:     "1",
		IsChoice: true,
		Options: []domain.Option{
			{ID: id + "-a", Label: "优秀", Score: 95, Selectable: true},
			{ID: id + "-b", Label: "良好", Score: 85, Selectable: true},
			{ID: id + "-c", Label: "合格", Score: 75, Selectable: true},
			{ID: id + "-d", Label: "不合格", Score: 50, Selectable: true},
		},
	}
}

// FourTierQuestionnaire builds a questionnaire of n four-tier questions.
func FourTierQuestionnaire(n int) domain.Questionnaire {
	q := domain.Questionnaire{ID: "wj-1"}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, FourTierQuestion(fmt.Sprintf("q%d", i+1)))
	}
	return q
}
