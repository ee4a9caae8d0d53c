// Package strategy turns a questionnaire into concrete answers for a
// given evaluation policy. It performs no I/O; randomness comes from an
// injected source so callers and tests control it.
package strategy

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/zenalexa/autoeval/internal/domain"
)

// ErrNoSelectableOption indicates a question offered nothing that can be
// chosen. That is bad discovery data, not a policy problem: the caller
// marks the item failed instead of retrying.
var ErrNoSelectableOption = errors.New("question has no selectable option")

// topN is the pool size for the random policy: uniform choice among the
// three best-scored options.
const topN = 3

// passingRank is the deepest rank (0-based, best first) still counted as
// a passing answer on the site's four-tier scale. The minimum-passing
// policy picks exactly this rank.
const passingRank = 2

// Selection pairs a question with its chosen option, in question order.
type Selection struct {
	QuestionID string
	Option     domain.Option
}

// Picks converts selections to the question-id → option-id mapping the
// submission payload wants.
func Picks(selections []Selection) map[string]string {
	picks := make(map[string]string, len(selections))
	for _, s := range selections {
		picks[s.QuestionID] = s.Option.ID
	}
	return picks
}

// SelectAnswers chooses one option per choice question. When override is
// true the minimum-passing policy applies regardless of policy; this is
// decided per review item by the caller. Random answer sheets are
// adjusted so they never carry the same label on every question.
func SelectAnswers(q domain.Questionnaire, policy domain.Policy, override bool, rng *rand.Rand) ([]Selection, error) {
	if override {
		policy = domain.PolicyMinPassing
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	questions := q.ChoiceQuestions()
	ranked := make([][]domain.Option, len(questions))
	selections := make([]Selection, len(questions))

	for i, question := range questions {
		opts := rankOptions(question)
		if len(opts) == 0 {
			return nil, fmt.Errorf("%w: question %s", ErrNoSelectableOption, question.ID)
		}
		ranked[i] = opts

		var picked domain.Option
		switch policy {
		case domain.PolicyMaxScore:
			picked = opts[0]
		case domain.PolicyRandomTopN:
			pool := opts
			if len(pool) > topN {
				pool = pool[:topN]
			}
			picked = pool[rng.Intn(len(pool))]
		case domain.PolicyMinPassing:
			idx := passingRank
			if idx >= len(opts) {
				idx = len(opts) - 1
			}
			picked = opts[idx]
		default:
			return nil, fmt.Errorf("unknown policy %q", policy)
		}
		selections[i] = Selection{QuestionID: question.ID, Option: picked}
	}

	if policy == domain.PolicyRandomTopN {
		breakUniformAnswers(selections, ranked)
	}
	return selections, nil
}

// rankOptions returns the selectable options sorted by score descending.
// The sort is stable so equal scores keep their source order, which is
// what breaks max-score ties.
func rankOptions(q domain.Question) []domain.Option {
	opts := q.SelectableOptions()
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Score > opts[j].Score
	})
	return opts
}

// breakUniformAnswers adjusts a random answer sheet the service would
// bounce: every question carrying the same option label looks automated,
// so one answer is moved to a different label. The replacement stays
// within the top-N pool so the random policy's guarantees hold.
func breakUniformAnswers(selections []Selection, ranked [][]domain.Option) {
	if len(selections) < 2 {
		return
	}
	common, uniform := uniformLabel(selections)
	if !uniform {
		return
	}
	for i := range selections {
		pool := ranked[i]
		if len(pool) > topN {
			pool = pool[:topN]
		}
		if alt, ok := differentLabel(pool, common); ok {
			selections[i].Option = alt
			return
		}
	}
}

func uniformLabel(selections []Selection) (string, bool) {
	label := selections[0].Option.Label
	for _, s := range selections[1:] {
		if s.Option.Label != label {
			return "", false
		}
	}
	return label, true
}

func differentLabel(opts []domain.Option, label string) (domain.Option, bool) {
	for _, o := range opts {
		if o.Label != label {
			return o, true
		}
	}
	return domain.Option{}, false
}
