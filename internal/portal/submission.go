package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/zenalexa/autoeval/internal/domain"
)

// submitOK is the service's literal success message.
const submitOK = "成功"

// TopicForm couples the parsed questionnaire with the raw form the
// service returned. The raw side is echoed back verbatim on submit so
// value types survive the round trip untouched.
type TopicForm struct {
	Questionnaire domain.Questionnaire

	raw topicForm
}

// Topic fetches the questionnaire form for one review item.
func (c *Client) Topic(ctx context.Context, item domain.ReviewItem) (*TopicForm, error) {
	query := url.Values{}
	for k, v := range item.Routing {
		query.Set(k, v)
	}

	var resp topicResponse
	if err := c.getJSON(ctx, "questionnaire_topic", "evaluationMethodSix/getQuestionnaireTopic", query, &resp); err != nil {
		return nil, &DiscoveryError{Endpoint: "questionnaire_topic", Subject: item.QuestionnaireID, Err: err}
	}
	if len(resp.Result) == 0 {
		return nil, &DiscoveryError{
			Endpoint: "questionnaire_topic",
			Subject:  item.QuestionnaireID,
			Err:      fmt.Errorf("%w: empty topic result", ErrProtocolMismatch),
		}
	}

	form := resp.Result[0]
	questionnaire, err := parseQuestionnaire(item.QuestionnaireID, form)
	if err != nil {
		return nil, &DiscoveryError{Endpoint: "questionnaire_topic", Subject: item.QuestionnaireID, Err: err}
	}
	return &TopicForm{Questionnaire: questionnaire, raw: form}, nil
}

func parseQuestionnaire(id string, form topicForm) (domain.Questionnaire, error) {
	if len(form.WjEntity.Wjzblist) == 0 {
		return domain.Questionnaire{}, fmt.Errorf("%w: form carries no question blocks", ErrProtocolMismatch)
	}

	entries := form.WjEntity.Wjzblist[0].Tklist
	questions := make([]domain.Question, 0, len(entries))
	for _, entry := range entries {
		q := domain.Question{
			ID:       entry.Tmid,
			Type:     entry.Tmlx.String(),
			IsChoice: entry.Tmlx.String() == "1",
		}
		for _, opt := range entry.Tmxxlist {
			score, err := opt.Xxfz.Float64()
			if err != nil || opt.Tmxxid == "" {
				// Malformed options are dropped, matching the service's
				// own tolerance for half-filled rows.
				continue
			}
			q.Options = append(q.Options, domain.Option{
				ID:         opt.Tmxxid,
				Label:      opt.Xxmc,
				Score:      score,
				Selectable: true,
			})
		}
		questions = append(questions, q)
	}
	return domain.Questionnaire{ID: id, Questions: questions}, nil
}

// Submit builds the evaluation payload from the form and the chosen
// option per question, then posts it. picks maps question ID to the
// selected option ID for every choice question.
func (c *Client) Submit(ctx context.Context, form *TopicForm, picks map[string]string) error {
	payload, err := buildSubmission(form, picks)
	if err != nil {
		return err
	}

	var resp submitResponse
	if err := c.postJSON(ctx, "submit_evaluation", "evaluationMethodSix/submitSaveEvaluation", payload, &resp); err != nil {
		return err
	}
	if resp.Msg != submitOK {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Msg)
	}
	return nil
}

func buildSubmission(form *TopicForm, picks map[string]string) (map[string]any, error) {
	if len(form.raw.Headers) < 2 {
		return nil, fmt.Errorf("%w: submission header block missing", ErrProtocolMismatch)
	}
	header := form.raw.Headers[1]
	hdr := func(key string) json.RawMessage {
		if v, ok := header[key]; ok {
			return v
		}
		return json.RawMessage("null")
	}

	var total float64
	answers := make([]answerRow, 0, len(form.Questionnaire.Questions))
	for _, q := range form.Questionnaire.Questions {
		row := answerRow{
			Sjly:     "1",
			Stlx:     q.Type,
			Wjid:     hdr("wjid"),
			Wjssrwid: hdr("wjssrwid"),
			Wjstid:   q.ID,
			Xxdalist: []string{""},
		}
		if q.IsChoice {
			pick, ok := picks[q.ID]
			if !ok {
				return nil, fmt.Errorf("no answer selected for question %s", q.ID)
			}
			found := false
			for _, opt := range q.Options {
				if opt.ID == pick {
					total += opt.Score
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("answer %s is not an option of question %s", pick, q.ID)
			}
			row.Xxdalist = []string{pick}
		} else if len(q.Options) > 0 {
			// Non-choice entries echo their first sub-item id and an
			// empty answer; the service requires every question back.
			row.Wjstctid = q.Options[0].ID
		}
		answers = append(answers, row)
	}

	result := map[string]any{
		"bprdm":    hdr("bprdm"),
		"bprmc":    hdr("bprmc"),
		"kcdm":     hdr("kcdm"),
		"kcmc":     hdr("kcmc"),
		"pjdf":     int(total),
		"pjfs":     hdr("pjfs"),
		"pjid":     hdr("pjid"),
		"pjlx":     hdr("pjlx"),
		"pjmap":    form.raw.Pjmap,
		"pjrdm":    hdr("pjrdm"),
		"pjrjsdm":  hdr("pjrjsdm"),
		"pjrxm":    hdr("pjrxm"),
		"pjsx":     1,
		"rwh":      hdr("rwh"),
		"stzjid":   hdr("stzjid"),
		"wjid":     hdr("wjid"),
		"wjssrwid": hdr("wjssrwid"),
		"wtjjy":    "",
		"xhgs":     hdr("xhgs"),
		"xnxq":     hdr("xnxq"),
		"sfxxpj":   "1",
		"sqzt":     hdr("sqzt"),
		"yxfz":     hdr("yxfz"),
		"sdrs":     hdr("sdrs"),
		"zsxz":     hdr("pjrjsdm"),
		"sfnm":     "1",
		"pjxxlist": answers,
	}

	return map[string]any{
		"pjidlist": []string{},
		"pjjglist": []map[string]any{result},
		"pjzt":     "1",
	}, nil
}
