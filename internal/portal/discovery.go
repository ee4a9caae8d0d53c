package portal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/zenalexa/autoeval/internal/domain"
)

// ListTasks returns the current evaluation tasks in server order. An
// empty list is a normal outcome, not an error.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	query := url.Values{
		"pageNum":  {"1"},
		"pageSize": {strconv.Itoa(c.cfg.PageSize)},
	}
	var resp taskListResponse
	if err := c.getJSON(ctx, "list_tasks", "personnelEvaluation/listObtainPersonnelEvaluationTasks", query, &resp); err != nil {
		return nil, &DiscoveryError{Endpoint: "list_tasks", Err: err}
	}

	tasks := make([]domain.Task, 0, len(resp.Result.List))
	for _, row := range resp.Result.List {
		tasks = append(tasks, domain.Task{
			ID:     row.Rwid,
			Name:   row.Rwmc,
			Begins: row.Kssj,
			Ends:   row.Jssj,
		})
	}
	return tasks, nil
}

// Questionnaires lists the questionnaires attached to a task, in server order.
func (c *Client) Questionnaires(ctx context.Context, taskID string) ([]QuestionnaireRef, error) {
	query := url.Values{
		"rwid":     {taskID},
		"pageNum":  {"1"},
		"pageSize": {strconv.Itoa(c.cfg.PageSize)},
	}
	var resp questionnaireListResponse
	if err := c.getJSON(ctx, "list_questionnaires", "evaluationMethodSix/getQuestionnaireListToTask", query, &resp); err != nil {
		return nil, &DiscoveryError{Endpoint: "list_questionnaires", Subject: taskID, Err: err}
	}
	return resp.Result, nil
}

// ConfirmPattern puts a questionnaire into evaluation mode. The service
// wants a revise call for stale modes ("1"/"2"), a confirm call when the
// mode was never set, and nothing otherwise.
func (c *Client) ConfirmPattern(ctx context.Context, ref QuestionnaireRef) error {
	var path, endpoint string
	switch {
	case ref.Msid == nil:
		path, endpoint = "evaluationMethodSix/confirmQuestionnairePattern", "confirm_pattern"
	case *ref.Msid == "1" || *ref.Msid == "2":
		path, endpoint = "evaluationMethodSix/reviseQuestionnairePattern", "revise_pattern"
	default:
		return nil
	}

	payload := patternRequest{Wjid: ref.Wjid, Msid: 1, Rwid: ref.Rwid}
	if err := c.postJSON(ctx, endpoint, path, payload, nil); err != nil {
		return &DiscoveryError{Endpoint: endpoint, Subject: ref.Wjid, Err: err}
	}
	return nil
}

// ReviewItems lists the (course, teacher) pairs of a questionnaire in
// server order. Already-evaluated pairs are returned with the flag set,
// never dropped, so the pipeline can report skips distinctly.
func (c *Client) ReviewItems(ctx context.Context, ref QuestionnaireRef) ([]domain.ReviewItem, error) {
	query := url.Values{
		"sfyp":     {"0"},
		"wjid":     {ref.Wjid},
		"pageNum":  {"1"},
		"pageSize": {strconv.Itoa(c.cfg.PageSize)},
	}
	var resp reviewListResponse
	if err := c.getJSON(ctx, "list_review_items", "evaluationMethodSix/getRequiredReviewsData", query, &resp); err != nil {
		return nil, &DiscoveryError{Endpoint: "list_review_items", Subject: ref.Wjid, Err: err}
	}

	items := make([]domain.ReviewItem, 0, len(resp.Result))
	for _, row := range resp.Result {
		items = append(items, domain.ReviewItem{
			Course:           row.Kcmc,
			Teacher:          row.Pjrxm,
			QuestionnaireID:  row.Wjid,
			AlreadyEvaluated: row.Ypjcs == row.Xypjcs,
			Routing: map[string]string{
				"rwid":  row.Rwid,
				"wjid":  row.Wjid,
				"sxz":   row.Sxz,
				"pjrdm": row.Pjrdm,
				"pjrmc": row.Pjrmc,
				"bpdm":  row.Bpdm,
				"bpmc":  row.Bpmc,
				"kcdm":  row.Kcdm,
				"kcmc":  row.Kcmc,
				"rwh":   row.Rwh,
			},
		})
	}
	return items, nil
}
