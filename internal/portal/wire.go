package portal

import "encoding/json"

// Wire types mirror the service's JSON schemas. Field names are the
// site's own abbreviations; they are pinned by the recorded fixtures in
// the package tests and must not be "cleaned up".

type taskListResponse struct {
	Result struct {
		Total int       `json:"total"`
		List  []taskRow `json:"list"`
	} `json:"result"`
}

type taskRow struct {
	Rwid string `json:"rwid"`
	Rwmc string `json:"rwmc"`
	Kssj string `json:"kssj"`
	Jssj string `json:"jssj"`
}

type questionnaireListResponse struct {
	Result []QuestionnaireRef `json:"result"`
}

// QuestionnaireRef identifies one questionnaire within a task. Msid is
// the service's pattern-mode state: "1"/"2" mean a stale mode that must
// be revised, null means the mode was never confirmed.
type QuestionnaireRef struct {
	Wjid string  `json:"wjid"`
	Wjmc string  `json:"wjmc"`
	Msid *string `json:"msid"`
	Rwid string  `json:"rwid"`
}

type patternRequest struct {
	Wjid string `json:"wjid"`
	Msid int    `json:"msid"`
	Rwid string `json:"rwid"`
}

type reviewListResponse struct {
	Result []reviewRow `json:"result"`
}

type reviewRow struct {
	Rwid  string      `json:"rwid"`
	Wjid  string      `json:"wjid"`
	Sxz   string      `json:"sxz"`
	Pjrdm string      `json:"pjrdm"`
	Pjrmc string      `json:"pjrmc"`
	Bpdm  string      `json:"bpdm"`
	Bpmc  string      `json:"bpmc"`
	Kcdm  string      `json:"kcdm"`
	Kcmc  string      `json:"kcmc"`
	Rwh   string      `json:"rwh"`
	Pjrxm string      `json:"pjrxm"`
	Ypjcs json.Number `json:"ypjcs"`
	Xypjcs json.Number `json:"xypjcs"`
}

type topicResponse struct {
	Result []topicForm `json:"result"`
}

type topicForm struct {
	WjEntity struct {
		Wjzblist []struct {
			Tklist []topicQuestion `json:"tklist"`
		} `json:"wjzblist"`
	} `json:"pjxtWjWjbReturnEntity"`
	Headers []map[string]json.RawMessage `json:"pjxtPjjgPjjgckb"`
	Pjmap   json.RawMessage              `json:"pjmap"`
}

type topicQuestion struct {
	Tmlx     json.Number   `json:"tmlx"`
	Tmid     string        `json:"tmid"`
	Tmxxlist []topicOption `json:"tmxxlist"`
}

type topicOption struct {
	Tmxxid string      `json:"tmxxid"`
	Xxmc   string      `json:"xxmc"`
	Xxfz   json.Number `json:"xxfz"`
}

type submitResponse struct {
	Msg string `json:"msg"`
}

type answerRow struct {
	Sjly     string          `json:"sjly"`
	Stlx     string          `json:"stlx"`
	Wjid     json.RawMessage `json:"wjid"`
	Wjssrwid json.RawMessage `json:"wjssrwid"`
	Wjstctid string          `json:"wjstctid"`
	Wjstid   string          `json:"wjstid"`
	Xxdalist []string        `json:"xxdalist"`
}
