package policy

import (
	"phishguard/internal/detection"
)

// ActionType enumerates possible policy actions.
type ActionType string

const (
	ActionAllow ActionType = "allow"
	ActionBlock ActionType = "block"
	ActionAlert ActionType = "alert"
	ActionLog   ActionType = "log"
)

// Decision is the action taken for one URL.
type Decision struct {
	Action ActionType `json:"action"`
	Reason string     `json:"reason"`
}

// Engine turns a detection result into an action. A URL whose registrable
// domain is on a phishing feed is blocked whatever the model says.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Decide(res detection.Result, listed bool) Decision {
	if listed {
		return Decision{Action: ActionBlock, Reason: "domain listed on phishing feed"}
	}
	if !res.OK() {
		return Decision{Action: ActionLog, Reason: res.Error}
	}

	switch {
	case res.Label == detection.LabelPhishing && res.Confidence == detection.ConfidenceHigh:
		return Decision{Action: ActionBlock, Reason: "phishing, high confidence"}
	case res.Label == detection.LabelPhishing:
		return Decision{Action: ActionAlert, Reason: "phishing, medium confidence"}
	default:
		return Decision{Action: ActionAllow, Reason: "legitimate"}
	}
}
