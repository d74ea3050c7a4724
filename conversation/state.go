package conversation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"community-helper-bot/models"
	"community-helper-bot/services"
)

// Workflow is one admin multi-step operation.
type Workflow int

const (
	WorkflowAddResponse Workflow = iota + 1
	WorkflowEditResponse
	WorkflowDeleteResponse
	WorkflowAddManager
	WorkflowRemoveManager
	WorkflowBroadcast
)

func (w Workflow) String() string {
	switch w {
	case WorkflowAddResponse:
		return "add_response"
	case WorkflowEditResponse:
		return "edit_response"
	case WorkflowDeleteResponse:
		return "delete_response"
	case WorkflowAddManager:
		return "add_manager"
	case WorkflowRemoveManager:
		return "remove_manager"
	case WorkflowBroadcast:
		return "broadcast"
	}
	return "unknown"
}

// Step is the field a workflow is currently waiting for.
type Step int

const (
	StepTrigger Step = iota + 1
	StepKind
	StepContent
	StepTargetID
	StepBroadcastText
	// StepReady means every field is collected and the workflow can commit.
	StepReady
)

var (
	// ErrInvalidInput means the input was rejected and the step is unchanged.
	ErrInvalidInput = errors.New("invalid input for current step")
	// ErrWrongStep means the transition does not apply to the current step.
	ErrWrongStep = errors.New("transition not valid for current step")
)

// State is the accumulated progress of one workflow. Transitions return a new
// value and leave the receiver untouched, so a rejected input keeps the old state.
type State struct {
	Workflow  Workflow
	Step      Step
	Trigger   string
	Kind      models.ResponseKind
	Content   string
	TargetID  int64
	Text      string
	UpdatedAt time.Time
}

// New starts w at its first step.
func New(w Workflow, now time.Time) State {
	s := State{Workflow: w, UpdatedAt: now}
	switch w {
	case WorkflowAddResponse, WorkflowEditResponse, WorkflowDeleteResponse:
		s.Step = StepTrigger
	case WorkflowAddManager, WorkflowRemoveManager:
		s.Step = StepTargetID
	case WorkflowBroadcast:
		s.Step = StepBroadcastText
	}
	return s
}

func (s State) Ready() bool {
	return s.Step == StepReady
}

// AcceptTrigger stores the normalized trigger. Delete commits next; add and
// edit move on to the kind.
func (s State) AcceptTrigger(raw string, now time.Time) (State, error) {
	if s.Step != StepTrigger {
		return s, ErrWrongStep
	}
	trigger := services.NormalizeTrigger(raw)
	if trigger == "" || len([]rune(trigger)) > 255 {
		return s, ErrInvalidInput
	}
	s.Trigger = trigger
	if s.Workflow == WorkflowDeleteResponse {
		s.Step = StepReady
	} else {
		s.Step = StepKind
	}
	s.UpdatedAt = now
	return s, nil
}

// AcceptKind parses one of the keyboard labels into a response kind.
func (s State) AcceptKind(label string, now time.Time) (State, error) {
	if s.Step != StepKind {
		return s, ErrWrongStep
	}
	kind, ok := ParseKindLabel(label)
	if !ok {
		return s, ErrInvalidInput
	}
	s.Kind = kind
	s.Step = StepContent
	s.UpdatedAt = now
	return s, nil
}

// AcceptContent stores the payload: text for text and link kinds, base64 for media.
func (s State) AcceptContent(content string, now time.Time) (State, error) {
	if s.Step != StepContent {
		return s, ErrWrongStep
	}
	if strings.TrimSpace(content) == "" {
		return s, ErrInvalidInput
	}
	s.Content = content
	s.Step = StepReady
	s.UpdatedAt = now
	return s, nil
}

// AcceptTargetID parses a positive numeric Telegram identity.
func (s State) AcceptTargetID(raw string, now time.Time) (State, error) {
	if s.Step != StepTargetID {
		return s, ErrWrongStep
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return s, ErrInvalidInput
	}
	s.TargetID = id
	s.Step = StepReady
	s.UpdatedAt = now
	return s, nil
}

func (s State) AcceptBroadcast(text string, now time.Time) (State, error) {
	if s.Step != StepBroadcastText {
		return s, ErrWrongStep
	}
	if strings.TrimSpace(text) == "" {
		return s, ErrInvalidInput
	}
	s.Text = text
	s.Step = StepReady
	s.UpdatedAt = now
	return s, nil
}

// Response assembles the rule collected by an add or edit workflow.
func (s State) Response() *models.Response {
	return &models.Response{Trigger: s.Trigger, Kind: s.Kind, Content: s.Content}
}
