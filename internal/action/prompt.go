package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PromptKind selects the input widget a UI shows for a prompt.
type PromptKind int

const (
	PromptText PromptKind = iota
	PromptNumber
	PromptConfirm
)

// PromptRequest describes one question asked by a handler.
type PromptRequest struct {
	Key     string // identifies the prompt; also the resource key prefix for its texts
	Title   string
	Message string
	Default string
	Kind    PromptKind
}

// Prompter answers prompts. ok is false when the user cancelled.
type Prompter interface {
	Prompt(req PromptRequest) (answer string, ok bool)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(PromptRequest) (string, bool)

func (f PrompterFunc) Prompt(req PromptRequest) (string, bool) { return f(req) }

// Presenter shows informational markdown to the user.
type Presenter interface {
	Present(title, markdown string)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(title, markdown string)

func (f PresenterFunc) Present(title, markdown string) { f(title, markdown) }

// NoPrompter cancels every prompt.
var NoPrompter Prompter = PrompterFunc(func(PromptRequest) (string, bool) { return "", false })

// PromptString asks for free text. A cancelled prompt yields ErrCancelled.
func PromptString(p Prompter, req PromptRequest) (string, error) {
	if p == nil {
		return "", ErrCancelled
	}
	answer, ok := p.Prompt(req)
	if !ok {
		return "", ErrCancelled
	}
	return answer, nil
}

// PromptInt asks for an integer in [min, max].
func PromptInt(p Prompter, req PromptRequest, min, max int) (int, error) {
	req.Kind = PromptNumber
	answer, err := PromptString(p, req)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, &InvalidInputError{Prompt: req.Title, Value: answer, Reason: "not a number"}
	}
	if n < min || n > max {
		return 0, &InvalidInputError{
			Prompt: req.Title,
			Value:  answer,
			Reason: fmt.Sprintf("must be between %d and %d", min, max),
		}
	}
	return n, nil
}

// PromptPattern asks for text matching re.
func PromptPattern(p Prompter, req PromptRequest, re *regexp.Regexp) (string, error) {
	answer, err := PromptString(p, req)
	if err != nil {
		return "", err
	}
	if !re.MatchString(answer) {
		return "", &InvalidInputError{
			Prompt: req.Title,
			Value:  answer,
			Reason: fmt.Sprintf("must match %s", re),
		}
	}
	return answer, nil
}

// PromptRegexp asks for a regular expression and compiles it.
func PromptRegexp(p Prompter, req PromptRequest) (*regexp.Regexp, error) {
	answer, err := PromptString(p, req)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(answer)
	if err != nil {
		return nil, &InvalidInputError{Prompt: req.Title, Value: answer, Reason: err.Error()}
	}
	return re, nil
}

// Confirm asks a yes/no question. Cancel counts as no.
func Confirm(p Prompter, req PromptRequest) bool {
	req.Kind = PromptConfirm
	answer, err := PromptString(p, req)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "true", "ok":
		return true
	}
	return false
}

// ReplayPrompter answers prompts from recorded answers in order. The first
// prompt beyond the recording is remembered as pending and cancelled, so an
// event-loop UI can collect the answer and dispatch again with one more
// recorded answer.
type ReplayPrompter struct {
	answers []string
	next    int
	pending *PromptRequest
}

// NewReplayPrompter creates a prompter replaying answers.
func NewReplayPrompter(answers ...string) *ReplayPrompter {
	return &ReplayPrompter{answers: answers}
}

// Prompt implements Prompter.
func (r *ReplayPrompter) Prompt(req PromptRequest) (string, bool) {
	if r.next < len(r.answers) {
		a := r.answers[r.next]
		r.next++
		return a, true
	}
	if r.pending == nil {
		p := req
		r.pending = &p
	}
	return "", false
}

// Pending returns the first prompt that had no recorded answer.
func (r *ReplayPrompter) Pending() (PromptRequest, bool) {
	if r.pending == nil {
		return PromptRequest{}, false
	}
	return *r.pending, true
}

// Answers returns the recorded answers.
func (r *ReplayPrompter) Answers() []string {
	return append([]string(nil), r.answers...)
}
