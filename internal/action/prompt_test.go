package action

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func answer(s string) Prompter {
	return PrompterFunc(func(PromptRequest) (string, bool) { return s, true })
}

func TestPromptInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		invalid bool
	}{
		{name: "in range", input: "12", want: 12},
		{name: "trimmed", input: " 72 ", want: 72},
		{name: "lower bound", input: "6", want: 6},
		{name: "too small", input: "5", invalid: true},
		{name: "too large", input: "73", invalid: true},
		{name: "not a number", input: "twelve", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PromptInt(answer(tt.input), PromptRequest{Title: "Font size"}, 6, 72)
			if tt.invalid {
				var inv *InvalidInputError
				require.ErrorAs(t, err, &inv)
				require.Equal(t, tt.input, inv.Value)
				require.True(t, IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPromptInt_Cancelled(t *testing.T) {
	_, err := PromptInt(NoPrompter, PromptRequest{}, 0, 1)
	require.ErrorIs(t, err, ErrCancelled)

	_, err = PromptString(nil, PromptRequest{})
	require.ErrorIs(t, err, ErrCancelled)
}

func TestPromptPattern(t *testing.T) {
	re := regexp.MustCompile(`\.dot$`)

	got, err := PromptPattern(answer("graph.dot"), PromptRequest{}, re)
	require.NoError(t, err)
	require.Equal(t, "graph.dot", got)

	_, err = PromptPattern(answer("graph.png"), PromptRequest{Title: "Export"}, re)
	require.ErrorContains(t, err, `Export: invalid input "graph.png": must match \.dot$`)
}

func TestPromptRegexp(t *testing.T) {
	re, err := PromptRegexp(answer("^start"), PromptRequest{})
	require.NoError(t, err)
	require.True(t, re.MatchString("started"))

	_, err = PromptRegexp(answer("("), PromptRequest{})
	require.True(t, IsInvalidInput(err))
	require.False(t, errors.Is(err, ErrCancelled))
}

func TestConfirm(t *testing.T) {
	require.True(t, Confirm(answer("Yes"), PromptRequest{}))
	require.False(t, Confirm(answer("no"), PromptRequest{}))
	require.False(t, Confirm(NoPrompter, PromptRequest{}))
}

func TestReplayPrompter(t *testing.T) {
	p := NewReplayPrompter("first")

	got, ok := p.Prompt(PromptRequest{Key: "a"})
	require.True(t, ok)
	require.Equal(t, "first", got)

	_, ok = p.Prompt(PromptRequest{Key: "b"})
	require.False(t, ok)
	_, ok = p.Prompt(PromptRequest{Key: "c"})
	require.False(t, ok)

	pending, waiting := p.Pending()
	require.True(t, waiting)
	require.Equal(t, "b", pending.Key, "first unanswered prompt is kept")
	require.Equal(t, []string{"first"}, p.Answers())
}
