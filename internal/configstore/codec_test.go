package configstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleFragment = `
menubar:
  - menu: file
    children:
      - item: new
      - item: save
        before: open
      - separator
      - item: exit
        tooltip: Quit the editor
toolbar:
  - item: new
  - separator: sepExport
  - item: exportGraphviz
plugins:
  - item: graphviz
    format: dot
`

func TestParse_Structure(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleFragment), "sample.yaml")
	require.NoError(t, err)

	require.Equal(t, RootTag, root.Tag)
	require.Len(t, root.Children, 3)

	file := root.Section(SectionMenubar).Child("file")
	require.NotNil(t, file)
	require.Equal(t, TagMenu, file.Tag)
	require.Equal(t, []string{"new", "save", "", "exit"}, file.ChildKeys())
	require.Equal(t, "open", file.Child("save").Before())
	require.Equal(t, TagSeparator, file.Children[2].Tag)
	require.Equal(t, "Quit the editor", file.Child("exit").Attr("tooltip"))

	toolbar := root.Section(SectionToolbar)
	require.Equal(t, TagSeparator, toolbar.Child("sepExport").Tag)

	require.Equal(t, "dot", root.Section(SectionPlugins).Child("graphviz").Attr("format"))
}

func TestParse_EmptyInput(t *testing.T) {
	root, err := Parse(strings.NewReader(""), "empty.yaml")
	require.NoError(t, err)
	require.Equal(t, RootTag, root.Tag)
	require.Empty(t, root.Children)

	root, err = Parse(strings.NewReader("toolbar:\n"), "nullsection.yaml")
	require.NoError(t, err)
	require.NotNil(t, root.Section(SectionToolbar))
	require.Empty(t, root.Section(SectionToolbar).Children)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
		line   int
	}{
		{
			name:   "explicit key field",
			input:  "menubar:\n  - item: new\n    key: other\n",
			reason: "use the node tag",
			line:   3,
		},
		{
			name:   "bare item",
			input:  "toolbar:\n  - new\n",
			reason: "bare value",
			line:   2,
		},
		{
			name:   "two structural tags",
			input:  "toolbar:\n  - item: new\n    menu: file\n",
			reason: "declares both",
			line:   3,
		},
		{
			name:   "item without key",
			input:  "toolbar:\n  - item:\n",
			reason: "requires a key",
			line:   2,
		},
		{
			name:   "section is not a list",
			input:  "toolbar: new\n",
			reason: "expected a list",
			line:   1,
		},
		{
			name:   "root is a list",
			input:  "- item: new\n",
			reason: "mapping of sections",
			line:   1,
		},
		{
			name:   "nested attribute",
			input:  "toolbar:\n  - item: new\n    label:\n      en: New\n",
			reason: "must be a scalar",
			line:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "bad.yaml")
			require.Error(t, err)

			var parseErr *ConfigParseError
			require.True(t, errors.As(err, &parseErr), "expected ConfigParseError, got %T", err)
			require.Equal(t, "bad.yaml", parseErr.Source)
			require.Contains(t, parseErr.Reason, tt.reason)
			require.Equal(t, tt.line, parseErr.Line)
			require.Contains(t, err.Error(), "bad.yaml:")
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("menubar: [unclosed\n"), "broken.yaml")

	var parseErr *ConfigParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "invalid yaml", parseErr.Reason)
	require.NotNil(t, errors.Unwrap(err))
}

func TestParseFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := ParseFile(path)

	var parseErr *ConfigParseError
	require.ErrorAs(t, err, &parseErr)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMarshal_ReparsesToSameTree(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleFragment), "sample.yaml")
	require.NoError(t, err)

	data, err := Marshal(root)
	require.NoError(t, err)

	again, err := Parse(strings.NewReader(string(data)), "dump.yaml")
	require.NoError(t, err)
	require.True(t, Equal(root, again), "dump:\n%s", data)
	require.Contains(t, string(data), "- separator\n")
}
