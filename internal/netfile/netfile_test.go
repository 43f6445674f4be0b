package netfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
	"github.com/joshharrison/pathloom/internal/tracker"
)

const exampleText = `Example network, anything above the first marker is ignored.
#
{{Start,-1},{A,3},{B,2},{C,4},{End,-1}}
#
{
Start
A
}
{
Start
B
}
{A}{C}
{B}{C}
{B}{C}
{C}{End}
#
1:{i:A,B}
3:{f:B}
4:{f:A}{i:C}
8:{f:C}
`

func exampleDefinition() *Definition {
	return &Definition{
		Activities: []network.Activity{
			{Name: "Start", Duration: -1},
			{Name: "A", Duration: 3},
			{Name: "B", Duration: 2},
			{Name: "C", Duration: 4},
			{Name: "End", Duration: -1},
		},
		Edges: []network.Edge{
			{From: "Start", To: "A"},
			{From: "Start", To: "B"},
			{From: "A", To: "C"},
			{From: "B", To: "C"},
			{From: "C", To: "End"},
		},
		Events: []tracker.DayEvent{
			{Day: 1, Started: []string{"A", "B"}},
			{Day: 3, Finished: []string{"B"}},
			{Day: 4, Started: []string{"C"}, Finished: []string{"A"}},
			{Day: 8, Finished: []string{"C"}},
		},
	}
}

func TestParseText_Example(t *testing.T) {
	def, err := ParseText(strings.NewReader(exampleText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(exampleDefinition(), def); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestParseText_TwoMarkersNoExecution(t *testing.T) {
	src := "#\n{{S,-1},{E,-1}}\n#\n{S}{E}\n"
	def, err := ParseText(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, def.Activities, 2)
	require.Equal(t, []network.Edge{{From: "S", To: "E"}}, def.Edges)
	require.Empty(t, def.Events)
}

func TestParseText_Errors(t *testing.T) {
	cases := map[string]string{
		"double marker":        "##\n{{S,-1},{E,-1}}\n#\n",
		"one marker":           "#\n{{S,-1},{E,-1}}\n",
		"four markers":         "#\n{{S,-1}}\n#\n#\n#\n",
		"no header":            "#\nS,-1\n#\n",
		"even commas":          "#\n{{S,-1},{E}}\n#\n",
		"bad weight":           "#\n{{S,x},{E,-1}}\n#\n",
		"duplicate activity":   "#\n{{S,-1},{S,2}}\n#\n",
		"three extremes":       "#\n{{S,-1},{M,-1},{E,-1}}\n#\n",
		"unknown from":         "#\n{{S,-1},{E,-1}}\n#\n{X}{E}\n",
		"unknown to":           "#\n{{S,-1},{E,-1}}\n#\n{S}{X}\n",
		"unclosed block":       "#\n{{S,-1},{E,-1}}\n#\n{\nS\nE\n",
		"bad block close":      "#\n{{S,-1},{E,-1}}\n#\n{\nS\nE\nx\n",
		"garbage pair":         "#\n{{S,-1},{E,-1}}\n#\nS -> E\n",
		"bad execution":        "#\n{{S,-1},{A,1},{E,-1}}\n#\n{S}{A}\n#\nday one\n",
		"unknown in execution": "#\n{{S,-1},{A,1},{E,-1}}\n#\n{S}{A}\n#\n1:{i:Z}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(src))
			require.ErrorIs(t, err, schederr.ErrConfiguration)
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := `
activities:
  - {name: Start, duration: -1}
  - {name: A, duration: 3}
  - {name: B, duration: 2}
  - {name: C, duration: 4}
  - {name: End, duration: -1}
precedence:
  - {from: Start, to: A}
  - {from: Start, to: B}
  - {from: A, to: C}
  - {from: B, to: C}
  - {from: C, to: End}
  - {from: C, to: End}
execution:
  - {day: 1, started: [A, B]}
  - {day: 3, finished: [B]}
  - {day: 4, started: [C], finished: [A]}
  - {day: 8, finished: [C]}
`
	def, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	if diff := cmp.Diff(exampleDefinition(), def); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	src := `{
  "activities": [
    {"name": "Start", "duration": -1},
    {"name": "A", "duration": 3},
    {"name": "B", "duration": 2},
    {"name": "C", "duration": 4},
    {"name": "End", "duration": -1}
  ],
  "precedence": [
    {"from": "Start", "to": "A"},
    {"from": "Start", "to": "B"},
    {"from": "A", "to": "C"},
    {"from": "B", "to": "C"},
    {"from": "C", "to": "End"}
  ],
  "execution": [
    {"day": 1, "started": ["A", "B"]},
    {"day": 3, "finished": ["B"]},
    {"day": 4, "started": ["C"], "finished": ["A"]},
    {"day": 8, "finished": ["C"]}
  ]
}`
	def, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	if diff := cmp.Diff(exampleDefinition(), def); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"invalid":           `{"activities": [`,
		"string duration":   `{"activities": [{"name": "A", "duration": "3"}]}`,
		"missing day":       `{"activities": [{"name": "A", "duration": 3}], "execution": [{"started": ["A"]}]}`,
		"unknown in edges":  `{"activities": [{"name": "A", "duration": 3}], "precedence": [{"from": "A", "to": "B"}]}`,
		"fraction duration": `{"activities": [{"name": "A", "duration": 2.7}]}`,
		"fraction day":      `{"activities": [{"name": "A", "duration": 3}], "execution": [{"day": 1.5, "started": ["A"]}]}`,
		"duplicate name":    `{"activities": [{"name": "A", "duration": 3}, {"name": "A", "duration": 1}]}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(src))
			require.ErrorIs(t, err, schederr.ErrConfiguration)
		})
	}
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	var yamlBuf bytes.Buffer
	require.NoError(t, WriteYAML(&yamlBuf, exampleDefinition()))

	files := map[string][]byte{
		"net.txt":  []byte(exampleText),
		"net.yaml": yamlBuf.Bytes(),
		"net.YML":  yamlBuf.Bytes(),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))

		def, err := Load(path)
		require.NoError(t, err, name)
		if diff := cmp.Diff(exampleDefinition(), def); diff != "" {
			t.Errorf("%s: definition mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoad_RejectsDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, schederr.ErrConfiguration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
