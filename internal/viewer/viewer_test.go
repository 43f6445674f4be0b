package viewer

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/netfile"
	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/tracker"
)

func exampleDefinition() *netfile.Definition {
	return &netfile.Definition{
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
	}
}

func makeSchedule(t *testing.T, def *netfile.Definition) *cpm.Schedule {
	t.Helper()
	ps, err := cpm.BuildNetwork(def.Activities, def.Edges)
	require.NoError(t, err)
	s, err := cpm.ComputeSchedule(ps)
	require.NoError(t, err)
	return s
}

func getGraph(t *testing.T, srv *httptest.Server) *Graph {
	t.Helper()
	resp, err := http.Get(srv.URL + "/graph")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var g Graph
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	return &g
}

func TestGetGraph(t *testing.T) {
	s := makeSchedule(t, exampleDefinition())
	reports, err := tracker.Track(s.Stats, []tracker.DayEvent{{Day: 1, Started: []string{"A"}}})
	require.NoError(t, err)

	srv := httptest.NewServer(New(s, reports))
	defer srv.Close()

	g := getGraph(t, srv)
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 5)
	require.Equal(t, [][]string{{"Start", "A", "C", "End"}}, g.CriticalPaths)
	require.Equal(t, 7, g.Metadata.CriticalDuration)
	require.NotEmpty(t, g.Metadata.ID)

	byID := make(map[string]GraphNode)
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	require.Equal(t, "extreme", byID["Start"].Status)
	require.Equal(t, "in_progress", byID["A"].Status)
	require.Equal(t, "pending", byID["B"].Status)
	require.True(t, byID["C"].IsCritical)
	require.Equal(t, 1, byID["B"].Slack)
	require.Equal(t, 1, byID["C"].WaveIndex)
}

func TestGetSchedule(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/schedule")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, float64(7), out["critical_duration"])
	require.Equal(t, []interface{}{"A", "C"}, out["critical_activities"])
}

func TestGetReport_NoLog(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/report")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostNetwork_ReplacesSchedule(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	def := exampleDefinition()
	def.Activities[3].Duration = 10 // C
	def.Events = []tracker.DayEvent{{Day: 1, Started: []string{"A", "B"}}}
	require.NoError(t, PostNetwork(srv.URL, def))

	g := getGraph(t, srv)
	require.Equal(t, 13, g.Metadata.CriticalDuration)

	resp, err := http.Get(srv.URL + "/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var days []tracker.DayReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&days))
	require.Len(t, days, 1)
	require.Len(t, days[0].Started, 2)
}

func TestPostGraph_Rejects(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	cases := map[string]struct {
		body string
		code int
	}{
		"invalid json":  {`{"activities": [`, http.StatusBadRequest},
		"unknown name":  {`{"activities": [{"name": "S", "duration": -1}], "precedence": [{"from": "S", "to": "X"}]}`, http.StatusBadRequest},
		"cycle":         {`{"activities": [{"name": "S", "duration": -1}, {"name": "A", "duration": 1}, {"name": "E", "duration": -1}], "precedence": [{"from": "S", "to": "A"}, {"from": "A", "to": "A"}]}`, http.StatusUnprocessableEntity},
		"bad execution": {`{"activities": [{"name": "S", "duration": -1}, {"name": "A", "duration": 1}, {"name": "E", "duration": -1}], "precedence": [{"from": "S", "to": "A"}, {"from": "A", "to": "E"}], "execution": [{"day": 2}, {"day": 1}]}`, http.StatusUnprocessableEntity},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/graph", "application/json", strings.NewReader(c.body))
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, c.code, resp.StatusCode)
		})
	}

	// The original schedule is still served.
	require.Equal(t, 7, getGraph(t, srv).Metadata.CriticalDuration)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	for _, path := range []string{"/graph", "/schedule", "/report"} {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}
}

func TestIndexAndNotFound(t *testing.T) {
	srv := httptest.NewServer(New(makeSchedule(t, exampleDefinition()), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStartAndIsPortOpen(t *testing.T) {
	// Grab a free port from a throwaway listener.
	probe := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(probe.URL, "http://")
	probe.Close()
	_, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	require.False(t, IsPortOpen(addr))

	url, err := Start(New(makeSchedule(t, exampleDefinition()), nil), port)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("http://localhost:%d", port), url)
	require.True(t, IsPortOpen(addr))
}
