package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/cpm"
	"github.com/joshharrison/pathloom/internal/netfile"
	"github.com/joshharrison/pathloom/internal/reporter"
	"github.com/joshharrison/pathloom/internal/tracker"
)

// --- Graph types ---

type GraphNode struct {
	ID          string `json:"id"`
	Duration    int    `json:"duration"`
	Status      string `json:"status"` // extreme, pending, in_progress, done, off_path
	EarlyStart  int    `json:"early_start"`
	EarlyFinish int    `json:"early_finish"`
	LateStart   int    `json:"late_start"`
	LateFinish  int    `json:"late_finish"`
	Slack       int    `json:"slack"`
	IsCritical  bool   `json:"is_critical"`
	WaveIndex   int    `json:"wave_index"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type GraphMetadata struct {
	ID               string `json:"id"`
	CreatedAt        string `json:"created_at"`
	TotalActivities  int    `json:"total_activities"`
	TotalPaths       int    `json:"total_paths"`
	TotalWaves       int    `json:"total_waves"`
	CriticalDuration int    `json:"critical_duration"`
}

type Graph struct {
	Nodes         []GraphNode   `json:"nodes"`
	Edges         []GraphEdge   `json:"edges"`
	CriticalPaths [][]string    `json:"critical_paths"`
	Metadata      GraphMetadata `json:"metadata"`
}

// toGraph converts a schedule into the normalised Graph the UI renders.
func toGraph(s *cpm.Schedule, runID string, now time.Time) *Graph {
	n := s.PathSet.Network
	nodes := make([]GraphNode, 0, n.Table.Len())
	for _, a := range n.Table.Activities() {
		node := GraphNode{ID: a.Name, Duration: a.Duration, Status: "extreme", WaveIndex: -1}
		if st, ok := s.Stats.Get(a.Name); ok {
			node.EarlyStart = st.EarlyStart
			node.EarlyFinish = st.EarlyFinish
			node.LateStart = st.LateStart
			node.LateFinish = st.LateFinish
			node.Slack = st.Slack
			node.IsCritical = st.IsCritical
			node.WaveIndex = st.Wave
			switch {
			case !st.Scheduled():
				node.Status = "off_path"
			case st.Finished:
				node.Status = "done"
			case st.Started:
				node.Status = "in_progress"
			default:
				node.Status = "pending"
			}
		}
		nodes = append(nodes, node)
	}

	var edges []GraphEdge
	for _, e := range n.Precedence.Edges() {
		edges = append(edges, GraphEdge{From: e.From, To: e.To})
	}

	critical := make([][]string, 0, len(s.CriticalPaths))
	for _, i := range s.CriticalPaths {
		critical = append(critical, s.PathSet.Paths[i])
	}

	return &Graph{
		Nodes:         nodes,
		Edges:         edges,
		CriticalPaths: critical,
		Metadata: GraphMetadata{
			ID:               runID,
			CreatedAt:        now.Format(time.RFC3339),
			TotalActivities:  n.Table.Len(),
			TotalPaths:       len(s.PathSet.Paths),
			TotalWaves:       len(s.Waves),
			CriticalDuration: s.CriticalDuration,
		},
	}
}

// --- HTTP server ---

// Option configures the viewer handler.
type Option func(*server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngineOptions passes limits and logger to schedules recomputed from
// a posted network.
func WithEngineOptions(opts ...cpm.Option) Option {
	return func(s *server) {
		s.engine = opts
	}
}

type server struct {
	mu     sync.RWMutex
	rpt    *reporter.Reporter
	graph  *Graph
	engine []cpm.Option
	logger *zap.Logger
}

// New builds the viewer handler for a schedule and its replayed days.
// reports may be nil.
func New(s *cpm.Schedule, reports []tracker.DayReport, opts ...Option) http.Handler {
	srv := &server{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(srv)
	}
	srv.load(s, reports)

	mux := http.NewServeMux()
	mux.HandleFunc("/graph", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			srv.handlePostGraph(w, r)
		case http.MethodGet:
			srv.handleGetGraph(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/schedule", srv.handleGetSchedule)
	mux.HandleFunc("/report", srv.handleGetReport)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "pathloom viewer\n\nGET  /graph\nPOST /graph\nGET  /schedule\nGET  /report\n")
	})
	return mux
}

func (s *server) load(sched *cpm.Schedule, reports []tracker.DayReport) {
	rpt := reporter.New(sched, reports)
	g := toGraph(sched, rpt.RunID, time.Now())

	s.mu.Lock()
	s.rpt = rpt
	s.graph = g
	s.mu.Unlock()
}

// handlePostGraph replaces the served schedule with one computed from a
// posted JSON network definition. Its execution log, if any, is replayed.
func (s *server) handlePostGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	def, err := netfile.ParseJSON(body)
	if err != nil {
		http.Error(w, "invalid network: "+err.Error(), http.StatusBadRequest)
		return
	}
	ps, err := cpm.BuildNetwork(def.Activities, def.Edges, s.engine...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sched, err := cpm.ComputeSchedule(ps, s.engine...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	var reports []tracker.DayReport
	if len(def.Events) > 0 {
		if reports, err = tracker.Track(sched.Stats, def.Events); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	s.load(sched, reports)
	s.logger.Info("viewer schedule replaced",
		zap.Int("activities", ps.Network.Table.Len()),
		zap.Int("paths", len(ps.Paths)))

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(g)
}

func (s *server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "no graph loaded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

func (s *server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	rpt := s.rpt
	s.mu.RUnlock()

	data, err := rpt.JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	reports := s.rpt.Reports
	s.mu.RUnlock()

	if len(reports) == 0 {
		http.Error(w, "no execution log replayed", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

// Start launches h on the given port in the background.
// Returns the base URL (e.g. "http://localhost:7171") or an error.
func Start(h http.Handler, port int) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("listen on port %d: %w", port, err)
	}

	go http.Serve(ln, h)

	addr := fmt.Sprintf("http://localhost:%d", port)
	return addr, nil
}

// PostNetwork sends a network definition to a running viewer.
func PostNetwork(addr string, def *netfile.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal network: %w", err)
	}

	resp, err := http.Post(addr+"/graph", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("POST /graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /graph returned %d", resp.StatusCode)
	}

	return nil
}

// IsPortOpen checks if something is listening on the given address.
func IsPortOpen(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
