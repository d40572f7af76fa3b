package monitor

import (
	"net/http"
	"time"

	"github.com/vk/taskgraph/internal/taskgraph"
	"github.com/zishang520/socket.io/v2/socket"
)

// Kind is the lifecycle stage a node_event reports, per SPEC_FULL.md §4.8.
type Kind string

const (
	KindPending Kind = "pending"
	KindRunning Kind = "running"
	KindDone    Kind = "done"
	KindFailed  Kind = "failed"
)

// Event is the single payload shape broadcast for every task state
// transition. At most one of KindDone or KindFailed is emitted per task:
// one per task in a run where no task fails; after a failure, tasks the
// driver had not yet seen complete get neither.
type Event struct {
	GraphID string    `json:"graph_id"`
	NodeID  uint64    `json:"node_id"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// Server wraps a Socket.IO server instance bound to an http.Server. It
// implements taskgraph.Observer and broadcasts one "node_event" per
// transition to every connected client, scoped by GraphID so a client
// watching multiple graphs through one monitor can tell them apart.
type Server struct {
	graphID string
	io      *socket.Server
}

// NewServer constructs a monitor for the graph identified by graphID (the
// graph definition's path, per internal/app.NewApp). Mount Handler onto an
// HTTP mux before starting to accept connections.
func NewServer(graphID string) *Server {
	return &Server{
		graphID: graphID,
		io:      socket.NewServer(nil, nil),
	}
}

// Handler returns the Socket.IO endpoint as a net/http.Handler, typically
// mounted at "/socket.io/".
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close shuts down the underlying Socket.IO server, disconnecting every
// client.
func (s *Server) Close() error {
	s.io.Close(nil)
	return nil
}

func (s *Server) emit(nodeID taskgraph.TaskId, kind Kind) {
	s.io.Emit("node_event", Event{
		GraphID: s.graphID,
		NodeID:  uint64(nodeID),
		Kind:    kind,
		At:      time.Now(),
	})
}

// OnPending implements taskgraph.Observer.
func (s *Server) OnPending(id taskgraph.TaskId) {
	s.emit(id, KindPending)
}

// OnDispatch implements taskgraph.Observer: every id in a dispatched batch
// transitions from pending to running.
func (s *Server) OnDispatch(ids []taskgraph.TaskId) {
	for _, id := range ids {
		s.emit(id, KindRunning)
	}
}

// OnComplete implements taskgraph.Observer: err is nil on success (emits
// KindDone) or non-nil if the task's callable panicked (emits KindFailed).
// The driver calls it at most once per task.
func (s *Server) OnComplete(id taskgraph.TaskId, err error) {
	if err != nil {
		s.emit(id, KindFailed)
		return
	}
	s.emit(id, KindDone)
}
