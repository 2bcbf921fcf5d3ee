package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

/*
	Residual monitor. The solver loop publishes one Sample per step; every
	connected websocket client receives the stream as JSON. Slow or stalled
	clients are dropped rather than allowed to backpressure the solver.
*/

// Sample is one solver step's progress snapshot
type Sample struct {
	Iteration int     `json:"iteration"`
	Time      float64 `json:"time"`
	DT        float64 `json:"dt"`
	Residual  float64 `json:"residual"`
}

type Monitor struct {
	addr     string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Sample
}

func NewMonitor(addr string) *Monitor {
	return &Monitor{
		addr:     addr,
		clients:  make(map[*websocket.Conn]chan Sample),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// Publish fans the sample out to every client without blocking the solver;
// a client whose buffer is full misses the sample
func (m *Monitor) Publish(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.clients {
		select {
		case ch <- s:
		default:
		}
	}
}

func (m *Monitor) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := make(chan Sample, 64)
	m.mu.Lock()
	m.clients[conn] = ch
	m.mu.Unlock()
	log.WithField("remote", conn.RemoteAddr()).Info("monitor client connected")

	defer func() {
		m.mu.Lock()
		delete(m.clients, conn)
		m.mu.Unlock()
		log.WithField("remote", conn.RemoteAddr()).Info("monitor client disconnected")
	}()
	for s := range ch {
		if err = conn.WriteJSON(&s); err != nil {
			log.WithError(err).Warn("dropping monitor client")
			return
		}
	}
}

// Serve blocks on the HTTP listener; run it in its own goroutine alongside
// the solver loop
func (m *Monitor) Serve() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.serveWs)
	if err := http.ListenAndServe(m.addr, mux); err != nil {
		log.WithError(err).Fatal("monitor listener failed")
	}
}
