package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestMonitorStreamsSamples(t *testing.T) {
	m := NewMonitor("")
	srv := httptest.NewServer(http.HandlerFunc(m.serveWs))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if !assert.NoError(t, err) {
		return
	}
	defer conn.Close()

	// Publish only once the server side has registered the client
	deadline := time.Now().Add(2 * time.Second)
	for {
		m.mu.Lock()
		registered := len(m.clients)
		m.mu.Unlock()
		if registered == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := Sample{Iteration: 42, Time: 0.125, DT: 1.e-3, Residual: 0.5}
	m.Publish(want)

	var got Sample
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if assert.NoError(t, conn.ReadJSON(&got)) {
		assert.Equal(t, want, got)
	}
}

func TestPublishWithoutClients(t *testing.T) {
	m := NewMonitor(":0")
	assert.NotPanics(t, func() { m.Publish(Sample{Iteration: 1}) })
}
