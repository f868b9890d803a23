package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"topowatch/internal/dashboard"
	"topowatch/internal/metrics"
)

func TestHubBroadcast(t *testing.T) {
	h := New(metrics.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, ": connected ") {
		t.Fatalf("expected connect comment, got %q (%v)", line, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Broadcast(map[string]int{"seq": 7})

	for {
		line, err = reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}
	if strings.TrimSpace(line) != `data: {"seq":7}` {
		t.Errorf("unexpected event line %q", line)
	}
}

func TestHubStopsClientsOnShutdown(t *testing.T) {
	h := New(metrics.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	reader.ReadString('\n')
	cancel()

	done := make(chan struct{})
	go func() {
		for {
			if _, err := reader.ReadString('\n'); err != nil {
				close(done)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not closed after hub shutdown")
	}
}

type recordingControls struct {
	mu       sync.Mutex
	inputs   []dashboard.InputEvent
	resizes  [][2]float64
	selected []string
}

func (r *recordingControls) Input(ctx context.Context, ev dashboard.InputEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, ev)
	return nil
}

func (r *recordingControls) Resize(ctx context.Context, w, h float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resizes = append(r.resizes, [2]float64{w, h})
	return nil
}

func (r *recordingControls) Select(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = append(r.selected, name)
	return nil
}

func TestInputServer(t *testing.T) {
	controls := &recordingControls{}
	srv := httptest.NewServer(NewInputServer(controls, metrics.NewRegistry()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	messages := []InputMessage{
		{Type: MessagePointer, Kind: dashboard.PointerDown, X: 10, Y: 20},
		{Type: MessageResize, Width: 640, Height: 480},
		{Type: MessageSelect, Name: "lab"},
	}
	for _, msg := range messages {
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	t.Run("invalid message gets an error reply", func(t *testing.T) {
		if err := conn.WriteJSON(InputMessage{Type: MessageSelect}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		var reply ErrorMessage
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if reply.Type != MessageError {
			t.Errorf("reply type = %q", reply.Type)
		}
	})

	controls.mu.Lock()
	defer controls.mu.Unlock()

	if len(controls.inputs) != 1 || controls.inputs[0].Kind != dashboard.PointerDown || controls.inputs[0].X != 10 {
		t.Errorf("inputs = %+v", controls.inputs)
	}
	if len(controls.resizes) != 1 || controls.resizes[0] != [2]float64{640, 480} {
		t.Errorf("resizes = %+v", controls.resizes)
	}
	if len(controls.selected) != 1 || controls.selected[0] != "lab" {
		t.Errorf("selected = %+v", controls.selected)
	}
}
