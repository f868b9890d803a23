package hub

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"topowatch/internal/dashboard"
	"topowatch/internal/metrics"
)

// Controls is the user input surface of the dashboard
type Controls interface {
	Input(ctx context.Context, ev dashboard.InputEvent) error
	Resize(ctx context.Context, width, height float64) error
	Select(ctx context.Context, name string) error
}

// Input message types
const (
	MessagePointer = "pointer"
	MessageResize  = "resize"
	MessageSelect  = "select"
	MessageError   = "error"
)

// InputMessage is one message sent by a browser over the input socket
type InputMessage struct {
	Type   string              `json:"type" validate:"required,oneof=pointer resize select"`
	Kind   dashboard.InputKind `json:"kind,omitempty" validate:"required_if=Type pointer"`
	X      float64             `json:"x,omitempty"`
	Y      float64             `json:"y,omitempty"`
	Width  float64             `json:"width,omitempty" validate:"gte=0"`
	Height float64             `json:"height,omitempty" validate:"gte=0"`
	Name   string              `json:"name,omitempty" validate:"required_if=Type select"`
}

// ErrorMessage is sent back when a message is rejected
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InputServer accepts pointer, resize and selection messages over a websocket
type InputServer struct {
	upgrader websocket.Upgrader
	controls Controls
	validate *validator.Validate
	metrics  *metrics.Registry
	active   atomic.Int64
}

// NewInputServer creates an input server feeding controls
func NewInputServer(controls Controls, m *metrics.Registry) *InputServer {
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	return &InputServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		controls: controls,
		validate: validator.New(),
		metrics:  m,
	}
}

// ServeHTTP upgrades the connection and reads messages until it closes
func (s *InputServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade input socket: %v", err)
		return
	}
	id := uuid.NewString()

	s.metrics.StreamClients.WithLabelValues("websocket").Set(float64(s.active.Add(1)))
	log.Printf("Input socket connected: %s", id)

	defer func() {
		c.Close()
		s.metrics.StreamClients.WithLabelValues("websocket").Set(float64(s.active.Add(-1)))
		log.Printf("Input socket disconnected: %s", id)
	}()

	ctx := r.Context()
	for {
		var msg InputMessage
		if err := c.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.dispatch(ctx, msg); err != nil {
			if werr := c.WriteJSON(ErrorMessage{Type: MessageError, Message: err.Error()}); werr != nil {
				return
			}
		}
	}
}

func (s *InputServer) dispatch(ctx context.Context, msg InputMessage) error {
	if err := s.validate.Struct(msg); err != nil {
		return err
	}

	switch msg.Type {
	case MessagePointer:
		return s.controls.Input(ctx, dashboard.InputEvent{Kind: msg.Kind, X: msg.X, Y: msg.Y})
	case MessageResize:
		return s.controls.Resize(ctx, msg.Width, msg.Height)
	case MessageSelect:
		return s.controls.Select(ctx, msg.Name)
	}
	return nil
}
