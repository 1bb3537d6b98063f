package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/skeleton"
	"github.com/ayusman/bodyscan/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Capture message types.
const (
	msgFrame  = "frame"
	msgFinish = "finish"
	msgAck    = "ack"
	msgResult = "result"
	msgError  = "error"
)

// captureMessage is both directions of the capture protocol.
type captureMessage struct {
	Type   string          `json:"type"`
	Frame  *skeleton.Frame `json:"frame,omitempty"`
	Frames int             `json:"frames,omitempty"`
	Scan   *store.Scan     `json:"scan,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// CaptureHandler receives a streamed rotation capture over WebSocket and
// answers with the finished scan. Each connection is one capture session.
type CaptureHandler struct {
	app       *app.App
	maxFrames int
	logger    *zap.SugaredLogger
}

// NewCaptureHandler creates a new CaptureHandler.
func NewCaptureHandler(a *app.App, maxFrames int, logger *zap.SugaredLogger) *CaptureHandler {
	return &CaptureHandler{app: a, maxFrames: maxFrames, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debugw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := h.app.NewSession(h.maxFrames)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if n := session.Len(); n > 0 {
				h.logger.Infow("capture abandoned", "frames", n)
			}
			return
		}

		var msg captureMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(conn, captureMessage{Type: msgError, Error: "invalid message: " + err.Error()})
			continue
		}

		switch msg.Type {
		case msgFrame:
			if msg.Frame == nil {
				h.reply(conn, captureMessage{Type: msgError, Error: "frame message without frame"})
				continue
			}
			n, err := session.Add(*msg.Frame)
			if err != nil {
				h.reply(conn, captureMessage{Type: msgError, Error: err.Error(), Frames: n})
				continue
			}
			h.reply(conn, captureMessage{Type: msgAck, Frames: n})

		case msgFinish:
			sc, err := session.Finish(r.Context())
			if err != nil {
				status := err.Error()
				if !errors.Is(err, app.ErrNoFrames) {
					h.logger.Errorw("capture failed", "error", err)
				}
				h.reply(conn, captureMessage{Type: msgError, Error: status})
				return
			}
			h.reply(conn, captureMessage{Type: msgResult, Scan: sc})
			closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scan complete")
			if err := conn.WriteMessage(websocket.CloseMessage, closing); err != nil {
				h.logger.Debugw("websocket close failed", "error", err)
			}
			return

		default:
			h.reply(conn, captureMessage{Type: msgError, Error: "unknown message type " + msg.Type})
		}
	}
}

func (h *CaptureHandler) reply(conn *websocket.Conn, msg captureMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debugw("websocket write failed", "error", err)
	}
}
