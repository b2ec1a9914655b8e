package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/auth"
	"quiz-attempt-service/internal/session"
)

// WSHandler drives one quiz attempt per websocket connection. The client
// identifies the quiz and presents its credential on connect; the attempt
// starts immediately and every state change (including timer ticks and the
// forced submission on expiry) is pushed as a frame.
type WSHandler struct {
	service  *app.AttemptService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AttemptService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type reviewPayload struct {
	On bool `json:"on"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func frameFor(snap session.Snapshot) outboundMessage[any] {
	typ := "state"
	if snap.Result != nil {
		typ = "submitted"
	}
	return outboundMessage[any]{Type: typ, Payload: snap}
}

// ServeWS upgrades the request and wires the connection into the attempt use
// cases. Closing the connection discards the attempt (sessions are not
// resumable), which also stops its countdown.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	token := r.URL.Query().Get("token")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}
	identity, err := auth.FromToken(token)
	if err != nil {
		http.Error(w, "missing or invalid credential", http.StatusUnauthorized)
		return
	}
	userID := identity.UserID

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if _, err := h.service.Start(r.Context(), userID, quizID); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(userID, quizID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// One forwarder per attempt generation; retry cancels the old
	// subscription and spawns a new forwarder for the fresh attempt.
	forward := func(updates <-chan session.Snapshot) {
		forwarders.Add(1)
		go func() {
			defer forwarders.Done()
			for {
				select {
				case snap, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- frameFor(snap):
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	updates, cancel, err := h.service.Subscribe(userID, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	forward(updates)

	sendError := func(msg string) {
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}:
		case <-closeSignals:
		}
	}
	sendSnapshot := func(snap session.Snapshot, err error) {
		if err != nil {
			sendError(err.Error())
			return
		}
		select {
		case send <- frameFor(snap):
		case <-closeSignals:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError("invalid answer payload")
				continue
			}
			sendSnapshot(h.service.SelectAnswer(userID, quizID, payload.QuestionID, payload.AnswerID))
		case "next":
			sendSnapshot(h.service.Next(userID, quizID))
		case "previous":
			sendSnapshot(h.service.Previous(userID, quizID))
		case "jump":
			var payload jumpPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError("invalid jump payload")
				continue
			}
			sendSnapshot(h.service.JumpTo(userID, quizID, payload.Index))
		case "review":
			var payload reviewPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError("invalid review payload")
				continue
			}
			sendSnapshot(h.service.SetReviewing(userID, quizID, payload.On))
		case "submit":
			// The submitted frame reaches the client through the forwarder,
			// same path a timeout takes.
			if _, err := h.service.Submit(userID, quizID, session.CauseManual); err != nil {
				sendError(err.Error())
			}
		case "retry":
			cancel()
			if _, err := h.service.Retry(r.Context(), userID, quizID); err != nil {
				sendError(err.Error())
				continue
			}
			updates, cancel, err = h.service.Subscribe(userID, quizID)
			if err != nil {
				sendError(err.Error())
				continue
			}
			forward(updates)
		default:
			sendError("unsupported message type")
		}
	}

	close(closeSignals)
	cancel()
	forwarders.Wait()
	close(send)
	<-writerDone
}
