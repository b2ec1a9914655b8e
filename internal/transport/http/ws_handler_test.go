package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
)

func TestWebSocketAttemptFlow(t *testing.T) {
	store := memory.NewAttemptStore()
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	service := app.NewAttemptService(store, quizzes, nil)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=quiz-1&token=" + signToken(t, "alice")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial state frame arrives on subscribe.
	first := awaitFrame(t, conn, func(f frame) bool { return f.Type == "state" })
	if first.Payload["state"] != "IN_PROGRESS" {
		t.Fatalf("expected IN_PROGRESS, got %v", first.Payload["state"])
	}

	writeMessage(t, conn, map[string]any{
		"type":    "answer",
		"payload": map[string]any{"questionId": "q1", "answerId": "a2"},
	})
	answered := awaitFrame(t, conn, func(f frame) bool {
		if f.Type != "state" {
			return false
		}
		answers, _ := f.Payload["answers"].(map[string]any)
		return answers["q1"] == "a2"
	})
	if answered.Payload["state"] != "IN_PROGRESS" {
		t.Fatalf("answer must not end the attempt: %v", answered.Payload)
	}

	writeMessage(t, conn, map[string]any{"type": "submit"})
	submitted := awaitFrame(t, conn, func(f frame) bool { return f.Type == "submitted" })
	result, _ := submitted.Payload["result"].(map[string]any)
	if result == nil || result["score"] != float64(1) || result["cause"] != "MANUAL" {
		t.Fatalf("unexpected result payload %v", submitted.Payload)
	}

	writeMessage(t, conn, map[string]any{"type": "retry"})
	fresh := awaitFrame(t, conn, func(f frame) bool {
		if f.Type != "state" {
			return false
		}
		answers, _ := f.Payload["answers"].(map[string]any)
		return f.Payload["state"] == "IN_PROGRESS" && len(answers) == 0
	})
	if fresh.Payload["result"] != nil {
		t.Fatalf("retry must not carry the old result: %v", fresh.Payload)
	}
}

func TestWebSocketRejectsMissingCredential(t *testing.T) {
	service := app.NewAttemptService(memory.NewAttemptStore(),
		memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute), nil)
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(service).ServeWS))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "?quizId=quiz-1"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

type frame struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func awaitFrame(t *testing.T, conn *websocket.Conn, match func(frame) bool) frame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var f frame
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if match(f) {
			return f
		}
	}
	t.Fatalf("no matching frame before deadline")
	return frame{}
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:               "quiz-1",
			Title:            "General Knowledge",
			Category:         "General",
			TimeLimitMinutes: 1,
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Answers: []domain.Answer{
						{ID: "a1", Text: "3"},
						{ID: "a2", Text: "4", Correct: true},
						{ID: "a3", Text: "5"},
					},
				},
				{
					ID:   "q2",
					Text: "Capital of France?",
					Answers: []domain.Answer{
						{ID: "a1", Text: "Paris", Correct: true},
						{ID: "a2", Text: "Lyon"},
					},
				},
			},
		},
	}
}
