package httpreport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReporterPostsScore(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reporter := NewReporter(server.URL+"/", "tok-123")
	if err := reporter.ReportScore(context.Background(), "alice", "quiz-1", 2); err != nil {
		t.Fatalf("report: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/quizAttempt/updateScore/alice/quiz-1/2" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestReporterSurfacesBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	reporter := NewReporter(server.URL, "")
	if err := reporter.ReportScore(context.Background(), "alice", "quiz-1", 1); err == nil {
		t.Fatalf("expected error on 500")
	}
}
