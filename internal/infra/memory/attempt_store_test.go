package memory

import (
	"testing"

	"quiz-attempt-service/internal/app"
)

func TestAttemptStoreReplaceReturnsDisplaced(t *testing.T) {
	store := NewAttemptStore()

	first := app.NewAttempt("alice", sampleQuiz(), nil)
	if prev := store.Replace("alice/quiz-1", first); prev != nil {
		t.Fatalf("expected no prior attempt, got %v", prev.ID)
	}

	second := app.NewAttempt("alice", sampleQuiz(), nil)
	prev := store.Replace("alice/quiz-1", second)
	if prev != first {
		t.Fatalf("expected the displaced attempt back")
	}

	got, ok := store.Get("alice/quiz-1")
	if !ok || got != second {
		t.Fatalf("expected the replacement to be live")
	}

	removed, ok := store.Remove("alice/quiz-1")
	if !ok || removed != second {
		t.Fatalf("expected removal to return the live attempt")
	}
	if _, ok := store.Get("alice/quiz-1"); ok {
		t.Fatalf("expected attempt gone after removal")
	}
}