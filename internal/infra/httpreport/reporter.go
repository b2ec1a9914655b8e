package httpreport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Reporter posts final scores to the quiz backend's attempt endpoint:
// POST {base}/quizAttempt/updateScore/{user}/{quiz}/{score}. The engine treats
// the call as fire-and-forget; the reporter still returns the error so the
// caller can log it.
type Reporter struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewReporter(baseURL, token string) *Reporter {
	return &Reporter{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Reporter) ReportScore(ctx context.Context, userID, quizID string, score int) error {
	endpoint := fmt.Sprintf("%s/quizAttempt/updateScore/%s/%s/%d",
		r.baseURL, url.PathEscape(userID), url.PathEscape(quizID), score)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build score request: %w", err)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post score: backend returned %s", resp.Status)
	}
	return nil
}
