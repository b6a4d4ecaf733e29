// Package ai talks to the external judging/authoring collaborator over
// plain JSON HTTP. The collaborator is treated as untrusted: slow calls
// are bounded by a timeout and malformed responses surface as errors for
// the caller to degrade on.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"scrollkeeper-service/internal/domain"
	"scrollkeeper-service/internal/game"
)

type judgeResponse struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// Judge grades free-form answers against a remote endpoint. It satisfies
// game.Judge.
type Judge struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewJudge builds a judge client. A non-positive timeout defaults to 10s.
func NewJudge(url string, timeout time.Duration, logger *zap.Logger) *Judge {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Judge posts the grading request and decodes the verdict.
func (j *Judge) Judge(ctx context.Context, req game.JudgeRequest) (domain.GradeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("encode judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, j.url, bytes.NewReader(body))
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(httpReq)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("call judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GradeResult{}, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("read judge response: %w", err)
	}
	var decoded judgeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.GradeResult{}, fmt.Errorf("decode judge response: %w", err)
	}

	return domain.GradeResult{Correct: decoded.IsCorrect, Feedback: decoded.Feedback}, nil
}
