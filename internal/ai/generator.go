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
)

type generateRequest struct {
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Count      int    `json:"count"`
}

type generateResponse struct {
	Questions []domain.Question `json:"questions"`
}

// Generator authors new question records via the collaborator. Unlike
// judging, generation failures are surfaced to the operator untouched:
// authoring is not part of the play-time path.
type Generator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewGenerator builds a generator client. A non-positive timeout defaults to 30s.
func NewGenerator(url string, timeout time.Duration, logger *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Generate requests count new questions for the category and tier.
func (g *Generator) Generate(ctx context.Context, category string, tier domain.Tier, count int) ([]domain.Question, error) {
	body, err := json.Marshal(generateRequest{
		Category:   category,
		Difficulty: int(tier),
		Count:      count,
	})
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read generator response: %w", err)
	}
	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode generator response: %w", err)
	}

	for i := range decoded.Questions {
		if decoded.Questions[i].Text == "" || decoded.Questions[i].Answer == "" {
			return nil, fmt.Errorf("generator returned question %d without text or answer", i)
		}
		if decoded.Questions[i].Policy == "" {
			decoded.Questions[i].Policy = domain.MatchExact
		}
	}
	g.logger.Info("generated questions",
		zap.String("category", category),
		zap.Int("tier", int(tier)),
		zap.Int("count", len(decoded.Questions)),
	)
	return decoded.Questions, nil
}
