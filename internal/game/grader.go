package game

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"scrollkeeper-service/internal/domain"
)

// JudgeRequest carries everything an external judge needs for a verdict.
type JudgeRequest struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	UserAnswer    string   `json:"userAnswer"`
	Keywords      []string `json:"acceptableKeywords,omitempty"`
}

// Judge is an external grading collaborator for free-form fuzzy answers.
// Implementations may be slow or fail; callers must never depend on success.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (domain.GradeResult, error)
}

// Grader evaluates submitted answers against a question's expected answer.
// Grading is a pure function of its inputs except for the delegated path.
type Grader struct {
	judge  Judge
	logger *zap.Logger
}

// NewGrader builds a grader. judge may be nil, in which case delegated
// grading degrades to the local policies.
func NewGrader(judge Judge, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grader{judge: judge, logger: logger}
}

// Normalize lowercases and trims an answer for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Grade applies the question's match policy locally.
func (g *Grader) Grade(q domain.Question, answer string) domain.GradeResult {
	switch q.Policy {
	case domain.MatchFuzzy:
		return gradeFuzzy(q, answer)
	default:
		return gradeExact(q, answer)
	}
}

// GradeDelegated asks the external judge for a verdict. On any collaborator
// failure it falls back to exact-match-after-normalization so the caller
// always receives a usable verdict.
func (g *Grader) GradeDelegated(ctx context.Context, q domain.Question, answer string) domain.GradeResult {
	if g.judge == nil {
		return g.Grade(q, answer)
	}
	verdict, err := g.judge.Judge(ctx, JudgeRequest{
		Question:      q.Text,
		CorrectAnswer: q.Answer,
		UserAnswer:    answer,
		Keywords:      q.Keywords,
	})
	if err != nil {
		g.logger.Warn("judge unavailable, falling back to exact match",
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		if Normalize(answer) == Normalize(q.Answer) {
			return domain.GradeResult{Correct: true}
		}
		return domain.GradeResult{Correct: false, Feedback: "The scroll records: " + q.Answer}
	}
	return verdict
}

// gradeExact accepts normalized equality, or any acceptable keyword present
// in the submission. The keyword path is a deliberate leniency.
func gradeExact(q domain.Question, answer string) domain.GradeResult {
	norm := Normalize(answer)
	if norm == Normalize(q.Answer) {
		return domain.GradeResult{Correct: true}
	}
	for _, kw := range q.Keywords {
		if kw != "" && strings.Contains(norm, Normalize(kw)) {
			return domain.GradeResult{Correct: true}
		}
	}
	return domain.GradeResult{Correct: false, Feedback: "The scroll records: " + q.Answer}
}

// gradeFuzzy requires min(2, len(keywords)) keyword hits: a single keyword
// suffices only when it is the only one the question carries.
func gradeFuzzy(q domain.Question, answer string) domain.GradeResult {
	if len(q.Keywords) == 0 {
		return gradeExact(q, answer)
	}
	need := 2
	if len(q.Keywords) < need {
		need = len(q.Keywords)
	}
	norm := Normalize(answer)
	hits := 0
	for _, kw := range q.Keywords {
		if kw != "" && strings.Contains(norm, Normalize(kw)) {
			hits++
		}
	}
	if hits >= need {
		return domain.GradeResult{Correct: true}
	}
	return domain.GradeResult{Correct: false, Feedback: "The scroll records: " + q.Answer}
}
