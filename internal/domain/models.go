package domain

// MatchPolicy selects how a submitted answer is compared against a question.
type MatchPolicy string

const (
	// MatchExact requires normalized equality (with a keyword fallback).
	MatchExact MatchPolicy = "exact"
	// MatchFuzzy requires enough acceptable keywords to appear in the answer.
	MatchFuzzy MatchPolicy = "fuzzy"
)

// Tier is the ordinal difficulty of a question, 1 (easiest) through 3.
type Tier int

const (
	TierEasy   Tier = 1
	TierMedium Tier = 2
	TierHard   Tier = 3
)

// TierConfig derives round length and per-question time from a tier.
type TierConfig struct {
	Questions int `json:"questions"`
	Seconds   int `json:"seconds"`
}

// TierTable is the fixed difficulty table used by the quiz mode.
var TierTable = map[Tier]TierConfig{
	TierEasy:   {Questions: 3, Seconds: 15},
	TierMedium: {Questions: 4, Seconds: 20},
	TierHard:   {Questions: 5, Seconds: 25},
}

// WinningScore is the score at which a quiz side wins outright.
const WinningScore = 10

// Question is an immutable trivia record. Keywords are only consulted by
// the fuzzy policy and by the exact policy's leniency path.
type Question struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Answer    string      `json:"answer"`
	Policy    MatchPolicy `json:"policy"`
	Keywords  []string    `json:"keywords,omitempty"`
	Tier      Tier        `json:"tier"`
	Category  string      `json:"category"`
	Reference string      `json:"reference,omitempty"`
	Hints     []string    `json:"hints,omitempty"`
}

// GradeResult is the verdict for one submitted answer.
type GradeResult struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback,omitempty"`
}

// Hall is a themed grouping of quest challenges. Limit caps how many of
// the hall's questions are played; zero means all of them.
type Hall struct {
	Type     string      `json:"type"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Policy   MatchPolicy `json:"policy"`
	Limit    int         `json:"limit,omitempty"`
}

// Bank is a read-only question bank partitioned by category/tier plus the
// ordered hall sequence for the quest mode.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	Halls     []Hall     `json:"halls,omitempty"`
}

// Winner designates which side ended a game victorious.
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerTeamA  Winner = "teamA"
	WinnerTeamB  Winner = "teamB"
	WinnerSeeker Winner = "seeker"
	WinnerKeeper Winner = "keeper"
)

// GameMode distinguishes the two progression engine variants.
type GameMode string

const (
	// ModeQuiz is the two-team round-based quiz.
	ModeQuiz GameMode = "quiz"
	// ModeQuest is the single-team hall-crawl quest.
	ModeQuest GameMode = "quest"
)

// QuestionView is the client-safe projection of a question: the answer
// and grading keywords are stripped before a snapshot leaves the engine.
type QuestionView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Tier      Tier   `json:"tier"`
	Reference string `json:"reference,omitempty"`
}

// View strips grading material from a question.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		Tier:      q.Tier,
		Reference: q.Reference,
	}
}
