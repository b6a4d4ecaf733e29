package game

import (
	"math/rand"
	"strings"
	"sync"

	"scrollkeeper-service/internal/domain"
)

// QuizPhase enumerates the states of the two-team quiz progression.
type QuizPhase string

const (
	QuizPhaseSetup              QuizPhase = "team-setup"
	QuizPhaseRoundStart         QuizPhase = "round-start"
	QuizPhaseSpinningDifficulty QuizPhase = "spinning-difficulty"
	QuizPhaseShowDifficulty     QuizPhase = "show-difficulty"
	QuizPhaseSpinningTopic      QuizPhase = "spinning-topic"
	QuizPhaseShowTopic          QuizPhase = "show-topic"
	QuizPhaseQuestion           QuizPhase = "question"
	QuizPhaseChecking           QuizPhase = "checking"
	QuizPhaseResultCorrect      QuizPhase = "result-correct"
	QuizPhaseResultIncorrect    QuizPhase = "result-incorrect"
	QuizPhaseRoundComplete      QuizPhase = "round-complete"
	QuizPhaseVictory            QuizPhase = "victory"
)

// QuizSnapshot is the immutable state view the quiz engine exposes. The
// active question is projected without its answer or keywords.
type QuizSnapshot struct {
	Phase          QuizPhase            `json:"phase"`
	TeamA          string               `json:"teamA"`
	TeamB          string               `json:"teamB"`
	ScoreA         int                  `json:"scoreA"`
	ScoreB         int                  `json:"scoreB"`
	Round          int                  `json:"round"`
	Turn           domain.Winner        `json:"turn"`
	Tier           domain.Tier          `json:"tier,omitempty"`
	Config         domain.TierConfig    `json:"config,omitempty"`
	Category       string               `json:"category,omitempty"`
	Question       *domain.QuestionView `json:"question,omitempty"`
	SecondsLeft    int                  `json:"secondsLeft"`
	CorrectInRound int                  `json:"correctInRound"`
	LastResult     *domain.GradeResult  `json:"lastResult,omitempty"`
	Winner         domain.Winner        `json:"winner,omitempty"`
}

// QuizEngine drives the two-team quiz: rounds are won by a streak of
// correct answers at a spun difficulty, and any wrong answer forfeits the
// round to the opposing side. First side to reach the winning score wins.
type QuizEngine struct {
	selector *Selector
	grader   *Grader
	clock    *Clock
	rng      *rand.Rand
	notify   func(QuizSnapshot)

	mu             sync.Mutex
	phase          QuizPhase
	teamA, teamB   string
	scoreA, scoreB int
	round          int
	turn           domain.Winner
	tier           domain.Tier
	config         domain.TierConfig
	category       string
	question       *domain.Question
	used           map[string]struct{}
	secondsLeft    int
	correctInRound int
	roundWon       bool
	lastResult     *domain.GradeResult
	winner         domain.Winner
}

// NewQuizEngine builds a quiz engine over the bank. rng and ticks are
// injectable for deterministic tests; notify, when set, receives a snapshot
// after every state change (including clock ticks).
func NewQuizEngine(bank domain.Bank, grader *Grader, ticks TickerFactory, rng *rand.Rand, notify func(QuizSnapshot)) *QuizEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(newSeed()))
	}
	return &QuizEngine{
		selector: NewSelector(bank.Questions, rng),
		grader:   grader,
		clock:    NewClock(ticks),
		rng:      rng,
		notify:   notify,
		phase:    QuizPhaseSetup,
		used:     make(map[string]struct{}),
	}
}

// Start registers both teams and opens the first round.
func (e *QuizEngine) Start(teamA, teamB string) (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseSetup {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.teamA, e.teamB = teamA, teamB
	e.round = 1
	e.turn = domain.WinnerTeamA
	e.phase = QuizPhaseRoundStart
	return e.emitLocked(), nil
}

// SpinDifficulty picks a tier uniformly at random and derives the round's
// question count and per-question time budget from the tier table.
func (e *QuizEngine) SpinDifficulty() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseRoundStart {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.tier = domain.Tier(1 + e.rng.Intn(3))
	e.config = domain.TierTable[e.tier]
	e.phase = QuizPhaseSpinningDifficulty
	return e.emitLocked(), nil
}

// RevealDifficulty settles the difficulty spin.
func (e *QuizEngine) RevealDifficulty() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseSpinningDifficulty {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.phase = QuizPhaseShowDifficulty
	return e.emitLocked(), nil
}

// SpinTopic picks a category that still has unused questions at the spun
// tier. An exhausted tier force-ends the round instead of erroring.
func (e *QuizEngine) SpinTopic() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseShowDifficulty {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.spinTopicLocked()
	return e.emitLocked(), nil
}

func (e *QuizEngine) spinTopicLocked() {
	category := e.selector.PickCategory(e.tier, e.used)
	if category == "" {
		// Every category at this tier is used up; the round ends early.
		e.roundWon = false
		e.phase = QuizPhaseRoundComplete
		return
	}
	e.category = category
	e.phase = QuizPhaseSpinningTopic
}

// RevealTopic settles the topic spin.
func (e *QuizEngine) RevealTopic() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseSpinningTopic {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.phase = QuizPhaseShowTopic
	return e.emitLocked(), nil
}

// BeginQuestion draws a question for the spun tier and topic and arms the
// countdown. If the topic ran dry it retries every other category at the
// tier before force-ending the round.
func (e *QuizEngine) BeginQuestion() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseShowTopic {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	q, ok := e.selector.Next(e.tier, e.category, e.used)
	if !ok {
		for _, alt := range e.selector.Categories(e.tier, e.used) {
			if alt == e.category {
				continue
			}
			if q, ok = e.selector.Next(e.tier, alt, e.used); ok {
				e.category = alt
				break
			}
		}
	}
	if !ok {
		e.roundWon = false
		e.phase = QuizPhaseRoundComplete
		return e.emitLocked(), nil
	}
	e.used[q.ID] = struct{}{}
	e.question = &q
	e.secondsLeft = e.config.Seconds
	e.phase = QuizPhaseQuestion
	e.clock.Start(e.config.Seconds, e.onTick, e.onExpire)
	return e.emitLocked(), nil
}

// Submit grades an answer for the active question. The countdown is
// disarmed first so a stale expiry cannot fire into the result.
func (e *QuizEngine) Submit(answer string) (QuizSnapshot, error) {
	if strings.TrimSpace(answer) == "" {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.snapshotLocked(), domain.ErrEmptyAnswer
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseQuestion || e.question == nil {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.clock.Cancel()
	e.phase = QuizPhaseChecking
	e.emitLocked()
	result := e.grader.Grade(*e.question, answer)
	e.resolveLocked(result)
	return e.emitLocked(), nil
}

// onExpire treats a timeout exactly like a submitted wrong answer.
func (e *QuizEngine) onExpire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseQuestion || e.question == nil {
		return
	}
	e.secondsLeft = 0
	answer := "Time ran out."
	if e.question.Answer != "" {
		answer = "Time ran out. The scroll records: " + e.question.Answer
	}
	e.resolveLocked(domain.GradeResult{Correct: false, Feedback: answer})
	e.emitLocked()
}

func (e *QuizEngine) onTick(remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseQuestion {
		return
	}
	e.secondsLeft = remaining
	e.emitLocked()
}

// resolveLocked applies scoring for a graded answer. A wrong answer
// forfeits the whole round to the opponent; a completed streak banks one
// point for the answering side. Reaching the winning score pre-empts the
// normal round cycle.
func (e *QuizEngine) resolveLocked(result domain.GradeResult) {
	e.lastResult = &result
	e.question = nil

	if !result.Correct {
		opponent := domain.WinnerTeamB
		if e.turn == domain.WinnerTeamB {
			opponent = domain.WinnerTeamA
		}
		e.addScoreLocked(opponent, 1)
		if e.winner != domain.WinnerNone {
			e.phase = QuizPhaseVictory
			return
		}
		e.phase = QuizPhaseResultIncorrect
		return
	}

	e.correctInRound++
	if e.correctInRound >= e.config.Questions {
		e.roundWon = true
		e.addScoreLocked(e.turn, 1)
		if e.winner != domain.WinnerNone {
			e.phase = QuizPhaseVictory
			return
		}
	}
	e.phase = QuizPhaseResultCorrect
}

func (e *QuizEngine) addScoreLocked(side domain.Winner, points int) {
	switch side {
	case domain.WinnerTeamA:
		e.scoreA += points
		if e.scoreA >= domain.WinningScore {
			e.winner = domain.WinnerTeamA
		}
	case domain.WinnerTeamB:
		e.scoreB += points
		if e.scoreB >= domain.WinningScore {
			e.winner = domain.WinnerTeamB
		}
	}
}

// Continue advances from a result screen: a wrong answer opens the next
// round, a completed streak closes the round, and an unfinished streak
// spins the next topic within the same round.
func (e *QuizEngine) Continue() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case QuizPhaseResultIncorrect:
		e.nextRoundLocked()
	case QuizPhaseResultCorrect:
		if e.roundWon {
			e.phase = QuizPhaseRoundComplete
		} else {
			e.spinTopicLocked()
		}
	default:
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	return e.emitLocked(), nil
}

// NextRound is the operator trigger out of a completed round.
func (e *QuizEngine) NextRound() (QuizSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuizPhaseRoundComplete {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.nextRoundLocked()
	return e.emitLocked(), nil
}

func (e *QuizEngine) nextRoundLocked() {
	e.round++
	if e.turn == domain.WinnerTeamA {
		e.turn = domain.WinnerTeamB
	} else {
		e.turn = domain.WinnerTeamA
	}
	e.correctInRound = 0
	e.roundWon = false
	e.category = ""
	e.tier = 0
	e.config = domain.TierConfig{}
	e.lastResult = nil
	e.phase = QuizPhaseRoundStart
}

// Reset abandons the game and returns to team setup. Any armed countdown
// is cancelled so no stale tick fires into the new state.
func (e *QuizEngine) Reset() QuizSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Cancel()
	e.phase = QuizPhaseSetup
	e.teamA, e.teamB = "", ""
	e.scoreA, e.scoreB = 0, 0
	e.round = 0
	e.turn = domain.WinnerNone
	e.tier = 0
	e.config = domain.TierConfig{}
	e.category = ""
	e.question = nil
	e.used = make(map[string]struct{})
	e.secondsLeft = 0
	e.correctInRound = 0
	e.roundWon = false
	e.lastResult = nil
	e.winner = domain.WinnerNone
	return e.emitLocked()
}

// Snapshot returns the current immutable state view.
func (e *QuizEngine) Snapshot() QuizSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *QuizEngine) snapshotLocked() QuizSnapshot {
	snap := QuizSnapshot{
		Phase:          e.phase,
		TeamA:          e.teamA,
		TeamB:          e.teamB,
		ScoreA:         e.scoreA,
		ScoreB:         e.scoreB,
		Round:          e.round,
		Turn:           e.turn,
		Tier:           e.tier,
		Config:         e.config,
		Category:       e.category,
		SecondsLeft:    e.secondsLeft,
		CorrectInRound: e.correctInRound,
		Winner:         e.winner,
	}
	if e.question != nil {
		view := e.question.View()
		snap.Question = &view
	}
	if e.lastResult != nil {
		result := *e.lastResult
		snap.LastResult = &result
	}
	return snap
}

func (e *QuizEngine) emitLocked() QuizSnapshot {
	snap := e.snapshotLocked()
	if e.notify != nil {
		e.notify(snap)
	}
	return snap
}
