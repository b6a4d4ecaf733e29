package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"scrollkeeper-service/internal/domain"
)

// QuestPhase enumerates the states of the Scroll Keeper quest progression.
type QuestPhase string

const (
	QuestPhaseSetup        QuestPhase = "team-setup"
	QuestPhasePrologue     QuestPhase = "prologue"
	QuestPhaseHallIntro    QuestPhase = "hall-intro"
	QuestPhaseChallenge    QuestPhase = "challenge"
	QuestPhaseResult       QuestPhase = "result"
	QuestPhaseHallComplete QuestPhase = "hall-complete"
	QuestPhaseVictory      QuestPhase = "victory"
	QuestPhaseDefeat       QuestPhase = "defeat"
)

// QuestConfig tunes the quest mode. Zero values fall back to defaults.
type QuestConfig struct {
	ChallengeSeconds int
	MemoryKeyBase    int
}

func (c QuestConfig) withDefaults() QuestConfig {
	if c.ChallengeSeconds <= 0 {
		c.ChallengeSeconds = 30
	}
	if c.MemoryKeyBase <= 0 {
		c.MemoryKeyBase = 3
	}
	return c
}

// QuestSnapshot is the immutable state view the quest engine exposes.
type QuestSnapshot struct {
	Phase          QuestPhase           `json:"phase"`
	Player         string               `json:"player"`
	SeekerScore    int                  `json:"seekerScore"`
	KeeperScore    int                  `json:"keeperScore"`
	MemoryKeys     int                  `json:"memoryKeys"`
	HallIndex      int                  `json:"hallIndex"`
	Hall           *domain.Hall         `json:"hall,omitempty"`
	ChallengeIndex int                  `json:"challengeIndex"`
	ChallengeCount int                  `json:"challengeCount"`
	Question       *domain.QuestionView `json:"question,omitempty"`
	SecondsLeft    int                  `json:"secondsLeft"`
	HintsUsed      int                  `json:"hintsUsed"`
	CurrentHint    string               `json:"currentHint,omitempty"`
	Checking       bool                 `json:"checking"`
	LastResult     *domain.GradeResult  `json:"lastResult,omitempty"`
	Winner         domain.Winner        `json:"winner,omitempty"`
	Flavor         string               `json:"flavor,omitempty"`
}

// QuestEngine drives the single-player hall crawl: the player races a
// fictive Keeper for points across a fixed ordered sequence of halls.
// Failure never locks a hall; it only feeds the Keeper's tally.
type QuestEngine struct {
	bank   domain.Bank
	grader *Grader
	clock  *Clock
	rng    *rand.Rand
	config QuestConfig
	notify func(QuestSnapshot)

	mu             sync.Mutex
	phase          QuestPhase
	player         string
	seekerScore    int
	keeperScore    int
	memoryKeys     int
	hallIndex      int
	challenges     []domain.Question
	challengeIndex int
	hintsUsed      int
	currentHint    string
	checking       bool
	submitGen      uint64
	secondsLeft    int
	lastResult     *domain.GradeResult
	winner         domain.Winner
	flavor         string
}

// NewQuestEngine builds a quest engine over the bank's halls.
func NewQuestEngine(bank domain.Bank, grader *Grader, ticks TickerFactory, rng *rand.Rand, config QuestConfig, notify func(QuestSnapshot)) *QuestEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(newSeed()))
	}
	return &QuestEngine{
		bank:   bank,
		grader: grader,
		clock:  NewClock(ticks),
		rng:    rng,
		config: config.withDefaults(),
		notify: notify,
		phase:  QuestPhaseSetup,
	}
}

// Start names the seeker and opens the prologue.
func (e *QuestEngine) Start(player string) (QuestSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseSetup {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	if len(e.bank.Halls) == 0 {
		return e.snapshotLocked(), domain.ErrBankNotFound
	}
	e.player = player
	e.phase = QuestPhasePrologue
	return e.emitLocked(), nil
}

// EnterHall loads the current hall's capped challenge list, resets the
// hint counter and arms the countdown for the first challenge.
func (e *QuestEngine) EnterHall() (QuestSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseHallIntro {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	hall := e.bank.Halls[e.hallIndex]
	e.challenges = HallQuestions(e.bank, hall)
	if len(e.challenges) == 0 {
		// An empty hall completes immediately rather than erroring.
		e.phase = QuestPhaseHallComplete
		return e.emitLocked(), nil
	}
	e.challengeIndex = 0
	e.beginChallengeLocked()
	return e.emitLocked(), nil
}

func (e *QuestEngine) beginChallengeLocked() {
	e.hintsUsed = 0
	e.currentHint = ""
	e.lastResult = nil
	e.secondsLeft = e.config.ChallengeSeconds
	e.phase = QuestPhaseChallenge
	e.clock.Start(e.config.ChallengeSeconds, e.onTick, e.onExpire)
}

// Submit grades the active challenge. Halls with a fuzzy policy delegate
// to the external judge asynchronously; the checking flag blocks duplicate
// submissions until the verdict lands.
func (e *QuestEngine) Submit(ctx context.Context, answer string) (QuestSnapshot, error) {
	if strings.TrimSpace(answer) == "" {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.snapshotLocked(), domain.ErrEmptyAnswer
	}
	e.mu.Lock()
	if e.phase != QuestPhaseChallenge {
		defer e.mu.Unlock()
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	if e.checking {
		defer e.mu.Unlock()
		return e.snapshotLocked(), domain.ErrAnswerPending
	}
	e.clock.Cancel()
	question := e.challenges[e.challengeIndex]
	hall := e.bank.Halls[e.hallIndex]

	if hall.Policy == domain.MatchFuzzy {
		e.checking = true
		e.submitGen++
		gen := e.submitGen
		snap := e.emitLocked()
		e.mu.Unlock()
		go func() {
			verdict := e.grader.GradeDelegated(ctx, question, answer)
			e.resolveVerdict(gen, verdict)
		}()
		return snap, nil
	}

	defer e.mu.Unlock()
	e.resolveLocked(e.grader.Grade(question, answer))
	return e.emitLocked(), nil
}

// resolveVerdict lands an asynchronous judge verdict. Verdicts for an
// abandoned question (reset happened meanwhile) are discarded.
func (e *QuestEngine) resolveVerdict(gen uint64, verdict domain.GradeResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.submitGen || !e.checking || e.phase != QuestPhaseChallenge {
		return
	}
	e.checking = false
	e.resolveLocked(verdict)
	e.emitLocked()
}

// resolveLocked applies the two-sided score ledger: every graded challenge
// feeds exactly one of the seeker or Keeper tallies.
func (e *QuestEngine) resolveLocked(result domain.GradeResult) {
	e.lastResult = &result
	if result.Correct {
		e.seekerScore++
		bonus := e.config.MemoryKeyBase - e.hintsUsed
		if bonus < 1 {
			bonus = 1
		}
		e.memoryKeys += bonus
	} else {
		e.keeperScore++
	}
	e.phase = QuestPhaseResult
}

// onExpire hands the Keeper a point, exactly as a wrong answer would.
// The hall stays open regardless.
func (e *QuestEngine) onExpire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseChallenge || e.checking {
		return
	}
	e.secondsLeft = 0
	question := e.challenges[e.challengeIndex]
	e.resolveLocked(domain.GradeResult{
		Correct:  false,
		Feedback: "The Keeper claims this memory. The scroll records: " + question.Answer,
	})
	e.emitLocked()
}

func (e *QuestEngine) onTick(remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseChallenge || e.checking {
		return
	}
	e.secondsLeft = remaining
	e.emitLocked()
}

// UseHint reveals the next hint for the active challenge. Each hint
// reduces the memory-key bonus, floored at one.
func (e *QuestEngine) UseHint() (QuestSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseChallenge || e.checking {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	question := e.challenges[e.challengeIndex]
	e.hintsUsed++
	if len(question.Hints) > 0 {
		idx := e.hintsUsed - 1
		if idx >= len(question.Hints) {
			idx = len(question.Hints) - 1
		}
		e.currentHint = question.Hints[idx]
	}
	return e.emitLocked(), nil
}

// Continue advances out of the prologue or a result screen. Within a hall
// the next challenge loads directly, with no re-intro.
func (e *QuestEngine) Continue() (QuestSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case QuestPhasePrologue:
		e.phase = QuestPhaseHallIntro
	case QuestPhaseResult:
		if e.challengeIndex+1 < len(e.challenges) {
			e.challengeIndex++
			e.beginChallengeLocked()
		} else {
			e.phase = QuestPhaseHallComplete
		}
	default:
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	return e.emitLocked(), nil
}

// NextHall advances the hall index, or settles the quest when no halls
// remain: the seeker must finish strictly ahead of the Keeper to win.
func (e *QuestEngine) NextHall() (QuestSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != QuestPhaseHallComplete {
		return e.snapshotLocked(), domain.ErrInvalidAction
	}
	e.hallIndex++
	if e.hallIndex < len(e.bank.Halls) {
		e.phase = QuestPhaseHallIntro
		return e.emitLocked(), nil
	}
	if e.seekerScore > e.keeperScore {
		e.winner = domain.WinnerSeeker
		e.phase = QuestPhaseVictory
		e.flavor = victoryFlavor(e.seekerScore - e.keeperScore)
	} else {
		e.winner = domain.WinnerKeeper
		e.phase = QuestPhaseDefeat
		e.flavor = "The Keeper seals the archive. The scrolls await a worthier seeker."
	}
	return e.emitLocked(), nil
}

// victoryFlavor picks flavor text by margin; the margin never changes the
// win/lose outcome itself.
func victoryFlavor(margin int) string {
	switch {
	case margin >= 5:
		return "The halls blaze with light. The scrolls name you Master of Memory."
	case margin >= 2:
		return "The Keeper bows. The scrolls are yours to carry."
	default:
		return "By a single memory, the archive opens to you."
	}
}

// Reset abandons the quest and returns to setup. The countdown is
// cancelled and any in-flight judge verdict is discarded.
func (e *QuestEngine) Reset() QuestSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Cancel()
	e.submitGen++
	e.phase = QuestPhaseSetup
	e.player = ""
	e.seekerScore = 0
	e.keeperScore = 0
	e.memoryKeys = 0
	e.hallIndex = 0
	e.challenges = nil
	e.challengeIndex = 0
	e.hintsUsed = 0
	e.currentHint = ""
	e.checking = false
	e.secondsLeft = 0
	e.lastResult = nil
	e.winner = domain.WinnerNone
	e.flavor = ""
	return e.emitLocked()
}

// Snapshot returns the current immutable state view.
func (e *QuestEngine) Snapshot() QuestSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *QuestEngine) snapshotLocked() QuestSnapshot {
	snap := QuestSnapshot{
		Phase:          e.phase,
		Player:         e.player,
		SeekerScore:    e.seekerScore,
		KeeperScore:    e.keeperScore,
		MemoryKeys:     e.memoryKeys,
		HallIndex:      e.hallIndex,
		ChallengeIndex: e.challengeIndex,
		ChallengeCount: len(e.challenges),
		SecondsLeft:    e.secondsLeft,
		HintsUsed:      e.hintsUsed,
		CurrentHint:    e.currentHint,
		Checking:       e.checking,
		Winner:         e.winner,
		Flavor:         e.flavor,
	}
	if e.hallIndex < len(e.bank.Halls) {
		hall := e.bank.Halls[e.hallIndex]
		snap.Hall = &hall
	}
	if e.phase == QuestPhaseChallenge && e.challengeIndex < len(e.challenges) {
		view := e.challenges[e.challengeIndex].View()
		snap.Question = &view
	}
	if e.lastResult != nil {
		result := *e.lastResult
		snap.LastResult = &result
	}
	return snap
}

func (e *QuestEngine) emitLocked() QuestSnapshot {
	snap := e.snapshotLocked()
	if e.notify != nil {
		e.notify(snap)
	}
	return snap
}
