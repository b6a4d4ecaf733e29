package app

import (
	"context"

	"go.uber.org/zap"

	"scrollkeeper-service/internal/domain"
	"scrollkeeper-service/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis-tracked, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string, create func() *Session) *Session
	Get(sessionID string) (*Session, bool)
	DeleteIfEmpty(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Action is a transition request from the UI boundary. Type selects the
// engine operation; the remaining fields carry its payload.
type Action struct {
	Type   string `json:"type"`
	Answer string `json:"answer,omitempty"`
	TeamA  string `json:"teamA,omitempty"`
	TeamB  string `json:"teamB,omitempty"`
	Player string `json:"player,omitempty"`
}

// Known action types, one per legal phase-advancing operation.
const (
	ActionStart            = "start"
	ActionSpinDifficulty   = "spinDifficulty"
	ActionRevealDifficulty = "revealDifficulty"
	ActionSpinTopic        = "spinTopic"
	ActionRevealTopic      = "revealTopic"
	ActionBeginQuestion    = "beginQuestion"
	ActionAnswer           = "answer"
	ActionContinue         = "continue"
	ActionNextRound        = "nextRound"
	ActionEnterHall        = "enterHall"
	ActionUseHint          = "useHint"
	ActionNextHall         = "nextHall"
	ActionReset            = "reset"
)

// Options tunes service construction. Zero values use real time and
// default quest settings.
type Options struct {
	Ticks       game.TickerFactory
	QuestConfig game.QuestConfig
	Logger      *zap.Logger
}

// GameService contains the core game use cases.
type GameService struct {
	sessions SessionRepository
	banks    BankRepository
	grader   *game.Grader
	opts     Options
}

func NewGameService(store SessionRepository, banks BankRepository, grader *game.Grader, opts Options) *GameService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &GameService{sessions: store, banks: banks, grader: grader, opts: opts}
}

// Join creates or re-enters a session bound to one engine instance.
// Sessions cannot be created against unknown banks.
func (s *GameService) Join(ctx context.Context, sessionID string, mode domain.GameMode, bankID string) (Snapshot, error) {
	if mode != domain.ModeQuiz && mode != domain.ModeQuest {
		return Snapshot{}, domain.ErrUnknownMode
	}
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return Snapshot{}, err
	}

	session := s.sessions.GetOrCreate(sessionID, func() *Session {
		return NewSession(sessionID, mode, bank, s.grader, s.opts)
	})
	session.addClient()
	return session.Snapshot(), nil
}

// Do dispatches a transition action against the session's engine and
// returns the resulting state snapshot.
func (s *GameService) Do(ctx context.Context, sessionID string, action Action) (Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Apply(ctx, action)
}

// Subscribe returns a channel that receives state snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave detaches a client and drops the session once nobody is connected.
// Dropping the session cancels its countdown so no orphaned tick survives.
func (s *GameService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.removeClient()
	if session.IsEmpty() {
		session.shutdown()
		s.sessions.DeleteIfEmpty(sessionID)
	}
}
