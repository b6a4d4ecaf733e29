package app

import (
	"context"
	"sync"

	"scrollkeeper-service/internal/domain"
	"scrollkeeper-service/internal/game"
)

// Snapshot is the read-only state view published to clients. Exactly one
// of Quiz or Quest is set, matching the session's mode.
type Snapshot struct {
	SessionID string              `json:"sessionId"`
	Mode      domain.GameMode     `json:"mode"`
	Quiz      *game.QuizSnapshot  `json:"quiz,omitempty"`
	Quest     *game.QuestSnapshot `json:"quest,omitempty"`
}

// Session binds one engine instance to its subscribers. All mutation goes
// through the engine's transition methods; the session only fans out the
// snapshots the engine emits.
type Session struct {
	id   string
	mode domain.GameMode

	quiz  *game.QuizEngine
	quest *game.QuestEngine

	mu          sync.Mutex
	clients     int
	subscribers map[chan Snapshot]struct{}
}

// NewSession builds a session and its engine for the requested mode.
func NewSession(id string, mode domain.GameMode, bank domain.Bank, grader *game.Grader, opts Options) *Session {
	s := &Session{
		id:          id,
		mode:        mode,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	switch mode {
	case domain.ModeQuest:
		s.quest = game.NewQuestEngine(bank, grader, opts.Ticks, nil, opts.QuestConfig, func(snap game.QuestSnapshot) {
			s.broadcast(Snapshot{SessionID: id, Mode: mode, Quest: &snap})
		})
	default:
		s.quiz = game.NewQuizEngine(bank, grader, opts.Ticks, nil, func(snap game.QuizSnapshot) {
			s.broadcast(Snapshot{SessionID: id, Mode: mode, Quiz: &snap})
		})
	}
	return s
}

// Apply runs one transition action against the engine.
func (s *Session) Apply(ctx context.Context, action Action) (Snapshot, error) {
	switch s.mode {
	case domain.ModeQuest:
		return s.applyQuest(ctx, action)
	default:
		return s.applyQuiz(action)
	}
}

func (s *Session) applyQuiz(action Action) (Snapshot, error) {
	var (
		snap game.QuizSnapshot
		err  error
	)
	switch action.Type {
	case ActionStart:
		snap, err = s.quiz.Start(action.TeamA, action.TeamB)
	case ActionSpinDifficulty:
		snap, err = s.quiz.SpinDifficulty()
	case ActionRevealDifficulty:
		snap, err = s.quiz.RevealDifficulty()
	case ActionSpinTopic:
		snap, err = s.quiz.SpinTopic()
	case ActionRevealTopic:
		snap, err = s.quiz.RevealTopic()
	case ActionBeginQuestion:
		snap, err = s.quiz.BeginQuestion()
	case ActionAnswer:
		snap, err = s.quiz.Submit(action.Answer)
	case ActionContinue:
		snap, err = s.quiz.Continue()
	case ActionNextRound:
		snap, err = s.quiz.NextRound()
	case ActionReset:
		snap = s.quiz.Reset()
	default:
		return s.Snapshot(), domain.ErrInvalidAction
	}
	return Snapshot{SessionID: s.id, Mode: s.mode, Quiz: &snap}, err
}

func (s *Session) applyQuest(ctx context.Context, action Action) (Snapshot, error) {
	var (
		snap game.QuestSnapshot
		err  error
	)
	switch action.Type {
	case ActionStart:
		snap, err = s.quest.Start(action.Player)
	case ActionEnterHall:
		snap, err = s.quest.EnterHall()
	case ActionAnswer:
		snap, err = s.quest.Submit(ctx, action.Answer)
	case ActionUseHint:
		snap, err = s.quest.UseHint()
	case ActionContinue:
		snap, err = s.quest.Continue()
	case ActionNextHall:
		snap, err = s.quest.NextHall()
	case ActionReset:
		snap = s.quest.Reset()
	default:
		return s.Snapshot(), domain.ErrInvalidAction
	}
	return Snapshot{SessionID: s.id, Mode: s.mode, Quest: &snap}, err
}

// Snapshot returns the current state view without mutating anything.
func (s *Session) Snapshot() Snapshot {
	switch s.mode {
	case domain.ModeQuest:
		snap := s.quest.Snapshot()
		return Snapshot{SessionID: s.id, Mode: s.mode, Quest: &snap}
	default:
		snap := s.quiz.Snapshot()
		return Snapshot{SessionID: s.id, Mode: s.mode, Quiz: &snap}
	}
}

func (s *Session) addClient() {
	s.mu.Lock()
	s.clients++
	s.mu.Unlock()
}

func (s *Session) removeClient() {
	s.mu.Lock()
	if s.clients > 0 {
		s.clients--
	}
	s.mu.Unlock()
}

// IsEmpty reports whether no client is attached to the session.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients == 0
}

// shutdown cancels the engine's timer by forcing a reset, so no tick or
// late verdict fires after the session is discarded.
func (s *Session) shutdown() {
	switch s.mode {
	case domain.ModeQuest:
		s.quest.Reset()
	default:
		s.quiz.Reset()
	}
}

func (s *Session) subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	ch <- s.Snapshot()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcast(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest update so a slow client never blocks the engine.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
