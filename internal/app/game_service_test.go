package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"scrollkeeper-service/internal/app"
	"scrollkeeper-service/internal/domain"
	"scrollkeeper-service/internal/game"
	"scrollkeeper-service/internal/infra/memory"
)

func testBank() domain.Bank {
	return domain.Bank{
		ID: "test-bank",
		Questions: []domain.Question{
			{ID: "n1", Text: "name one", Answer: "abraham", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Names"},
			{ID: "n2", Text: "name two", Answer: "jacob", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Names"},
		},
		Halls: []domain.Hall{
			{Type: "names", Name: "Hall of Names", Category: "Names", Policy: domain.MatchExact, Limit: 2},
		},
	}
}

func newService() *app.GameService {
	store := memory.NewSessionStore()
	loader := memory.NewStaticBankLoader(map[string]domain.Bank{"test-bank": testBank()})
	banks := memory.NewBankRepository(loader, time.Minute)
	return app.NewGameService(store, banks, game.NewGrader(nil, nil), app.Options{})
}

func TestJoinRejectsUnknownMode(t *testing.T) {
	svc := newService()
	if _, err := svc.Join(context.Background(), "s1", domain.GameMode("trivia"), "test-bank"); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected unknown mode error, got %v", err)
	}
}

func TestJoinRejectsUnknownBank(t *testing.T) {
	svc := newService()
	if _, err := svc.Join(context.Background(), "s1", domain.ModeQuiz, "no-such-bank"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

func TestDoRejectsUnknownSession(t *testing.T) {
	svc := newService()
	_, err := svc.Do(context.Background(), "ghost", app.Action{Type: app.ActionStart})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestQuestSessionFlow(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	snap, err := svc.Join(ctx, "s1", domain.ModeQuest, "test-bank")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if snap.Mode != domain.ModeQuest || snap.Quest == nil || snap.Quest.Phase != game.QuestPhaseSetup {
		t.Fatalf("expected a fresh quest session, got %+v", snap)
	}

	steps := []struct {
		action app.Action
		phase  game.QuestPhase
	}{
		{app.Action{Type: app.ActionStart, Player: "Miriam"}, game.QuestPhasePrologue},
		{app.Action{Type: app.ActionContinue}, game.QuestPhaseHallIntro},
		{app.Action{Type: app.ActionEnterHall}, game.QuestPhaseChallenge},
		{app.Action{Type: app.ActionAnswer, Answer: "abraham"}, game.QuestPhaseResult},
		{app.Action{Type: app.ActionContinue}, game.QuestPhaseChallenge},
		{app.Action{Type: app.ActionAnswer, Answer: "wrong"}, game.QuestPhaseResult},
		{app.Action{Type: app.ActionContinue}, game.QuestPhaseHallComplete},
		{app.Action{Type: app.ActionNextHall}, game.QuestPhaseDefeat},
	}
	for i, step := range steps {
		snap, err = svc.Do(ctx, "s1", step.action)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, step.action.Type, err)
		}
		if snap.Quest == nil || snap.Quest.Phase != step.phase {
			t.Fatalf("step %d (%s): expected phase %s, got %+v", i, step.action.Type, step.phase, snap.Quest)
		}
	}
	if snap.Quest.SeekerScore != 1 || snap.Quest.KeeperScore != 1 {
		t.Fatalf("expected a 1-1 tie (Keeper keeps ties), got %+v", snap.Quest)
	}
}

func TestQuizSessionStart(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Join(ctx, "s1", domain.ModeQuiz, "test-bank"); err != nil {
		t.Fatalf("join: %v", err)
	}
	snap, err := svc.Do(ctx, "s1", app.Action{Type: app.ActionStart, TeamA: "Alpha", TeamB: "Beta"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.Quiz == nil || snap.Quiz.Phase != game.QuizPhaseRoundStart || snap.Quiz.TeamA != "Alpha" {
		t.Fatalf("expected round start for Alpha/Beta, got %+v", snap.Quiz)
	}

	// Quiz sessions never accept quest actions.
	if _, err := svc.Do(ctx, "s1", app.Action{Type: app.ActionEnterHall}); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected invalid action, got %v", err)
	}
}

func TestSubscribeDeliversUpdates(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Join(ctx, "s1", domain.ModeQuest, "test-bank"); err != nil {
		t.Fatalf("join: %v", err)
	}
	ch, cancel, err := svc.Subscribe(ctx, "s1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// The current snapshot arrives immediately on subscription.
	first := recvSnapshot(t, ch)
	if first.Quest == nil || first.Quest.Phase != game.QuestPhaseSetup {
		t.Fatalf("expected the initial setup snapshot, got %+v", first)
	}

	if _, err := svc.Do(ctx, "s1", app.Action{Type: app.ActionStart, Player: "Miriam"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	update := recvSnapshot(t, ch)
	if update.Quest == nil || update.Quest.Phase != game.QuestPhasePrologue {
		t.Fatalf("expected the prologue broadcast, got %+v", update)
	}
}

func TestLeaveDropsEmptySession(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Join(ctx, "s1", domain.ModeQuest, "test-bank"); err != nil {
		t.Fatalf("join: %v", err)
	}
	svc.Leave(ctx, "s1")

	if _, err := svc.Do(ctx, "s1", app.Action{Type: app.ActionStart, Player: "Miriam"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected the session to be gone, got %v", err)
	}

	// A second client keeps the session alive past the first leave.
	if _, err := svc.Join(ctx, "s2", domain.ModeQuest, "test-bank"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.Join(ctx, "s2", domain.ModeQuest, "test-bank"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	svc.Leave(ctx, "s2")
	if _, err := svc.Do(ctx, "s2", app.Action{Type: app.ActionStart, Player: "Ruth"}); err != nil {
		t.Fatalf("expected the session to survive one leave, got %v", err)
	}
}

func recvSnapshot(t *testing.T, ch <-chan app.Snapshot) app.Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return app.Snapshot{}
	}
}
