package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scrollkeeper-service/internal/domain"
)

func TestGeneratorReturnsQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Category   string `json:"category"`
			Difficulty int    `json:"difficulty"`
			Count      int    `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Category != "Prophets" || req.Difficulty != 2 || req.Count != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Write([]byte(`{"questions":[
			{"id":"g1","text":"q1","answer":"a1","tier":2,"category":"Prophets"},
			{"id":"g2","text":"q2","answer":"a2","policy":"fuzzy","tier":2,"category":"Prophets"}
		]}`))
	}))
	defer srv.Close()

	gen := NewGenerator(srv.URL, time.Second, nil)
	questions, err := gen.Generate(context.Background(), "Prophets", domain.TierMedium, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	// A missing policy defaults to exact; an explicit one is kept.
	if questions[0].Policy != domain.MatchExact || questions[1].Policy != domain.MatchFuzzy {
		t.Fatalf("unexpected policies: %q %q", questions[0].Policy, questions[1].Policy)
	}
}

func TestGeneratorRejectsIncompleteQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions":[{"id":"g1","text":"","answer":"a1"}]}`))
	}))
	defer srv.Close()

	gen := NewGenerator(srv.URL, time.Second, nil)
	if _, err := gen.Generate(context.Background(), "Torah", domain.TierEasy, 1); err == nil {
		t.Fatal("expected an error for a question without text")
	}
}

func TestGeneratorRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	gen := NewGenerator(srv.URL, time.Second, nil)
	if _, err := gen.Generate(context.Background(), "Torah", domain.TierEasy, 1); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}
