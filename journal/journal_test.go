// ABOUTME: Tests for the SQLite attempt journal.
// ABOUTME: Verifies insert, ordering, id generation and outcome counts.
package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := Attempt{ID: NewID(), Generator: "secondme", InputLength: 9, Outcome: "fallback", Reason: "parse", RawPrefix: "not json", Events: 9, Duration: 1500 * time.Millisecond}
	if err := s.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second := Attempt{Generator: "secondme", InputLength: 6, Outcome: "ai", Reason: "none", Events: 8}
	if err := s.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Outcome != "ai" {
		t.Errorf("newest outcome = %q, want ai", got[0].Outcome)
	}
	if got[0].ID == "" {
		t.Error("expected generated id")
	}
	if got[1].RawPrefix != "not json" {
		t.Errorf("RawPrefix = %q", got[1].RawPrefix)
	}
	if got[1].Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got[1].Duration)
	}
}

func TestRecent_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.Record(ctx, Attempt{Outcome: "ai", Reason: "none"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestCountByOutcome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, o := range []string{"ai", "fallback", "fallback"} {
		if err := s.Record(ctx, Attempt{Outcome: o, Reason: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	counts, err := s.CountByOutcome(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["fallback"] != 2 || counts["ai"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestRecord_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := Attempt{ID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", Outcome: "ai"}
	if err := s.Record(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, a); err == nil {
		t.Error("expected error on duplicate id")
	}
}
