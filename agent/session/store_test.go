package session

import (
	"context"
	"testing"
	"time"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

func TestGetOrCreateCreatesOnFirstReference(t *testing.T) {
	s := New(Config{Window: 3})
	ctx := context.Background()

	sess, err := s.GetOrCreate(ctx, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID != "abc" {
		t.Fatalf("expected id abc, got %s", sess.ID)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 tracked session, got %d", s.Len())
	}
}

func TestAppendTurnWindowing(t *testing.T) {
	s := New(Config{Window: 3})
	ctx := context.Background()
	if _, err := s.GetOrCreate(ctx, "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		turn := domain.Turn{UserText: "q", AssistantText: "a", At: time.Now()}
		if err := s.AppendTurn(ctx, "sess", turn); err != nil {
			t.Fatalf("append turn %d: %v", i, err)
		}
	}

	snap, err := s.Snapshot(ctx, "sess")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Turns) != 3 {
		t.Fatalf("expected window of 3, got %d", len(snap.Turns))
	}
}

func TestWindowZeroDegeneratesToStateless(t *testing.T) {
	s := New(Config{Window: 0})
	ctx := context.Background()
	if _, err := s.GetOrCreate(ctx, "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AppendTurn(ctx, "sess", domain.Turn{UserText: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := s.Snapshot(ctx, "sess")
	if len(snap.Turns) != 0 {
		t.Fatalf("expected no turns retained with W=0, got %d", len(snap.Turns))
	}
}

func TestUpdateMetadataOverwrites(t *testing.T) {
	s := New(Config{})
	ctx := context.Background()
	if _, err := s.GetOrCreate(ctx, "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateMetadata(ctx, "sess", domain.MetaLastPrimaryAction, "search_products"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := s.Snapshot(ctx, "sess")
	if snap.Metadata[domain.MetaLastPrimaryAction] != "search_products" {
		t.Fatalf("expected metadata to be set, got %v", snap.Metadata)
	}
}

func TestEvictExpiredRemovesIdleSessions(t *testing.T) {
	s := New(Config{TTL: time.Millisecond})
	ctx := context.Background()
	if _, err := s.GetOrCreate(ctx, "sess"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	evicted := s.EvictExpired(time.Now())
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if s.Len() != 0 {
		t.Fatalf("expected store to be empty, got %d", s.Len())
	}
}

func TestSoftCapEvictsLeastRecentlyUsed(t *testing.T) {
	s := New(Config{SoftCap: 2})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("expected soft cap of 2 to be enforced, got %d", s.Len())
	}
	if _, err := s.Snapshot(ctx, "a"); err == nil {
		t.Fatalf("expected the least-recently-used session 'a' to be evicted")
	}
}

func TestSnapshotOfUnknownSessionErrors(t *testing.T) {
	s := New(Config{})
	if _, err := s.Snapshot(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}
