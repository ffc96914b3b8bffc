package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore_CreateAndUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != "s1" || len(sess.History) != 0 {
		t.Fatalf("unexpected fresh session: %+v", sess)
	}

	err = store.Update(ctx, "s1", func(s *Session) error {
		s.AppendTurn("hello", "hi there")
		s.Slots.Doctor = "Dr. Patel"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = store.Update(ctx, "s1", func(s *Session) error {
		if len(s.History) != 1 || s.History[0].User != "hello" {
			t.Errorf("history = %+v, want the recorded turn", s.History)
		}
		if s.Slots.Doctor != "Dr. Patel" {
			t.Errorf("doctor slot = %q, want Dr. Patel", s.Slots.Doctor)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMemoryStore_UnknownID(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(context.Background(), "ghost", func(s *Session) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_CreateResets(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Update(ctx, "s1", func(s *Session) error {
		s.Slots.Type = TypeNew
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	err := store.Update(ctx, "s1", func(s *Session) error {
		if s.Slots.Type != "" {
			t.Errorf("type slot = %q after re-create, want unset", s.Slots.Type)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// Concurrent turns on one id must not lose history appends.
func TestMemoryStore_ConcurrentUpdatesSameID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "s1", func(s *Session) error {
				s.AppendTurn("u", "r")
				return nil
			})
		}()
	}
	wg.Wait()

	err := store.Update(ctx, "s1", func(s *Session) error {
		if len(s.History) != turns {
			t.Errorf("history length = %d, want %d", len(s.History), turns)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, nil)
	ctx := context.Background()

	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	err = store.Update(ctx, "s1", func(s *Session) error {
		s.AppendTurn("book with dr. singh", "Great — Dr. Singh. Is this a new appointment or a follow-up?")
		s.Slots.Doctor = "Dr. Singh"
		s.LastUserText = "book with dr. singh"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = store.Update(ctx, "s1", func(s *Session) error {
		if s.Slots.Doctor != "Dr. Singh" {
			t.Errorf("doctor slot = %q, want Dr. Singh", s.Slots.Doctor)
		}
		if s.LastUserText != "book with dr. singh" {
			t.Errorf("last user text = %q", s.LastUserText)
		}
		if len(s.History) != 1 {
			t.Errorf("history length = %d, want 1", len(s.History))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRedisStore_UnknownID(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, nil)

	err = store.Update(context.Background(), "ghost", func(s *Session) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_FnErrorSkipsSave(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, nil)
	ctx := context.Background()

	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err = store.Update(ctx, "s1", func(s *Session) error {
		s.Slots.Doctor = "Dr. Patel"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	err = store.Update(ctx, "s1", func(s *Session) error {
		if s.Slots.Doctor != "" {
			t.Errorf("doctor slot = %q, want unset after failed update", s.Slots.Doctor)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
