package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepository(t *testing.T) (SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisRepository(rdb), mr
}

func TestRedisRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantSecure}, time.Minute)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	s, err := repo.GetSession(ctx, "abc")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if s.Variant != VariantSecure {
		t.Errorf("expected variant %v, got %v", VariantSecure, s.Variant)
	}
	if s.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", s.Attempts)
	}
	if s.ExpiresAt.IsZero() {
		t.Error("expected expiry to be set")
	}
}

func TestRedisRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisRepository_Expiry(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantSimple}, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := repo.GetSession(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
}

func TestRedisRepository_RecordFailure(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantValidator}, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	for want := 1; want < MaxAttempts; want++ {
		got, err := repo.RecordFailure(ctx, "abc")
		if err != nil {
			t.Fatalf("RecordFailure() error = %v", err)
		}
		if got != want {
			t.Errorf("expected %d attempts, got %d", want, got)
		}
		s, err := repo.GetSession(ctx, "abc")
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if s.Attempts != want {
			t.Errorf("stored attempts = %d, want %d", s.Attempts, want)
		}
	}

	if ttl := mr.TTL(attemptsKey("abc")); ttl <= 0 {
		t.Errorf("expected attempts counter to carry a TTL, got %v", ttl)
	}

	got, err := repo.RecordFailure(ctx, "abc")
	if err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}
	if got != MaxAttempts {
		t.Errorf("expected %d attempts, got %d", MaxAttempts, got)
	}
	if mr.Exists(sessionKey("abc")) || mr.Exists(attemptsKey("abc")) {
		t.Error("expected session and counter to be deleted after lockout")
	}

	if _, err := repo.RecordFailure(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after lockout, got %v", err)
	}
}

func TestRedisRepository_CreateResetsAttempts(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	s := Session{ID: "abc", Variant: VariantSimple}
	if err := repo.CreateSession(ctx, s, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.RecordFailure(ctx, "abc"); err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}
	if err := repo.CreateSession(ctx, s, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	got, err := repo.GetSession(ctx, "abc")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Attempts != 0 {
		t.Errorf("expected attempts reset to 0, got %d", got.Attempts)
	}
}

func TestRedisRepository_Succeed(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantSecure}, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.RecordFailure(ctx, "abc"); err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}

	attempts, err := repo.Succeed(ctx, "abc")
	if err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 prior attempt, got %d", attempts)
	}
	if mr.Exists(sessionKey("abc")) || mr.Exists(attemptsKey("abc")) {
		t.Error("expected session and counter to be deleted")
	}

	if _, err := repo.Succeed(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on reuse, got %v", err)
	}
}

func TestRedisRepository_SucceedAfterLockout(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantSimple}, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	for i := 0; i < MaxAttempts; i++ {
		if _, err := repo.RecordFailure(ctx, "abc"); err != nil {
			t.Fatalf("RecordFailure() error = %v", err)
		}
	}

	if _, err := repo.Succeed(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after lockout, got %v", err)
	}

	// a counter at the budget refuses success even if the session key survived
	mr.HSet(sessionKey("def"), "variant", "2")
	mr.Set(attemptsKey("def"), "3")
	if _, err := repo.Succeed(ctx, "def"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound with exhausted counter, got %v", err)
	}
}

func TestRedisRepository_RedisErrors(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateSession(ctx, Session{ID: "abc", Variant: VariantSimple}, time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	mr.SetError("server unavailable")
	defer mr.SetError("")

	if _, err := repo.RecordFailure(ctx, "abc"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected redis error from RecordFailure, got %v", err)
	}
	if _, err := repo.Succeed(ctx, "abc"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected redis error from Succeed, got %v", err)
	}
}
