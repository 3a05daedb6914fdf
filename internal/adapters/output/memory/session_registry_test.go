package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"localledger/internal/domain"
)

func TestStartAndGet(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)

	session, err := registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.UserID != "u1" || session.Flow != domain.FlowProductAddManual {
		t.Errorf("Unexpected session: %+v", session)
	}

	got := registry.Get("u1")
	if got == nil || got.Flow != domain.FlowProductAddManual {
		t.Errorf("Expected stored session back, got %+v", got)
	}
}

func TestStartRejectsLiveSession(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)

	if _, err := registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{}); err != nil {
		t.Fatalf("First start failed: %v", err)
	}

	_, err := registry.Start("u1", domain.FlowCreditorPay, domain.StepCollectingLines, domain.CreditorScratch{})
	if !errors.Is(err, domain.ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive, got %v", err)
	}

	// The original session must be untouched
	if got := registry.Get("u1"); got == nil || got.Flow != domain.FlowProductAddManual {
		t.Errorf("Expected original session preserved, got %+v", got)
	}
}

func TestStartEvictsExpiredSession(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)

	session, _ := registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})
	session.LastActivityAt = time.Now().Add(-2 * time.Minute)

	replaced, err := registry.Start("u1", domain.FlowCreditorPay, domain.StepCollectingLines, domain.CreditorScratch{})
	if err != nil {
		t.Fatalf("Expected expired session replaced, got %v", err)
	}
	if replaced.Flow != domain.FlowCreditorPay {
		t.Errorf("Expected new flow, got %s", replaced.Flow)
	}
}

func TestGetEvictsExpiredSession(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)

	session, _ := registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})
	session.LastActivityAt = time.Now().Add(-2 * time.Minute)

	if got := registry.Get("u1"); got != nil {
		t.Errorf("Expected expired session evicted at lookup, got %+v", got)
	}
}

func TestGetTouchesLiveSession(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)

	session, _ := registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})
	stale := time.Now().Add(-10 * time.Minute)
	session.LastActivityAt = stale

	got := registry.Get("u1")
	if got == nil {
		t.Fatal("Expected live session")
	}
	if !got.LastActivityAt.After(stale) {
		t.Error("Expected activity timestamp refreshed by Get")
	}
}

func TestUpdateMutatesExistingSession(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)
	registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})

	err := registry.Update("u1", func(s *domain.Session) {
		s.Step = domain.StepAwaitingAnswer
		s.Flow = domain.FlowConfirmation
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got := registry.Get("u1")
	if got.Step != domain.StepAwaitingAnswer || got.Flow != domain.FlowConfirmation {
		t.Errorf("Expected mutation applied, got %+v", got)
	}
}

func TestUpdateWithoutSessionFails(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)

	err := registry.Update("ghost", func(s *domain.Session) {})
	if !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)
	registry.Start("u1", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})

	registry.End("u1")
	registry.End("u1")

	if registry.Get("u1") != nil {
		t.Error("Expected session gone after End")
	}
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	registry := NewSessionRegistry(time.Minute)

	live, _ := registry.Start("live", domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{})
	_ = live
	for i := 0; i < 3; i++ {
		session, _ := registry.Start(fmt.Sprintf("stale-%d", i), domain.FlowCreditorPay, domain.StepCollectingLines, domain.CreditorScratch{})
		session.LastActivityAt = time.Now().Add(-2 * time.Minute)
	}

	evicted := registry.Sweep(time.Now())
	if evicted != 3 {
		t.Errorf("Expected 3 evictions, got %d", evicted)
	}
	if registry.Get("live") == nil {
		t.Error("Expected live session to survive the sweep")
	}
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	registry := NewSessionRegistry(15 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			if _, err := registry.Start(userID, domain.FlowProductAddManual, domain.StepCollectingLines, domain.ProductBatch{}); err != nil {
				t.Errorf("Start failed for %s: %v", userID, err)
				return
			}
			if registry.Get(userID) == nil {
				t.Errorf("Expected session for %s", userID)
			}
			registry.End(userID)
		}(i)
	}
	wg.Wait()
}
