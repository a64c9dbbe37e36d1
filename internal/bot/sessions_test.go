package bot

import (
	"sync"
	"testing"
)

func TestSessionsPerUserIsolation(t *testing.T) {
	s := NewSessions()

	s.Set(1, Session{State: StateAwaitingName})
	s.Set(2, Session{State: StateAwaitingReceipt, Amount: 100000})

	sess, ok := s.Get(1)
	if !ok || sess.State != StateAwaitingName {
		t.Errorf("user 1: expected StateAwaitingName, got %+v ok=%v", sess, ok)
	}
	sess, ok = s.Get(2)
	if !ok || sess.State != StateAwaitingReceipt || sess.Amount != 100000 {
		t.Errorf("user 2: expected StateAwaitingReceipt, got %+v ok=%v", sess, ok)
	}

	s.Clear(1)
	if _, ok := s.Get(1); ok {
		t.Error("user 1 session should be gone after Clear")
	}
	if _, ok := s.Get(2); !ok {
		t.Error("clearing user 1 must not touch user 2")
	}
}

func TestSessionsTakeConsumes(t *testing.T) {
	s := NewSessions()

	s.Set(7, Session{State: StateAwaitingFieldValue, Field: "nequi"})

	sess, ok := s.Take(7)
	if !ok || sess.Field != "nequi" {
		t.Fatalf("expected recorded session, got %+v ok=%v", sess, ok)
	}
	if _, ok := s.Take(7); ok {
		t.Error("second Take should find nothing")
	}
}

func TestSessionsSetReplaces(t *testing.T) {
	s := NewSessions()

	s.Set(3, Session{State: StateAwaitingName})
	s.Set(3, Session{State: StateAwaitingReceipt, Amount: 300000})

	sess, _ := s.Get(3)
	if sess.State != StateAwaitingReceipt || sess.Amount != 300000 {
		t.Errorf("expected latest session to win, got %+v", sess)
	}
}

func TestSessionsConcurrentAccess(t *testing.T) {
	s := NewSessions()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Set(id, Session{State: StateAwaitingPhone})
			s.Get(id)
			s.Take(id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		if _, ok := s.Get(i); ok {
			t.Errorf("user %d session should have been consumed", i)
		}
	}
}
