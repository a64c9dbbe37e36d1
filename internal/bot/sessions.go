package bot

import "sync"

// State is the position of a user inside a multi-step conversation.
type State int

const (
	// Registration wizard, in order.
	StateAwaitingName State = iota + 1
	StateAwaitingPhone
	StateAwaitingID
	StateAwaitingPaymentAccount
	// Field-update wizard: one value expected, field recorded in the session.
	StateAwaitingFieldValue
	// Invest flow: a receipt image expected, monto recorded in the session.
	StateAwaitingReceipt
	// Invest flow: a received receipt is being verified and persisted. The
	// session stays occupied so a second submission cannot slip past the
	// eligibility gate before the pending row lands.
	StateProcessingReceipt
)

// Session is the per-user "waiting for next input" context. It is consumed
// (cleared) when the awaited input arrives, and abandoned when the user
// issues any command or menu action instead.
type Session struct {
	State  State
	Field  string
	Amount int64
}

// Sessions keys conversation state strictly per user so concurrent
// conversations never observe each other's state.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[int64]Session)}
}

// Get returns the user's session, if any
func (s *Sessions) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Set replaces the user's session
func (s *Sessions) Set(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Take returns and clears the user's session in one step
func (s *Sessions) Take(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	return sess, ok
}

// Clear abandons the user's session
func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
