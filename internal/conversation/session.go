package conversation

import (
	"strings"
	"sync"
	"time"

	"homewise/internal/domain"
	"homewise/internal/extract"
)

// Session holds one user's in-flight diagnosis conversation. State is memory
// resident only: a refresh discards the transcript, and only an explicitly
// saved diagnosis outlives it. Writes come from a single UI flow; the mutex
// guards against the busy-flag race, not concurrent writers.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	messages  []domain.Message
	pending   strings.Builder
	busy      bool
	diagnosis *domain.Diagnosis
}

func NewSession(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now()}
}

// AppendUserTurn records the outgoing message and marks the session busy until
// the assistant turn finishes. A second send while busy is rejected.
func (s *Session) AppendUserTurn(text, imageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrSessionBusy
	}
	s.busy = true
	s.pending.Reset()
	s.messages = append(s.messages, domain.Message{
		Role:      domain.RoleUser,
		Text:      strings.TrimSpace(text),
		ImageRef:  imageRef,
		Timestamp: time.Now(),
	})
	return nil
}

// AppendAssistantChunk accumulates streamed chunks for the turn in progress.
func (s *Session) AppendAssistantChunk(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.WriteString(chunk)
}

// FinalizeAssistantTurn closes the streamed turn: the accumulated text is run
// through the extractor exactly once, the cleaned text becomes the assistant
// message, and any extracted diagnosis replaces the previous one.
func (s *Session) FinalizeAssistantTurn() extract.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := extract.Parse(s.pending.String())
	s.pending.Reset()
	s.busy = false

	s.messages = append(s.messages, domain.Message{
		Role:      domain.RoleAssistant,
		Text:      res.CleanedText,
		Timestamp: time.Now(),
	})
	if res.Diagnosis != nil {
		s.diagnosis = res.Diagnosis
	}
	return res
}

// AbortAssistantTurn drops the partial turn after a failed call so the user can
// send again. The user message stays in the transcript.
func (s *Session) AbortAssistantTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Reset()
	s.busy = false
}

// History returns a copy of the transcript so far.
func (s *Session) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Diagnosis returns the most recently extracted diagnosis, or nil while the
// conversation is still going.
func (s *Session) Diagnosis() *domain.Diagnosis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diagnosis == nil {
		return nil
	}
	d := *s.diagnosis
	return &d
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
