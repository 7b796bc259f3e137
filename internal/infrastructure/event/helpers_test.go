package event

import (
	"context"
	"sync"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// stubEvent is a minimal DomainEvent for exercising the bus and outbox plumbing.
type stubEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

func newStubEvent(eventType string, scope shared.Scope) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Contract", uuid.New(), scope),
		Note:            "payload",
	}
}

func randomScope() shared.Scope {
	return shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
}

// recordingHandler captures every event it receives and can be told to fail.
type recordingHandler struct {
	mu    sync.Mutex
	types []string
	seen  []shared.DomainEvent
	err   error
}

func recordingFor(types ...string) *recordingHandler {
	return &recordingHandler{types: types}
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, evt)
	return h.err
}

func (h *recordingHandler) failWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *recordingHandler) events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.seen...)
}
