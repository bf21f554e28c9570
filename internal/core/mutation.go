package core

import (
	"sync"

	"catalogcore/pkg/domain"
)

// MutationKind identifies the intent of one mutation instance.
type MutationKind string

// Supported mutation kinds.
const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
	MutationToggle MutationKind = "toggle"
)

// MutationState tracks a mutation instance through its lifecycle. Committed
// and RolledBack are terminal.
type MutationState string

// Mutation lifecycle states.
const (
	StateIdle           MutationState = "idle"
	StateApplying       MutationState = "applying"
	StateAwaitingRemote MutationState = "awaiting_remote"
	StateCommitted      MutationState = "committed"
	StateRolledBack     MutationState = "rolled_back"
)

// mutation is the transient record of one in-flight mutation attempt. It is
// discarded on settlement and never persisted.
type mutation struct {
	kind  MutationKind
	state MutationState
}

// mutationGate serializes mutations per entity id: while one mutation for an
// id awaits its remote call, a second attempt on the same id is rejected.
// Mutations on distinct ids proceed independently.
type mutationGate struct {
	mu       sync.Mutex
	inflight map[string]*mutation
}

func newMutationGate() *mutationGate {
	return &mutationGate{inflight: make(map[string]*mutation)}
}

// begin registers a mutation for id, rejecting overlap on the same id.
// Creates have no entity id yet and pass an empty id, which is never gated.
func (g *mutationGate) begin(id string, kind MutationKind) (*mutation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id != "" {
		if _, busy := g.inflight[id]; busy {
			return nil, domain.ErrMutationInFlight
		}
	}
	m := &mutation{kind: kind, state: StateApplying}
	if id != "" {
		g.inflight[id] = m
	}
	return m, nil
}

// await marks the mutation as waiting for its remote call.
func (g *mutationGate) await(m *mutation) {
	g.mu.Lock()
	m.state = StateAwaitingRemote
	g.mu.Unlock()
}

// settle records the terminal state and releases the id.
func (g *mutationGate) settle(id string, m *mutation, committed bool) {
	g.mu.Lock()
	if committed {
		m.state = StateCommitted
	} else {
		m.state = StateRolledBack
	}
	if id != "" {
		delete(g.inflight, id)
	}
	g.mu.Unlock()
}

// pending reports whether a mutation is currently registered for id.
func (g *mutationGate) pending(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[id]
	return busy
}
