// Package dfa provides the automaton layer on top of the edge cache: a
// state registry, per-state cached transitions, and a simulator that
// computes transitions on demand.
//
// The division of labor:
//
//   - The DFA owns its states. States are created through the DFA and
//     live as long as it does; edge caches hold non-owning references
//     between them.
//   - Each State carries an edgecache.Cache of outgoing edges, so
//     concurrent simulations over a shared automaton read transitions
//     lock-free and write newly computed ones safely.
//   - The Simulator walks input symbols through cached edges and asks a
//     TransitionFunc only on cache misses, caching whatever it answers,
//     dead transitions included.
//
// Symbols are int32 values chosen by the front end: byte values, token
// types, or code points. edgecache.EmptyKey is reserved and must not
// appear in input.
package dfa

import (
	"sync"

	"github.com/coregx/edgecache"
	"github.com/coregx/edgecache/internal/conv"
)

// DFA is a set of states under construction or in use by simulators.
//
// Thread safety: state creation and start-state access are serialized by
// an internal mutex. Simulation itself does not go through the DFA; it
// reads and writes per-state edge caches, which are safe for concurrent
// use on their own.
type DFA struct {
	mu     sync.Mutex
	cfg    edgecache.Config
	states []*State
	start  *State
}

// NewDFA returns an empty automaton whose states use the default edge
// cache configuration.
func NewDFA() *DFA {
	return &DFA{cfg: edgecache.DefaultConfig()}
}

// NewDFAWithConfig returns an empty automaton whose states size their
// edge caches per cfg.
func NewDFAWithConfig(cfg edgecache.Config) (*DFA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DFA{cfg: cfg}, nil
}

// NewState creates, registers and returns a fresh state. Ids are dense
// and assigned in creation order. matchID tags accepting states; pass
// NoMatch for plain states.
func (d *DFA) NewState(matchID int) *State {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &State{
		id:      StateID(conv.IntToUint32(len(d.states))),
		matchID: matchID,
		edges:   edgecache.MustNew[*State](d.cfg),
	}
	d.states = append(d.states, s)
	return s
}

// SetStart marks s as the simulation entry point.
func (d *DFA) SetStart(s *State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.start = s
}

// Start returns the simulation entry point, nil if none was set.
func (d *DFA) Start() *State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.start
}

// NumStates returns the number of registered states.
func (d *DFA) NumStates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.states)
}

// State returns the registered state with the given id.
func (d *DFA) State(id StateID) (*State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(id) >= len(d.states) {
		return nil, false
	}
	return d.states[id], true
}

// EdgeStats sums the edge cache counters across all states. A cheap
// health check: a high Grows or a nonzero Migrations count means the
// symbol distribution outgrew the compact tables.
func (d *DFA) EdgeStats() edgecache.Stats {
	d.mu.Lock()
	states := d.states
	d.mu.Unlock()

	var total edgecache.Stats
	for _, s := range states {
		st := s.edges.Stats()
		total.Inserts += st.Inserts
		total.Updates += st.Updates
		total.Grows += st.Grows
		total.Migrations += st.Migrations
	}
	return total
}
