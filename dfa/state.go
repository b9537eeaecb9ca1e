package dfa

import (
	"fmt"

	"github.com/coregx/edgecache"
)

// StateID uniquely identifies a state within its automaton.
// Ids are dense: the n-th created state has id n-1.
type StateID uint32

// NoMatch is the matchID of non-accepting states.
const NoMatch = -1

// State is one automaton state plus its cached outgoing edges.
//
// The edge cache maps symbol → target state. A cached nil target is
// meaningful: it records that the transition was computed and found
// dead, so the computation is never repeated.
type State struct {
	id      StateID
	matchID int
	edges   *edgecache.Cache[*State]
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// IsMatch returns true if this is an accepting state
func (s *State) IsMatch() bool {
	return s.matchID != NoMatch
}

// MatchID returns the accept tag, NoMatch for plain states.
// Front ends use it for token types or pattern indexes.
func (s *State) MatchID() int {
	return s.matchID
}

// AddEdge caches the transition from s over symbol. A nil target is
// legal and caches the transition as dead. Overwrites any existing edge
// for the symbol.
//
// Returns edgecache.ErrIllegalKey for the reserved sentinel symbol and
// edgecache.ErrCapacityLimit if the state's probing table cannot grow.
func (s *State) AddEdge(symbol int32, to *State) error {
	return s.edges.AddEdge(symbol, to)
}

// Target returns the cached transition for symbol.
// (nil, false) means not computed yet; (nil, true) means computed and
// dead. Lock-free.
func (s *State) Target(symbol int32) (*State, bool) {
	return s.edges.GetState(symbol)
}

// EdgeCount returns the number of cached edges, dead ones included.
func (s *State) EdgeCount() int {
	return s.edges.Size()
}

// Symbols returns the cached symbols in no particular order.
func (s *State) Symbols() []int32 {
	return s.edges.Keys()
}

// Targets returns the cached target states, index-aligned with Symbols
// for the same snapshot.
func (s *State) Targets() []*State {
	return s.edges.Values()
}

// Edges returns symbols and targets from a single cache snapshot,
// index-aligned.
func (s *State) Edges() ([]int32, []*State) {
	return s.edges.Entries()
}

// EdgeStats returns the state's edge cache counters.
func (s *State) EdgeStats() edgecache.Stats {
	return s.edges.Stats()
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	return fmt.Sprintf("State(id=%d, matchID=%d, edges=%d, phase=%v)",
		s.id, s.matchID, s.edges.Size(), s.edges.Phase())
}
