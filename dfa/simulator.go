package dfa

import "errors"

// ErrNoStart is returned by Run when the automaton has no start state.
var ErrNoStart = errors.New("dfa has no start state")

// TransitionFunc computes the transition for (from, symbol) when the
// edge cache has no entry yet. Returning nil marks the transition dead.
//
// Called outside any lock, possibly by several simulators at once for
// the same pair; it must be pure with respect to the automaton (create
// or look up states, never mutate existing ones).
type TransitionFunc func(from *State, symbol int32) *State

// Simulator walks input through a DFA, resolving transitions from the
// per-state caches and falling back to a TransitionFunc on misses.
// Every computed transition is cached, so repeated inputs converge to
// pure lock-free lookups.
//
// A Simulator is stateless between calls; one instance is safe for
// concurrent use, as are multiple instances over the same DFA.
type Simulator struct {
	dfa  *DFA
	next TransitionFunc
}

// NewSimulator pairs an automaton with its transition oracle. next may
// be nil for fully built automata: misses then resolve as dead.
func NewSimulator(d *DFA, next TransitionFunc) *Simulator {
	return &Simulator{dfa: d, next: next}
}

// Step resolves one transition: cache hit if present, otherwise the
// oracle's answer, cached for every later pass. A nil state means the
// transition is dead.
func (sim *Simulator) Step(from *State, symbol int32) (*State, error) {
	if to, ok := from.Target(symbol); ok {
		return to, nil
	}

	var to *State
	if sim.next != nil {
		to = sim.next(from, symbol)
	}
	if err := from.AddEdge(symbol, to); err != nil {
		return nil, err
	}
	return to, nil
}

// Run consumes input from the start state with maximal-munch semantics:
// it reports the matchID and length of the longest accepting prefix,
// (NoMatch, 0) when no prefix accepts. An accepting start state matches
// the empty prefix.
func (sim *Simulator) Run(input []int32) (matchID, length int, err error) {
	state := sim.dfa.Start()
	if state == nil {
		return NoMatch, 0, ErrNoStart
	}

	matchID, length = NoMatch, 0
	if state.IsMatch() {
		matchID, length = state.MatchID(), 0
	}

	for i, symbol := range input {
		next, stepErr := sim.Step(state, symbol)
		if stepErr != nil {
			return NoMatch, 0, stepErr
		}
		if next == nil {
			break
		}
		if next.IsMatch() {
			matchID, length = next.MatchID(), i+1
		}
		state = next
	}
	return matchID, length, nil
}
