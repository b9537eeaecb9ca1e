// Package lexicon provides keyword-set scanning on two cooperating
// engines built from the same keyword list:
//
//   - a byte-trie DFA whose edges live in edge caches, answering
//     anchored questions: longest keyword at a position, exact
//     membership, maximal-munch tokenization;
//   - an Aho-Corasick automaton answering unanchored ones: is any
//     keyword present, where is the leftmost occurrence.
//
// The trie is built eagerly, so every scan is pure lock-free cache
// reads; a Lexicon is safe for concurrent use.
package lexicon

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/edgecache"
	"github.com/coregx/edgecache/dfa"
)

// Token is one keyword occurrence reported by Scan.
type Token struct {
	ID    int // index into Keywords()
	Start int // byte offset of the first keyword byte
	End   int // byte offset past the last keyword byte
}

// Lexicon is a compiled keyword set.
type Lexicon struct {
	keywords []string
	d        *dfa.DFA
	root     *dfa.State
	auto     *ahocorasick.Automaton
}

// Compile builds a Lexicon from the given keywords. Duplicates are
// dropped and the compiled set is sorted, so keyword ids (Token.ID,
// PrefixMatch id) index into Keywords(), not into the argument slice.
// Empty keywords and empty sets are rejected.
func Compile(keywords []string) (*Lexicon, error) {
	if len(keywords) == 0 {
		return nil, errors.New("lexicon: empty keyword set")
	}

	set := make([]string, len(keywords))
	copy(set, keywords)
	sort.Strings(set)
	set = dedupe(set)
	if set[0] == "" {
		return nil, errors.New("lexicon: empty keyword")
	}

	// Sorted construction guarantees a keyword's final trie state is
	// created by that keyword, never earlier: prefixes sort first.
	d := dfa.NewDFA()
	root := d.NewState(dfa.NoMatch)
	d.SetStart(root)
	for id, kw := range set {
		if err := addKeyword(d, root, kw, id); err != nil {
			return nil, fmt.Errorf("lexicon: compiling %q: %w", kw, err)
		}
	}

	builder := ahocorasick.NewBuilder()
	for _, kw := range set {
		builder.AddPattern([]byte(kw))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("lexicon: building automaton: %w", err)
	}

	return &Lexicon{
		keywords: set,
		d:        d,
		root:     root,
		auto:     auto,
	}, nil
}

// MustCompile is Compile panicking on error.
// Convenient for package variables and tests.
func MustCompile(keywords []string) *Lexicon {
	lx, err := Compile(keywords)
	if err != nil {
		panic(err)
	}
	return lx
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:1]
	for _, kw := range sorted[1:] {
		if kw != out[len(out)-1] {
			out = append(out, kw)
		}
	}
	return out
}

// addKeyword extends the trie with one keyword, sharing existing prefix
// states and marking the final state with the keyword id.
func addKeyword(d *dfa.DFA, root *dfa.State, kw string, id int) error {
	cur := root
	for i := 0; i < len(kw); i++ {
		symbol := int32(kw[i])
		next, ok := cur.Target(symbol)
		if !ok || next == nil {
			matchID := dfa.NoMatch
			if i == len(kw)-1 {
				matchID = id
			}
			next = d.NewState(matchID)
			if err := cur.AddEdge(symbol, next); err != nil {
				return err
			}
		}
		cur = next
	}
	return nil
}

// Keywords returns the compiled keyword set: deduplicated, sorted.
// Callers must not modify the returned slice.
func (lx *Lexicon) Keywords() []string {
	return lx.keywords
}

// Len returns the number of compiled keywords.
func (lx *Lexicon) Len() int {
	return len(lx.keywords)
}

// PrefixMatch reports the longest keyword that prefixes text.
// The walk is anchored at text[0] and reads only cached edges.
func (lx *Lexicon) PrefixMatch(text []byte) (id, n int, ok bool) {
	state := lx.root
	id = dfa.NoMatch
	for i := 0; i < len(text); i++ {
		next, cached := state.Target(int32(text[i]))
		if !cached || next == nil {
			break
		}
		if next.IsMatch() {
			id, n, ok = next.MatchID(), i+1, true
		}
		state = next
	}
	return id, n, ok
}

// Contains reports whether word is exactly one of the keywords.
func (lx *Lexicon) Contains(word []byte) bool {
	_, n, ok := lx.PrefixMatch(word)
	return ok && n == len(word)
}

// IsMatch reports whether any keyword occurs anywhere in text.
func (lx *Lexicon) IsMatch(text []byte) bool {
	return lx.auto.IsMatch(text)
}

// Find reports the leftmost keyword occurrence in text.
func (lx *Lexicon) Find(text []byte) (start, end int, ok bool) {
	return lx.FindAt(text, 0)
}

// FindAt reports the leftmost keyword occurrence at or after position at.
func (lx *Lexicon) FindAt(text []byte, at int) (start, end int, ok bool) {
	if at >= len(text) {
		return 0, 0, false
	}
	m := lx.auto.Find(text, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// Scan tokenizes text with maximal munch: at each position the longest
// keyword wins and scanning resumes past it, so reported tokens never
// overlap. Bytes covered by no keyword are skipped.
func (lx *Lexicon) Scan(text []byte) []Token {
	var out []Token
	for at := 0; at < len(text); {
		id, n, ok := lx.PrefixMatch(text[at:])
		if !ok {
			at++
			continue
		}
		out = append(out, Token{ID: id, Start: at, End: at + n})
		at += n
	}
	return out
}

// EdgeStats sums the edge cache counters across the trie's states.
func (lx *Lexicon) EdgeStats() edgecache.Stats {
	return lx.d.EdgeStats()
}
