package lexicon

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/coregx/edgecache/dfa"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
	}{
		{"empty set", nil},
		{"only empty keyword", []string{""}},
		{"empty keyword among real ones", []string{"go", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.keywords); err == nil {
				t.Errorf("Compile(%q) = nil error, want rejection", tt.keywords)
			}
		})
	}
}

func TestCompileSortsAndDedupes(t *testing.T) {
	lx := MustCompile([]string{"go", "func", "go", "return", "func"})

	want := []string{"func", "go", "return"}
	got := lx.Keywords()
	if len(got) != len(want) {
		t.Fatalf("Keywords() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := lx.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestMustCompilePanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile(nil) did not panic")
		}
	}()
	MustCompile(nil)
}

func TestPrefixMatch(t *testing.T) {
	// Sorted ids: go=0, gosub=1, goto=2, if=3.
	lx := MustCompile([]string{"go", "gosub", "goto", "if"})

	tests := []struct {
		name   string
		text   string
		wantID int
		wantN  int
		wantOK bool
	}{
		{"longest keyword wins", "gosub123", 1, 5, true},
		{"short keyword", "go!", 0, 2, true},
		{"partial longer keyword falls back", "got", 0, 2, true},
		{"exact longer keyword", "goto", 2, 4, true},
		{"keyword then identifier tail", "ifx", 3, 2, true},
		{"no keyword", "x", dfa.NoMatch, 0, false},
		{"empty text", "", dfa.NoMatch, 0, false},
		{"not anchored at zero", " go", dfa.NoMatch, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, n, ok := lx.PrefixMatch([]byte(tt.text))
			if id != tt.wantID || n != tt.wantN || ok != tt.wantOK {
				t.Errorf("PrefixMatch(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.text, id, n, ok, tt.wantID, tt.wantN, tt.wantOK)
			}
		})
	}
}

func TestContains(t *testing.T) {
	lx := MustCompile([]string{"go", "gosub", "if"})

	tests := []struct {
		word string
		want bool
	}{
		{"go", true},
		{"gosub", true},
		{"if", true},
		{"gos", false},
		{"gosubx", false},
		{"g", false},
		{"", false},
		{"ifx", false},
	}

	for _, tt := range tests {
		if got := lx.Contains([]byte(tt.word)); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestIsMatch(t *testing.T) {
	lx := MustCompile([]string{"for", "while"})

	tests := []struct {
		text string
		want bool
	}{
		{"x while for", true},
		{"formula", true},
		{"whil", false},
		{"", false},
		{"zzz", false},
	}

	for _, tt := range tests {
		if got := lx.IsMatch([]byte(tt.text)); got != tt.want {
			t.Errorf("IsMatch(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	lx := MustCompile([]string{"for", "while"})
	text := []byte("x while for")

	start, end, ok := lx.Find(text)
	if !ok || start != 2 || end != 7 {
		t.Errorf("Find() = (%d, %d, %v), want (2, 7, true)", start, end, ok)
	}

	start, end, ok = lx.FindAt(text, 3)
	if !ok || start != 8 || end != 11 {
		t.Errorf("FindAt(3) = (%d, %d, %v), want (8, 11, true)", start, end, ok)
	}

	if _, _, ok := lx.FindAt(text, len(text)); ok {
		t.Error("FindAt(len) = found, want none")
	}
	if _, _, ok := lx.Find([]byte("nothing here")); ok {
		t.Error("Find() on keyword-free text = found, want none")
	}
}

func TestScanMaximalMunch(t *testing.T) {
	// Sorted ids: func=0, go=1, gosub=2, if=3, return=4.
	lx := MustCompile([]string{"func", "go", "gosub", "if", "return"})

	text := []byte("func gosub! if2 return")
	want := []Token{
		{ID: 0, Start: 0, End: 4},
		{ID: 2, Start: 5, End: 10},
		{ID: 3, Start: 12, End: 14},
		{ID: 4, Start: 16, End: 22},
	}

	got := lx.Scan(text)
	if len(got) != len(want) {
		t.Fatalf("Scan() returned %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
		word := string(text[got[i].Start:got[i].End])
		if word != lx.Keywords()[got[i].ID] {
			t.Errorf("token %d covers %q, id names %q", i, word, lx.Keywords()[got[i].ID])
		}
	}
}

func TestScanResumesAfterToken(t *testing.T) {
	lx := MustCompile([]string{"go"})

	got := lx.Scan([]byte("gogo"))
	want := []Token{
		{ID: 0, Start: 0, End: 2},
		{ID: 0, Start: 2, End: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("Scan(\"gogo\") returned %d tokens, want 2", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScanNoHits(t *testing.T) {
	lx := MustCompile([]string{"go"})

	if got := lx.Scan(nil); len(got) != 0 {
		t.Errorf("Scan(nil) = %+v, want no tokens", got)
	}
	if got := lx.Scan([]byte("xyz")); len(got) != 0 {
		t.Errorf("Scan(\"xyz\") = %+v, want no tokens", got)
	}
}

func TestEnginesAgreeOnPresence(t *testing.T) {
	// The trie scan and the Aho-Corasick search are built from the same
	// set; a keyword occurs somewhere iff Scan emits a token.
	lx := MustCompile([]string{"go", "gosub", "if"})

	texts := []string{
		"",
		"g",
		"go",
		"xgox",
		"agosubz",
		"iif",
		"zzz",
		"o g i f",
		"gifgo",
	}

	for _, text := range texts {
		scanHit := len(lx.Scan([]byte(text))) > 0
		autoHit := lx.IsMatch([]byte(text))
		if scanHit != autoHit {
			t.Errorf("engines disagree on %q: Scan hit %v, IsMatch %v", text, scanHit, autoHit)
		}
	}
}

func TestTrieShape(t *testing.T) {
	// "go" and "gosub" share the two-state prefix chain: six states
	// including the root, five edges, each inserted exactly once.
	lx := MustCompile([]string{"go", "gosub"})

	if got := lx.d.NumStates(); got != 6 {
		t.Errorf("NumStates() = %d, want 6", got)
	}
	stats := lx.EdgeStats()
	if stats.Inserts != 5 {
		t.Errorf("EdgeStats().Inserts = %d, want 5", stats.Inserts)
	}
	if stats.Updates != 0 {
		t.Errorf("EdgeStats().Updates = %d, want 0", stats.Updates)
	}
}

func TestConcurrentScans(t *testing.T) {
	const numGoroutines = 20
	const numIterations = 100

	lx := MustCompile([]string{"func", "go", "gosub", "if", "return", "var"})
	texts := [][]byte{
		[]byte("func main() { go f(); return }"),
		[]byte("if x { var y = gosub }"),
		[]byte("no keywords at all here... almost: ifs"),
		[]byte(""),
	}
	wants := make([][]Token, len(texts))
	for i, text := range texts {
		wants[i] = lx.Scan(text)
	}

	var wg sync.WaitGroup
	var violations atomic.Int64

	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < numIterations; i++ {
				for j, text := range texts {
					got := lx.Scan(text)
					if len(got) != len(wants[j]) {
						violations.Add(1)
						continue
					}
					for k := range got {
						if got[k] != wants[j][k] {
							violations.Add(1)
							break
						}
					}
				}
			}
		}()
	}
	wg.Wait()

	if got := violations.Load(); got != 0 {
		t.Errorf("observed %d divergent scans", got)
	}
}
