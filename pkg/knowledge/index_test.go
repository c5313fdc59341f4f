package knowledge

import (
	"context"
	"errors"
	"testing"

	"paarth-be/internal/pkg/logger"
)

// fakeEmbedder returns canned vectors keyed by input text and falls back to
// an error so lexical scoring kicks in for unknown inputs.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text, taskType string) ([]float32, error) {
	f.calls++
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return nil, errors.New("no vector for input")
}

func testVerse(id string, chapter int) *Verse {
	return &Verse{
		ID:          id,
		Chapter:     chapter,
		VerseNumber: 1,
		Sanskrit:    "sanskrit " + id,
		Hindi:       "hindi " + id,
		Meaning:     "meaning " + id,
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero magnitude", []float32{0, 0}, []float32{1, 0}, 0},
		{"both empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	a := testVerse("a", 1)
	b := testVerse("b", 2)

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		a.EmbeddingText(): {1, 0},
		b.EmbeddingText(): {0, 1},
		"towards a":       {1, 0},
		"towards b":       {0.1, 0.9},
	}}

	idx := NewIndex([]*Verse{a, b}, nil, embedder, logger.NewNopLogger())
	if err := idx.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	got := idx.Query(context.Background(), "towards a", 2)
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("Query(towards a) order = %v, want a first", ids(got))
	}

	got = idx.Query(context.Background(), "towards b", 2)
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("Query(towards b) order = %v, want b first", ids(got))
	}

	// Same query again must come from the cache and stay deterministic.
	before := embedder.calls
	again := idx.Query(context.Background(), "towards b", 2)
	if embedder.calls != before {
		t.Errorf("expected cached query embedding, provider called %d more times", embedder.calls-before)
	}
	if again[0].ID != "b" {
		t.Errorf("repeated query changed order: %v", ids(again))
	}
}

func TestQueryBounds(t *testing.T) {
	a := testVerse("a", 1)
	embedder := &fakeEmbedder{vectors: map[string][]float32{a.EmbeddingText(): {1, 0}}}
	idx := NewIndex([]*Verse{a}, nil, embedder, logger.NewNopLogger())

	if got := idx.Query(context.Background(), "anything", 0); got != nil {
		t.Errorf("Query with k=0 = %v, want nil", ids(got))
	}
	if got := idx.Query(context.Background(), "anything", 10); len(got) > 1 {
		t.Errorf("Query returned %d results from corpus of 1", len(got))
	}

	empty := NewIndex(nil, nil, embedder, logger.NewNopLogger())
	if got := empty.Query(context.Background(), "anything", 5); got != nil {
		t.Errorf("Query on empty corpus = %v, want nil", ids(got))
	}
}

func TestLexicalFallback(t *testing.T) {
	a := testVerse("a", 1)
	a.EmotionalContext = []string{"चिंता"}
	b := testVerse("b", 2)

	// No vectors at all: embedding fails, every query goes lexical.
	idx := NewIndex([]*Verse{a, b}, nil, &fakeEmbedder{}, logger.NewNopLogger())

	got := idx.Query(context.Background(), "मुझे चिंता हो रही है", 5)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("lexical query = %v, want only a (zero scores dropped)", ids(got))
	}
}

func TestKeywordScoring(t *testing.T) {
	v := testVerse("a", 1)
	v.EmotionalContext = []string{"चिंता"}
	v.ContextTags = []string{"कर्म", "काम"}
	v.Hindi = "फल की चिंता छोड़ो"

	idx := NewIndex([]*Verse{v}, map[string][]string{"काम": {"नौकरी"}}, &fakeEmbedder{}, logger.NewNopLogger())

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"emotional context match", "चिंता", 4 + 2}, // also appears in hindi text
		{"context tag match", "कर्म", 3},
		{"category bonus via related word", "नौकरी", 5},
		{"no match", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.keywordScore(tt.query, v); got != tt.want {
				t.Errorf("keywordScore(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestAddVerse(t *testing.T) {
	a := testVerse("a", 1)
	embedder := &fakeEmbedder{vectors: map[string][]float32{a.EmbeddingText(): {1, 0}}}
	idx := NewIndex([]*Verse{a}, nil, embedder, logger.NewNopLogger())

	dup := testVerse("a", 1)
	if err := idx.AddVerse(context.Background(), dup); !errors.Is(err, ErrDuplicateVerse) {
		t.Errorf("AddVerse(duplicate) error = %v, want ErrDuplicateVerse", err)
	}

	invalid := testVerse("b", 1)
	invalid.Hindi = ""
	if err := idx.AddVerse(context.Background(), invalid); !errors.Is(err, ErrMissingField) {
		t.Errorf("AddVerse(invalid) error = %v, want ErrMissingField", err)
	}

	fresh := testVerse("c", 3)
	if err := idx.AddVerse(context.Background(), fresh); err != nil {
		t.Fatalf("AddVerse() error = %v", err)
	}
	if idx.Count() != 2 {
		t.Errorf("Count() = %d, want 2", idx.Count())
	}
	if idx.VerseByID("c") == nil {
		t.Errorf("VerseByID(c) = nil after ingest")
	}
}

func TestAdvancedSearchFilters(t *testing.T) {
	a := testVerse("a", 1)
	a.Themes = []string{"duty"}
	b := testVerse("b", 2)
	b.Themes = []string{"duty", "peace"}
	c := testVerse("c", 2)
	c.EmotionalContext = []string{"डर"}

	idx := NewIndex([]*Verse{a, b, c}, nil, &fakeEmbedder{}, logger.NewNopLogger())

	chapter := 2
	got := idx.AdvancedSearch(context.Background(), Filter{Chapter: &chapter, Themes: []string{"duty"}})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("AdvancedSearch(chapter=2, duty) = %v, want [b]", ids(got))
	}

	got = idx.AdvancedSearch(context.Background(), Filter{EmotionalContext: []string{"डर", "शोक"}})
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("AdvancedSearch(emotional) = %v, want [c]", ids(got))
	}

	got = idx.AdvancedSearch(context.Background(), Filter{Themes: []string{"nonexistent"}})
	if len(got) != 0 {
		t.Errorf("AdvancedSearch(nonexistent) = %v, want empty", ids(got))
	}
}

func TestStats(t *testing.T) {
	a := testVerse("a", 1)
	b := testVerse("b", 2)
	embedder := &fakeEmbedder{vectors: map[string][]float32{a.EmbeddingText(): {1, 0}}}

	idx := NewIndex([]*Verse{a, b}, map[string][]string{"काम": {"नौकरी"}}, embedder, logger.NewNopLogger())
	if err := idx.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	stats := idx.Stats()
	if stats.TotalVerses != 2 {
		t.Errorf("TotalVerses = %d, want 2", stats.TotalVerses)
	}
	if stats.VersesWithEmbedding != 1 {
		t.Errorf("VersesWithEmbedding = %d, want 1", stats.VersesWithEmbedding)
	}
	if !stats.Initialized {
		t.Errorf("Initialized = false after Initialize")
	}
	if stats.Categories != 1 {
		t.Errorf("Categories = %d, want 1", stats.Categories)
	}
}

func ids(verses []*Verse) []string {
	out := make([]string, 0, len(verses))
	for _, v := range verses {
		out = append(out, v.ID)
	}
	return out
}
