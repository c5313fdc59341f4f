package knowledge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"paarth-be/internal/pkg/logger"
	"paarth-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrDuplicateVerse = errors.New("verse already exists")
)

// Lexical scoring weights. Emotional-context matches rank above topical tag
// matches, which rank above plain text containment; a category keyword hit
// outweighs them all.
const (
	scoreEmotionalTag  = 4
	scoreContextTag    = 3
	scoreTextField     = 2
	scoreCategoryBonus = 5
)

// keywordScoreScale maps the raw lexical score onto the 0..1-ish range used
// by cosine similarity so both can be ranked together.
const keywordScoreScale = 100

// Filter narrows an advanced search before any free-text ranking runs.
// Within one tag dimension values are OR-ed; dimensions are AND-ed.
type Filter struct {
	Chapter          *int
	Themes           []string
	EmotionalContext []string
	LifeSituations   []string
	Query            string
	MaxResults       int
}

// Stats summarizes the state of the index.
type Stats struct {
	TotalVerses         int  `json:"totalVerses"`
	VersesWithEmbedding int  `json:"versesWithEmbeddings"`
	Categories          int  `json:"categories"`
	Chapters            int  `json:"chapters"`
	Initialized         bool `json:"isInitialized"`
}

// Index holds the verse corpus and answers nearest-neighbor queries by cosine
// similarity, falling back to lexical keyword scoring when embeddings are
// unavailable. Reads are concurrent; appends are serialized and a verse only
// becomes queryable once fully populated.
type Index struct {
	provider embedding.Provider
	logger   logger.ILogger

	mu          sync.RWMutex
	verses      []*Verse
	keywords    map[string][]string
	initialized bool

	// Memoizes query embeddings; repeated questions skip the provider call.
	queryCache *cache.Cache
}

func NewIndex(verses []*Verse, keywords map[string][]string, provider embedding.Provider, log logger.ILogger) *Index {
	if keywords == nil {
		keywords = map[string][]string{}
	}
	return &Index{
		provider:   provider,
		logger:     log,
		verses:     verses,
		keywords:   keywords,
		queryCache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// Initialize embeds every verse in the corpus. A verse whose embedding call
// fails is kept without one and stays reachable via lexical scoring.
func (idx *Index) Initialize(ctx context.Context) error {
	if idx.provider == nil {
		idx.logger.Warn("Knowledge", "No embedding provider configured, lexical search only", nil)
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	embedded := 0
	for _, verse := range idx.verses {
		vec, err := idx.provider.Generate(ctx, verse.EmbeddingText(), embedding.TaskRetrievalDocument)
		if err != nil {
			idx.logger.Warn("Knowledge", "Embedding failed for verse, keeping lexical only", map[string]interface{}{
				"verse_id": verse.ID,
				"error":    err.Error(),
			})
			continue
		}
		verse.Embedding = vec
		embedded++
	}

	idx.initialized = true
	idx.logger.Info("Knowledge", "Corpus initialized", map[string]interface{}{
		"verses":   len(idx.verses),
		"embedded": embedded,
	})
	return nil
}

// Query returns up to k verses ranked most-similar first. When the embedding
// provider is missing, not yet initialized, or errors on the query, the whole
// ranking degrades to lexical scoring.
func (idx *Index) Query(ctx context.Context, text string, k int) []*Verse {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.rankLocked(ctx, idx.verses, text, k)
}

// AdvancedSearch applies the exact/set-membership filters, then ranks the
// surviving subset by the free-text query if one is present.
func (idx *Index) AdvancedSearch(ctx context.Context, filter Filter) []*Verse {
	k := filter.MaxResults
	if k == 0 {
		k = 5
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	subset := idx.verses
	if filter.Chapter != nil {
		subset = filterVerses(subset, func(v *Verse) bool { return v.Chapter == *filter.Chapter })
	}
	if len(filter.Themes) > 0 {
		subset = filterVerses(subset, func(v *Verse) bool { return anyOverlap(v.Themes, filter.Themes) })
	}
	if len(filter.EmotionalContext) > 0 {
		subset = filterVerses(subset, func(v *Verse) bool { return anyOverlap(v.EmotionalContext, filter.EmotionalContext) })
	}
	if len(filter.LifeSituations) > 0 {
		subset = filterVerses(subset, func(v *Verse) bool { return anyOverlap(v.LifeSituations, filter.LifeSituations) })
	}

	if strings.TrimSpace(filter.Query) != "" {
		return idx.rankLocked(ctx, subset, filter.Query, k)
	}

	if k < 0 {
		return nil
	}
	if len(subset) > k {
		subset = subset[:k]
	}
	out := make([]*Verse, len(subset))
	copy(out, subset)
	return out
}

// AddVerse validates and ingests a new verse at runtime. The embedding is
// computed before the verse is published into the queryable set, so readers
// never observe a half-populated record.
func (idx *Index) AddVerse(ctx context.Context, verse *Verse) error {
	if err := verse.Validate(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, existing := range idx.verses {
		if existing.ID == verse.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateVerse, verse.ID)
		}
	}

	if idx.provider != nil && idx.initialized {
		vec, err := idx.provider.Generate(ctx, verse.EmbeddingText(), embedding.TaskRetrievalDocument)
		if err != nil {
			idx.logger.Warn("Knowledge", "Embedding failed at ingest, keeping lexical only", map[string]interface{}{
				"verse_id": verse.ID,
				"error":    err.Error(),
			})
		} else {
			verse.Embedding = vec
		}
	}

	idx.verses = append(idx.verses, verse)
	idx.logger.Info("Knowledge", "Verse added", map[string]interface{}{"verse_id": verse.ID})
	return nil
}

func (idx *Index) RandomVerse() *Verse {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.verses) == 0 {
		return nil
	}
	return idx.verses[rand.Intn(len(idx.verses))]
}

func (idx *Index) VerseByID(id string) *Verse {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, v := range idx.verses {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (idx *Index) VersesByChapter(chapter int) []*Verse {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return filterVerses(idx.verses, func(v *Verse) bool { return v.Chapter == chapter })
}

// All returns up to limit verses in corpus order; limit <= 0 means all.
func (idx *Index) All(limit int) []*Verse {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n := len(idx.verses)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Verse, n)
	copy(out, idx.verses[:n])
	return out
}

func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.verses)
}

func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	withEmbedding := 0
	chapters := map[int]struct{}{}
	for _, v := range idx.verses {
		if v.Embedding != nil {
			withEmbedding++
		}
		chapters[v.Chapter] = struct{}{}
	}
	return Stats{
		TotalVerses:         len(idx.verses),
		VersesWithEmbedding: withEmbedding,
		Categories:          len(idx.keywords),
		Chapters:            len(chapters),
		Initialized:         idx.initialized,
	}
}

// rankLocked scores the given subset against the query. Caller holds at
// least a read lock.
func (idx *Index) rankLocked(ctx context.Context, subset []*Verse, text string, k int) []*Verse {
	if k <= 0 || len(subset) == 0 {
		return nil
	}

	queryVec, ok := idx.queryEmbedding(ctx, text)
	if !ok {
		return idx.lexicalSearch(subset, text, k)
	}

	type scored struct {
		verse *Verse
		score float64
	}
	results := make([]scored, 0, len(subset))
	for _, v := range subset {
		var score float64
		if v.Embedding != nil {
			score = cosineSimilarity(queryVec, v.Embedding)
		} else {
			score = idx.keywordScore(text, v) / keywordScoreScale
		}
		results = append(results, scored{verse: v, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > k {
		results = results[:k]
	}

	out := make([]*Verse, len(results))
	for i, r := range results {
		out[i] = r.verse
	}
	return out
}

// queryEmbedding returns the query vector, memoized per query text. A false
// second return means the caller should use the lexical fallback.
func (idx *Index) queryEmbedding(ctx context.Context, text string) ([]float32, bool) {
	if idx.provider == nil || !idx.initialized {
		return nil, false
	}
	if cached, found := idx.queryCache.Get(text); found {
		return cached.([]float32), true
	}

	vec, err := idx.provider.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		idx.logger.Warn("Knowledge", "Query embedding failed, using lexical fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	idx.queryCache.Set(text, vec, cache.DefaultExpiration)
	return vec, true
}

// lexicalSearch ranks a subset purely by keyword scoring, dropping verses
// that score zero.
func (idx *Index) lexicalSearch(subset []*Verse, query string, k int) []*Verse {
	type scored struct {
		verse *Verse
		score float64
	}
	var results []scored
	for _, v := range subset {
		if score := idx.keywordScore(query, v); score > 0 {
			results = append(results, scored{verse: v, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > k {
		results = results[:k]
	}

	out := make([]*Verse, len(results))
	for i, r := range results {
		out[i] = r.verse
	}
	return out
}

// keywordScore awards weighted points for query token containment in the
// verse's tag sets and text fields, plus a category bonus when the query
// mentions a keyword of a category the verse is tagged with.
func (idx *Index) keywordScore(query string, v *Verse) float64 {
	queryLower := strings.ToLower(query)
	words := strings.Fields(queryLower)

	var score float64
	for _, word := range words {
		if containsSubstring(v.EmotionalContext, word) {
			score += scoreEmotionalTag
		}
		if containsSubstring(v.ContextTags, word) {
			score += scoreContextTag
		}
		if strings.Contains(strings.ToLower(v.Hindi), word) {
			score += scoreTextField
		}
		if strings.Contains(strings.ToLower(v.Meaning), word) {
			score += scoreTextField
		}
	}

	for category, keywords := range idx.keywords {
		for _, keyword := range keywords {
			if strings.Contains(queryLower, strings.ToLower(keyword)) {
				if containsExact(v.ContextTags, category) {
					score += scoreCategoryBonus
				}
				break
			}
		}
	}
	return score
}

// cosineSimilarity is the normalized dot product of two vectors. Mismatched
// dimensions or a zero-magnitude vector yield 0 (not comparable).
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func filterVerses(verses []*Verse, keep func(*Verse) bool) []*Verse {
	var out []*Verse
	for _, v := range verses {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func anyOverlap(have, want []string) bool {
	for _, w := range want {
		if containsExact(have, w) {
			return true
		}
	}
	return false
}

func containsExact(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func containsSubstring(list []string, word string) bool {
	for _, item := range list {
		if strings.Contains(strings.ToLower(item), word) {
			return true
		}
	}
	return false
}
