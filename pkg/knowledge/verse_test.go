package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := testVerse("bg_1_1", 1)

	tests := []struct {
		name   string
		mutate func(*Verse)
		field  string
	}{
		{"missing id", func(v *Verse) { v.ID = "" }, "id"},
		{"missing chapter", func(v *Verse) { v.Chapter = 0 }, "chapter"},
		{"missing verse number", func(v *Verse) { v.VerseNumber = 0 }, "verse"},
		{"missing sanskrit", func(v *Verse) { v.Sanskrit = "" }, "sanskrit"},
		{"missing hindi", func(v *Verse) { v.Hindi = "" }, "hindi"},
		{"missing meaning", func(v *Verse) { v.Meaning = "" }, "meaning"},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on complete verse = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := *valid
			tt.mutate(&v)
			err := v.Validate()
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("Validate() error = %v, want ErrMissingField", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() error %q does not name field %q", err, tt.field)
			}
		})
	}
}

func TestEmbeddingTextSkipsEmptyParts(t *testing.T) {
	v := testVerse("bg_1_1", 1)
	v.ContextTags = []string{"कर्म", "धर्म"}

	got := v.EmbeddingText()
	if strings.Contains(got, "  ") {
		t.Errorf("EmbeddingText() has empty segments: %q", got)
	}
	for _, want := range []string{v.Hindi, v.Meaning, "कर्म धर्म"} {
		if !strings.Contains(got, want) {
			t.Errorf("EmbeddingText() missing %q", want)
		}
	}
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	content := `{
		"verses": [
			{"id": "bg_2_47", "chapter": 2, "verse": 47, "sanskrit": "s", "hindi": "h", "meaning": "m",
			 "context_tags": ["कर्म"], "emotional_context": ["चिंता"]}
		],
		"context_keywords": {"काम": ["नौकरी"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	verses, keywords, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if len(verses) != 1 || verses[0].ID != "bg_2_47" || verses[0].VerseNumber != 47 {
		t.Errorf("verses = %+v", verses)
	}
	if len(keywords["काम"]) != 1 {
		t.Errorf("keywords = %v", keywords)
	}

	if _, _, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("LoadCorpus(missing) error = nil, want error")
	}
}
