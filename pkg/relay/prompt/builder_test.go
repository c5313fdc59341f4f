package prompt

import (
	"strings"
	"testing"

	"paarth-be/pkg/knowledge"
	"paarth-be/pkg/store"
)

func TestBuildIsDeterministic(t *testing.T) {
	verses := []*knowledge.Verse{{
		ID: "bg_2_47", Chapter: 2, VerseNumber: 47,
		Sanskrit: "कर्मण्येवाधिकारस्ते", Hindi: "तुम्हारा अधिकार केवल कर्म में है", Meaning: "निष्काम कर्म",
	}}
	turns := []store.Turn{{UserText: "पहला प्रश्न"}}

	first := NewBuilder("मन अशांत है", verses, turns).Build()
	second := NewBuilder("मन अशांत है", verses, turns).Build()
	if first != second {
		t.Fatalf("same inputs produced different prompts")
	}
}

func TestBuildSections(t *testing.T) {
	verse := &knowledge.Verse{
		ID: "bg_2_47", Chapter: 2, VerseNumber: 47,
		Sanskrit: "कर्मण्येवाधिकारस्ते", Hindi: "तुम्हारा अधिकार", Meaning: "निष्काम कर्म",
		DetailedExplanation: "फल की चिंता छोड़ो",
	}

	got := NewBuilder("मन अशांत है", []*knowledge.Verse{verse}, nil).Build()

	for _, want := range []string{
		"प्रश्न: मन अशांत है",
		"संबंधित गीता श्लोक:",
		"अध्याय 2, श्लोक 47:",
		"विस्तृत व्याख्या: फल की चिंता छोड़ो",
		"निर्देश:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, "पिछली बातचीत का संदर्भ") {
		t.Errorf("history section present without any turns")
	}
}

func TestBuildWithoutVerses(t *testing.T) {
	got := NewBuilder("सवाल", nil, nil).Build()
	if strings.Contains(got, "संबंधित गीता श्लोक") {
		t.Errorf("verse section present with empty retrieval")
	}
	if !strings.Contains(got, "प्रश्न: सवाल") {
		t.Errorf("question missing from prompt")
	}
}

func TestHistoryWindow(t *testing.T) {
	turns := []store.Turn{
		{UserText: "सबसे पुराना"},
		{UserText: "बीच वाला"},
		{UserText: "सबसे नया"},
	}

	got := NewBuilder("सवाल", nil, turns).Build()

	if strings.Contains(got, "सबसे पुराना") {
		t.Errorf("prompt replayed a turn outside the history window")
	}
	for _, want := range []string{"बीच वाला", "सबसे नया"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing recent turn %q", want)
		}
	}

	// The newer of the two must come last.
	if strings.Index(got, "बीच वाला") > strings.Index(got, "सबसे नया") {
		t.Errorf("history turns out of order")
	}
}
