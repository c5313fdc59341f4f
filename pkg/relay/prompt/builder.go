package prompt

import (
	"fmt"
	"strings"

	"paarth-be/pkg/knowledge"
	"paarth-be/pkg/store"
)

// HistoryWindow is how many prior turns get replayed into the prompt.
const HistoryWindow = 2

// Builder assembles the generation prompt from the user's question, the
// retrieved verses, and recent conversation turns. Output is deterministic:
// same inputs, same prompt.
type Builder struct {
	query  string
	verses []*knowledge.Verse
	turns  []store.Turn
}

func NewBuilder(query string, verses []*knowledge.Verse, turns []store.Turn) *Builder {
	return &Builder{
		query:  query,
		verses: verses,
		turns:  turns,
	}
}

func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeQuestion(&prompt)
	b.writeVerses(&prompt)
	b.writeHistory(&prompt)
	b.writeInstructions(&prompt)

	return prompt.String()
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("प्रश्न: ")
	prompt.WriteString(b.query)
	prompt.WriteString("\n\n")
}

func (b *Builder) writeVerses(prompt *strings.Builder) {
	if len(b.verses) == 0 {
		return
	}

	prompt.WriteString("संबंधित गीता श्लोक:\n\n")
	for _, verse := range b.verses {
		fmt.Fprintf(prompt, "अध्याय %d, श्लोक %d:\n", verse.Chapter, verse.VerseNumber)
		prompt.WriteString(verse.Sanskrit)
		prompt.WriteString("\n")
		prompt.WriteString("अर्थ: ")
		prompt.WriteString(verse.Hindi)
		prompt.WriteString("\n")
		prompt.WriteString("व्याख्या: ")
		prompt.WriteString(verse.Meaning)
		prompt.WriteString("\n")
		if verse.DetailedExplanation != "" {
			prompt.WriteString("विस्तृत व्याख्या: ")
			prompt.WriteString(verse.DetailedExplanation)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}
}

func (b *Builder) writeHistory(prompt *strings.Builder) {
	if len(b.turns) == 0 {
		return
	}

	turns := b.turns
	if len(turns) > HistoryWindow {
		turns = turns[len(turns)-HistoryWindow:]
	}

	prompt.WriteString("पिछली बातचीत का संदर्भ:\n")
	for _, turn := range turns {
		prompt.WriteString("प्रश्न: ")
		prompt.WriteString(turn.UserText)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\n")
}

func (b *Builder) writeInstructions(prompt *strings.Builder) {
	prompt.WriteString(`निर्देश:
1. श्री कृष्ण के रूप में उत्तर दें
2. उपयोगकर्ता को "पार्थ" या "वत्स" कहें
3. गीता के ज्ञान से जोड़कर व्यावहारिक समाधान दें
4. यदि श्लोक का प्रयोग करें तो अध्याय-श्लोक संख्या भी बताएं
5. प्रेम और आशीर्वाद के साथ उत्तर समाप्त करें
6. उत्तर 2-3 पैराग्राफ का हो, बहुत लंबा न हो
7. हिंदी में ही उत्तर दें
8. व्यावहारिक सुझाव भी दें`)
}
