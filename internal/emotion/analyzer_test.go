package emotion

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumWeights(p Profile) float64 {
	var s float64
	for _, w := range p.Emotions {
		s += w
	}
	return s
}

func TestAnalyzeEmptyTextIsNeutral(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		p := Analyze(text)
		assert.Equal(t, Neutral, p.Dominant)
		assert.Equal(t, map[Label]float64{Neutral: 1.0}, p.Emotions)
		assert.Equal(t, Sentiment{Neutral: 1}, p.Sentiment)
	}
}

func TestAnalyzeDistributionsSumToOne(t *testing.T) {
	texts := []string{
		"hola",
		"estoy feliz y contento pero un poco nervioso",
		"¡Qué malo! estoy furioso, molesto y triste",
		"todo es excelente y genial, aunque terrible a veces",
		"confundido, perdido, sorprendido!!!",
		"12345 ???",
	}
	for _, text := range texts {
		p := Analyze(text)
		assert.InDelta(t, 1.0, sumWeights(p), 1e-9, text)
		s := p.Sentiment
		assert.InDelta(t, 1.0, s.Positive+s.Negative+s.Neutral, 1e-9, text)
		assert.GreaterOrEqual(t, s.Compound, -1.0, text)
		assert.LessOrEqual(t, s.Compound, 1.0, text)
		_, hasDominant := p.Emotions[p.Dominant]
		assert.True(t, hasDominant, text)
	}
}

func TestAnalyzeSubstringHitsInflectedForms(t *testing.T) {
	p := Analyze("Hoy me siento superfeliz")
	assert.Greater(t, p.Emotions[Joy], 0.0)
	assert.Equal(t, Joy, p.Dominant)
	_, hasNeutral := p.Emotions[Neutral]
	assert.False(t, hasNeutral)
}

func TestAnalyzeNormalizesWeights(t *testing.T) {
	// two joy hits, one fear hit
	p := Analyze("feliz contento nervioso")
	assert.InDelta(t, 2.0/3.0, p.Emotions[Joy], 1e-9)
	assert.InDelta(t, 1.0/3.0, p.Emotions[Fear], 1e-9)
	assert.Equal(t, Joy, p.Dominant)
}

func TestAnalyzeTieBreaksByLexiconOrder(t *testing.T) {
	p := Analyze("triste feliz")
	assert.Equal(t, Joy, p.Dominant)

	p = Analyze("asustado sorprendido")
	assert.Equal(t, Fear, p.Dominant)

	reversed := Lexicon{DefaultLexicon[1], DefaultLexicon[0]}
	a := NewAnalyzer(WithLexicon(reversed))
	assert.Equal(t, Sadness, a.Analyze("triste feliz").Dominant)
}

func TestAnalyzerLabels(t *testing.T) {
	assert.Equal(t, []Label{Neutral, Joy, Sadness, Anger, Fear, Surprise, Confusion}, NewAnalyzer().Labels())

	bored := Lexicon{{Label: "aburrimiento", Keywords: []string{"aburrido"}}}
	assert.Equal(t, []Label{Neutral, "aburrimiento"}, NewAnalyzer(WithLexicon(bored)).Labels())
}

func TestAnalyzeKeywordSentiment(t *testing.T) {
	p := Analyze("la clase fue excelente y genial pero el examen fue terrible")
	assert.InDelta(t, 2.0/3.0, p.Sentiment.Positive, 1e-9)
	assert.InDelta(t, 1.0/3.0, p.Sentiment.Negative, 1e-9)
	assert.InDelta(t, 0.0, p.Sentiment.Neutral, 1e-9)
	assert.InDelta(t, 1.0/3.0, p.Sentiment.Compound, 1e-9)
}

func TestTokenModeIgnoresEmbeddedKeywords(t *testing.T) {
	a := NewAnalyzer(WithMatchMode(MatchToken))

	p := a.Analyze("superfeliz")
	assert.Equal(t, Neutral, p.Dominant)

	p = a.Analyze("¡Estoy feliz!")
	assert.Equal(t, Joy, p.Dominant)
}

type fixedPolarity struct{ s Sentiment }

func (f fixedPolarity) Polarity(string) Sentiment { return f.s }

func TestPolarityScorerOverridesKeywordFallback(t *testing.T) {
	want := Sentiment{Positive: 0.5, Negative: 0.1, Neutral: 0.4, Compound: 0.6}
	a := NewAnalyzer(WithPolarityScorer(fixedPolarity{s: want}))
	assert.Equal(t, want, a.Analyze("terrible").Sentiment)
}

func TestParseMatchMode(t *testing.T) {
	assert.Equal(t, MatchToken, ParseMatchMode(" TOKEN "))
	assert.Equal(t, MatchSubstring, ParseMatchMode("substring"))
	assert.Equal(t, MatchSubstring, ParseMatchMode("whatever"))
}

func TestAnalyzeConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := Analyze("estoy preocupado y confundido")
			assert.Equal(t, Fear, p.Dominant)
		}()
	}
	wg.Wait()
}
