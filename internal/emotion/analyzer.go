package emotion

import (
	"strings"
	"unicode"
)

// MatchMode controls how lexicon keywords are compared against tokens.
type MatchMode string

const (
	// MatchSubstring counts a keyword whenever it appears inside a token ("felizmente" hits "feliz").
	MatchSubstring MatchMode = "substring"
	// MatchToken requires the punctuation-trimmed token to equal the keyword.
	MatchToken MatchMode = "token"
)

// ParseMatchMode falls back to MatchSubstring for unknown values.
func ParseMatchMode(raw string) MatchMode {
	if MatchMode(strings.ToLower(strings.TrimSpace(raw))) == MatchToken {
		return MatchToken
	}
	return MatchSubstring
}

// Sentiment is a polarity distribution. Positive+Negative+Neutral sums to 1.
type Sentiment struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Compound float64 `json:"compound"`
}

// Profile is the result of analyzing one utterance.
type Profile struct {
	Sentiment Sentiment         `json:"sentiment"`
	Emotions  map[Label]float64 `json:"emotions"`
	Dominant  Label             `json:"dominant_emotion"`
}

// PolarityScorer is a general-purpose sentiment scorer that replaces the keyword fallback.
type PolarityScorer interface {
	Polarity(text string) Sentiment
}

// Analyzer holds only immutable configuration and is safe for concurrent use.
type Analyzer struct {
	lexicon  Lexicon
	mode     MatchMode
	polarity PolarityScorer
	positive []string
	negative []string
}

type Option func(*Analyzer)

func WithLexicon(l Lexicon) Option {
	return func(a *Analyzer) { a.lexicon = l }
}

func WithMatchMode(m MatchMode) Option {
	return func(a *Analyzer) { a.mode = m }
}

func WithPolarityScorer(p PolarityScorer) Option {
	return func(a *Analyzer) { a.polarity = p }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		lexicon:  DefaultLexicon,
		mode:     MatchSubstring,
		positive: defaultPositiveWords,
		negative: defaultNegativeWords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// Analyze scores text with the default lexicon and substring matching.
func Analyze(text string) Profile {
	return defaultAnalyzer.Analyze(text)
}

// Labels lists every label Analyze can report as dominant: Neutral, then the
// lexicon's labels in order.
func (a *Analyzer) Labels() []Label {
	return append([]Label{Neutral}, a.lexicon.Labels()...)
}

// Analyze never fails: empty or unmatched text yields a neutral profile.
func (a *Analyzer) Analyze(text string) Profile {
	normalized := strings.ToLower(text)

	var sentiment Sentiment
	if a.polarity != nil {
		sentiment = a.polarity.Polarity(text)
	} else {
		sentiment = a.keywordSentiment(normalized)
	}

	emotions, dominant := a.scoreEmotions(strings.Fields(normalized))

	return Profile{
		Sentiment: sentiment,
		Emotions:  emotions,
		Dominant:  dominant,
	}
}

func (a *Analyzer) keywordSentiment(normalized string) Sentiment {
	positive, negative := 0, 0
	for _, w := range a.positive {
		if strings.Contains(normalized, w) {
			positive++
		}
	}
	for _, w := range a.negative {
		if strings.Contains(normalized, w) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		total = 1
	}
	t := float64(total)

	return Sentiment{
		Positive: float64(positive) / t,
		Negative: float64(negative) / t,
		Neutral:  1 - float64(positive+negative)/t,
		Compound: float64(positive-negative) / t,
	}
}

func (a *Analyzer) scoreEmotions(tokens []string) (map[Label]float64, Label) {
	if len(tokens) == 0 {
		return map[Label]float64{Neutral: 1.0}, Neutral
	}

	if a.mode == MatchToken {
		for i, tok := range tokens {
			tokens[i] = strings.TrimFunc(tok, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
	}

	weights := make(map[Label]float64)
	var sum float64
	for _, cat := range a.lexicon {
		count := 0
		for _, kw := range cat.Keywords {
			for _, tok := range tokens {
				if a.matches(tok, kw) {
					count++
				}
			}
		}
		if count > 0 {
			w := float64(count) / float64(len(tokens))
			weights[cat.Label] = w
			sum += w
		}
	}

	if len(weights) == 0 {
		return map[Label]float64{Neutral: 1.0}, Neutral
	}

	dominant := Neutral
	best := 0.0
	for _, cat := range a.lexicon {
		w, ok := weights[cat.Label]
		if !ok {
			continue
		}
		weights[cat.Label] = w / sum
		if w > best {
			best = w
			dominant = cat.Label
		}
	}

	return weights, dominant
}

func (a *Analyzer) matches(token, keyword string) bool {
	if keyword == "" {
		return false
	}
	if a.mode == MatchToken {
		return token == keyword
	}
	return strings.Contains(token, keyword)
}
