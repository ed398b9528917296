package emotion

// Label names an emotion category.
type Label string

const (
	Neutral   Label = "neutral"
	Joy       Label = "alegría"
	Sadness   Label = "tristeza"
	Anger     Label = "enojo"
	Fear      Label = "miedo"
	Surprise  Label = "sorpresa"
	Confusion Label = "confusión"
)

// Category is one row of a lexicon: a label and the keyword variants that signal it.
type Category struct {
	Label    Label
	Keywords []string
}

// Lexicon is an ordered table of categories. Order decides dominant-emotion ties.
type Lexicon []Category

// Labels returns the category labels in declaration order.
func (l Lexicon) Labels() []Label {
	labels := make([]Label, len(l))
	for i, c := range l {
		labels[i] = c.Label
	}
	return labels
}

// DefaultLexicon is the built-in Spanish lexicon. Treat it as read-only.
var DefaultLexicon = Lexicon{
	{Label: Joy, Keywords: []string{"feliz", "contento", "encantado", "emocionado", "entusiasmado"}},
	{Label: Sadness, Keywords: []string{"triste", "deprimido", "desanimado", "apenado", "desilusionado"}},
	{Label: Anger, Keywords: []string{"enojado", "molesto", "irritado", "furioso", "indignado"}},
	{Label: Fear, Keywords: []string{"asustado", "temeroso", "preocupado", "inquieto", "nervioso"}},
	{Label: Surprise, Keywords: []string{"sorprendido", "asombrado", "impresionado", "impactado"}},
	{Label: Confusion, Keywords: []string{"confundido", "perdido", "desorientado", "desconcertado"}},
}

var (
	defaultPositiveWords = []string{"bueno", "excelente", "genial", "fantástico", "maravilloso"}
	defaultNegativeWords = []string{"malo", "terrible", "horrible", "pésimo", "desagradable"}
)
