package catalog

// InputKind decides how the wizard collects an answer and how the report
// generator renders it.
type InputKind string

const (
	KindText             InputKind = "text"
	KindTextarea         InputKind = "textarea"
	KindBullets          InputKind = "bullets"
	KindCompositeCompany InputKind = "composite_company"
	KindOrderManager     InputKind = "order_manager"
)

type Question struct {
	ID          string
	Title       string
	Placeholder string
	Helper      string
	Kind        InputKind
}

// questions is the fixed interview sequence. Order matters: both the wizard
// steps and the report sections follow it.
var questions = []Question{
	{
		ID:          "company_referent",
		Title:       "Dati Cliente",
		Placeholder: "Dati generali",
		Kind:        KindCompositeCompany,
	},
	{
		ID:          "context",
		Title:       "Contesto dell'incontro",
		Placeholder: "Meeting conoscitivo, Demo, Follow-up...",
		Kind:        KindText,
	},
	{
		ID:          "goals",
		Title:       "Obiettivi",
		Placeholder: "• Obiettivo 1\n• Obiettivo 2",
		Helper:      "Cosa vogliono ottenere? (Un punto per riga)",
		Kind:        KindBullets,
	},
	{
		ID:          "positives",
		Title:       "Punti positivi / Cose che funzionano",
		Placeholder: "• Punti di forza attuali\n• Cosa vogliono mantenere",
		Helper:      "Cosa va bene oggi?",
		Kind:        KindBullets,
	},
	{
		ID:          "problems",
		Title:       "Problemi emersi / Esigenze",
		Placeholder: "• Punti di dolore\n• Inefficienze\n• Rischi",
		Helper:      "Cosa non funziona oggi?",
		Kind:        KindBullets,
	},
	{
		ID:          "constraints",
		Title:       "Vincoli & Budget",
		Placeholder: "Tempistiche, budget, tecnologie obbligatorie...",
		Kind:        KindTextarea,
	},
	{
		ID:          "signals",
		Title:       "Segnali deboli",
		Placeholder: "Non detto, dinamiche tra colleghi, dubbi...",
		Helper:      "Impressioni 'a pelle'.",
		Kind:        KindTextarea,
	},
	{
		ID:          "order",
		Title:       "Ordine / Preventivo",
		Placeholder: "Gestione articoli",
		Kind:        KindOrderManager,
	},
	{
		ID:          "next_steps",
		Title:       "Prossimo Follow-up",
		Placeholder: "Data e azione concordata",
		Kind:        KindText,
	},
}

// Questions returns the interview sequence in declaration order.
func Questions() []Question {
	return questions
}

// Total is the number of wizard steps.
func Total() int {
	return len(questions)
}

// ByIndex returns the question at the given step index, clamped to the last
// question for out-of-range indexes.
func ByIndex(i int) Question {
	if i < 0 {
		return questions[0]
	}
	if i >= len(questions) {
		return questions[len(questions)-1]
	}
	return questions[i]
}

// composite returns the composite-company question, if declared.
func composite() (Question, bool) {
	for _, q := range questions {
		if q.Kind == KindCompositeCompany {
			return q, true
		}
	}
	return Question{}, false
}
