package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Gorio76/meeting-notes-flow/internal/catalog"
)

var testNow = time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)

func generateLines(t *testing.T, answers Answers, lines []OrderLine) []string {
	t.Helper()
	text := Generate(answers, lines, catalog.Questions(), testNow)
	return strings.Split(text, "\r\n")
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func TestGenerateHeader(t *testing.T) {
	answers := Answers{
		"company_referent": `{"company":"Acme","referent":"Jane Roe"}`,
	}
	lines := generateLines(t, answers, nil)

	if lines[0] != "MEETING_REPORT;05/03/2026" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "RAGIONE_SOCIALE;Acme" {
		t.Errorf("company line = %q", lines[1])
	}
	if lines[2] != "REFERENTE;Jane Roe" {
		t.Errorf("referent line = %q", lines[2])
	}
	if lines[3] != "" {
		t.Errorf("expected blank separator after header, got %q", lines[3])
	}
}

func TestGenerateCompositeCompany(t *testing.T) {
	t.Run("valid json emits two labeled lines", func(t *testing.T) {
		answers := Answers{
			"company_referent": `{"company":"Acme","referent":"Jane Roe"}`,
		}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "DATI CLIENTE;AZIENDA;Acme") {
			t.Errorf("missing company sub-line in %q", lines)
		}
		if !containsLine(lines, "DATI CLIENTE;REFERENTE;Jane Roe") {
			t.Errorf("missing referent sub-line in %q", lines)
		}
	})

	t.Run("legacy referente field", func(t *testing.T) {
		answers := Answers{
			"company_referent": `{"company":"Acme","referente":"Mario Rossi"}`,
		}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "DATI CLIENTE;REFERENTE;Mario Rossi") {
			t.Errorf("legacy referente not picked up: %q", lines)
		}
	})

	t.Run("invalid json falls back to the raw value", func(t *testing.T) {
		answers := Answers{"company_referent": "not json"}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "DATI CLIENTE;not json") {
			t.Errorf("missing fallback line in %q", lines)
		}
		if containsLine(lines, "DATI CLIENTE;AZIENDA;not json") {
			t.Error("fallback must not pretend to be parsed")
		}
	})

	t.Run("empty sub-values are omitted", func(t *testing.T) {
		answers := Answers{"company_referent": `{"company":"Acme"}`}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "DATI CLIENTE;AZIENDA;Acme") {
			t.Errorf("missing company sub-line in %q", lines)
		}
		for _, l := range lines {
			if strings.HasPrefix(l, "DATI CLIENTE;REFERENTE;") {
				t.Errorf("unexpected referent line %q", l)
			}
		}
	})
}

func TestGenerateBullets(t *testing.T) {
	t.Run("markers stripped and empties dropped", func(t *testing.T) {
		answers := Answers{"goals": "• first\n• \n• second"}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "OBIETTIVI;1;first") {
			t.Errorf("missing first bullet in %q", lines)
		}
		if !containsLine(lines, "OBIETTIVI;2;second") {
			t.Errorf("missing second bullet in %q", lines)
		}
		for _, l := range lines {
			if strings.HasPrefix(l, "OBIETTIVI;3") {
				t.Errorf("unexpected third bullet %q", l)
			}
		}
	})

	t.Run("dash markers and internal whitespace", func(t *testing.T) {
		answers := Answers{"problems": "- slow   imports\n-  manual  entry"}
		lines := generateLines(t, answers, nil)
		if !containsLine(lines, "PROBLEMI EMERSI / ESIGENZE;1;slow imports") {
			t.Errorf("bullet not cleaned: %q", lines)
		}
		if !containsLine(lines, "PROBLEMI EMERSI / ESIGENZE;2;manual entry") {
			t.Errorf("bullet not cleaned: %q", lines)
		}
	})

	t.Run("all-empty bullet answer is skipped entirely", func(t *testing.T) {
		answers := Answers{"goals": "•\n• \n-"}
		lines := generateLines(t, answers, nil)
		for _, l := range lines {
			if strings.HasPrefix(l, "OBIETTIVI") {
				t.Errorf("empty bullet answer must emit nothing, got %q", l)
			}
		}
	})
}

func TestGenerateScalars(t *testing.T) {
	answers := Answers{
		"context":    "Demo   iniziale",
		"next_steps": "Richiamare lunedì",
	}
	lines := generateLines(t, answers, nil)
	if !containsLine(lines, "CONTESTO DELL'INCONTRO;Demo iniziale") {
		t.Errorf("scalar not collapsed: %q", lines)
	}
	if !containsLine(lines, "PROSSIMO FOLLOW-UP;Richiamare lunedì") {
		t.Errorf("missing next steps line: %q", lines)
	}
}

func TestGenerateOmitsUnanswered(t *testing.T) {
	answers := Answers{"context": "Demo"}
	text := Generate(answers, nil, catalog.Questions(), testNow)
	for _, label := range []string{"OBIETTIVI", "VINCOLI", "SEGNALI", "PROSSIMO"} {
		if strings.Contains(text, label) {
			t.Errorf("unanswered question %s leaked into report:\n%s", label, text)
		}
	}
	if strings.Contains(text, "ORDINE") {
		t.Error("empty order list must not emit an order section")
	}
}

func TestGenerateEscaping(t *testing.T) {
	answers := Answers{"context": `Demo; con "virgolette" e ; separatori`}
	lines := generateLines(t, answers, nil)
	want := `CONTESTO DELL'INCONTRO;"Demo; con ""virgolette"" e ; separatori"`
	if !containsLine(lines, want) {
		t.Errorf("escaped line missing, got %q", lines)
	}
}

func TestGenerateEscapingRoundTrips(t *testing.T) {
	answers := Answers{"context": `valore; con "quote"`}
	lines := generateLines(t, answers, nil)

	var row string
	for _, l := range lines {
		if strings.HasPrefix(l, "CONTESTO") {
			row = l
		}
	}
	if row == "" {
		t.Fatal("context row not found")
	}

	r := csv.NewReader(strings.NewReader(row))
	r.Comma = ';'
	fields, err := r.Read()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(fields) != 2 || fields[1] != `valore; con "quote"` {
		t.Errorf("round-trip lost data: %q", fields)
	}
}

func TestGenerateOrderSection(t *testing.T) {
	lines := []OrderLine{
		NewOrderLine("ABC-1", "Licenza base", 100, [4]float64{10, 20, 0, 0}, 1),
		NewOrderLine("XYZ-2", "Supporto", 9.99, [4]float64{5}, 3),
	}
	got := generateLines(t, Answers{}, lines)

	if !containsLine(got, "ORDINE;") {
		t.Fatalf("order marker missing: %q", got)
	}
	if !containsLine(got, "CODICE;DESCRIZIONE;QTA;LISTINO_LORDO;SCONTO1_%;SCONTO2_%;SCONTO3_%;SCONTO4_%;NETTO_UNIT;TOTALE_RIGA") {
		t.Fatalf("column header missing: %q", got)
	}
	if !containsLine(got, "ABC-1;Licenza base;1;100,00;10;20;0;0;72,00;72,00") {
		t.Errorf("first row wrong: %q", got)
	}
	if !containsLine(got, "XYZ-2;Supporto;3;9,99;5;0;0;0;9,49;28,47") {
		t.Errorf("second row wrong: %q", got)
	}
	if !containsLine(got, "TOTALE_NETTO_ORDINE;100,47") {
		t.Errorf("grand total wrong: %q", got)
	}
}

func TestGenerateOrderRowFormatting(t *testing.T) {
	lines := []OrderLine{
		NewOrderLine("Q-1", "Sconto frazionario", 50, [4]float64{12.5, 0, 0, 0}, 2.5),
	}
	got := generateLines(t, Answers{}, lines)
	// Fractional percentages use a decimal comma, whole ones stay bare.
	if !containsLine(got, "Q-1;Sconto frazionario;2.5;50,00;12,50;0;0;0;43,75;109,38") {
		t.Errorf("fractional row wrong: %q", got)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	answers := Answers{
		"company_referent": `{"company":"Acme","referent":"Jane"}`,
		"goals":            "• a\n• b",
		"context":          "Demo",
	}
	lines := []OrderLine{
		NewOrderLine("A", "one", 10, [4]float64{5}, 2),
	}
	first := Generate(answers, lines, catalog.Questions(), testNow)
	second := Generate(answers, lines, catalog.Questions(), testNow)
	if first != second {
		t.Error("identical input must produce byte-identical output")
	}
}

func TestGenerateUsesCatalogOrder(t *testing.T) {
	answers := Answers{
		"next_steps": "Follow-up",
		"context":    "Demo",
		"goals":      "• uno",
	}
	text := Generate(answers, nil, catalog.Questions(), testNow)
	ctx := strings.Index(text, "CONTESTO")
	goals := strings.Index(text, "OBIETTIVI")
	next := strings.Index(text, "PROSSIMO")
	if !(ctx < goals && goals < next) {
		t.Errorf("sections out of catalog order:\n%s", text)
	}
}

func TestSubject(t *testing.T) {
	answers := Answers{"company_referent": `{"company":"Acme Srl"}`}
	got := Subject(answers, catalog.Questions(), testNow)
	if got != "Meeting Report; Acme Srl; 05/03/2026" {
		t.Errorf("subject = %q", got)
	}

	got = Subject(Answers{}, catalog.Questions(), testNow)
	if got != "Meeting Report; Nuovo Meeting; 05/03/2026" {
		t.Errorf("fallback subject = %q", got)
	}
}
