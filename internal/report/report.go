package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gorio76/meeting-notes-flow/internal/catalog"
)

// The generated text is the interchange format consumed downstream (email,
// CRM import), so the layout below — labels, `;` delimiter, CSV-style
// escaping, CRLF joins — must stay byte-stable.

const orderHeader = "CODICE;DESCRIZIONE;QTA;LISTINO_LORDO;SCONTO1_%;SCONTO2_%;SCONTO3_%;SCONTO4_%;NETTO_UNIT;TOTALE_RIGA"

// Generate renders the full meeting report from the answer set and the order
// lines, walking the catalog in declared order. It is pure: identical inputs
// produce byte-identical output.
func Generate(answers Answers, lines []OrderLine, questions []catalog.Question, now time.Time) string {
	out := make([]string, 0, len(questions)+len(lines)+8)

	dateStr := now.Format("02/01/2006")
	company, referent := CompanyReferent(answers, questions)

	out = append(out, "MEETING_REPORT;"+dateStr)
	if company != "" {
		out = append(out, "RAGIONE_SOCIALE;"+csvCell(company))
	}
	if referent != "" {
		out = append(out, "REFERENTE;"+csvCell(referent))
	}
	out = append(out, "")

	for _, q := range questions {
		if q.Kind == catalog.KindOrderManager {
			continue
		}
		val := answers[q.ID]
		if val == "" {
			continue
		}
		label := labelify(q.Title)

		if q.Kind == catalog.KindCompositeCompany {
			c, r, ok := parseCompany(val)
			if !ok {
				out = append(out, label+";"+csvCell(val))
				continue
			}
			if c != "" {
				out = append(out, label+";AZIENDA;"+csvCell(c))
			}
			if r != "" {
				out = append(out, label+";REFERENTE;"+csvCell(r))
			}
			continue
		}

		if strings.Contains(val, "\n") {
			bullets := splitToBullets(val)
			for i, b := range bullets {
				out = append(out, fmt.Sprintf("%s;%d;%s", label, i+1, csvCell(b)))
			}
			// All lines empty after cleaning: nothing to report.
			continue
		}

		if oneLine(val) == "" {
			continue
		}
		out = append(out, label+";"+csvCell(val))
	}

	if len(lines) > 0 {
		out = append(out, "", "ORDINE;", orderHeader)
		for _, l := range lines {
			net, total := l.Compute()
			out = append(out, strings.Join([]string{
				csvCell(l.Code),
				csvCell(l.Description),
				formatQty(l.Quantity),
				fmt2(l.GrossPrice),
				fmtPct(l.Discounts[0]),
				fmtPct(l.Discounts[1]),
				fmtPct(l.Discounts[2]),
				fmtPct(l.Discounts[3]),
				fmt2(net),
				fmt2(total),
			}, ";"))
		}
		out = append(out, "", "TOTALE_NETTO_ORDINE;"+fmt2(GrandTotal(lines)))
	}

	return strings.Join(out, "\r\n")
}

// Subject builds the email subject line for a generated report.
func Subject(answers Answers, questions []catalog.Question, now time.Time) string {
	client := "Nuovo Meeting"
	if company, _ := CompanyReferent(answers, questions); company != "" {
		client = company
	}
	return fmt.Sprintf("Meeting Report; %s; %s", client, now.Format("02/01/2006"))
}

// CompanyReferent extracts the client identity from the composite-company
// answer, if present and parseable. Malformed JSON yields empty values.
func CompanyReferent(answers Answers, questions []catalog.Question) (company, referent string) {
	for _, q := range questions {
		if q.Kind != catalog.KindCompositeCompany {
			continue
		}
		if val := answers[q.ID]; val != "" {
			if c, r, ok := parseCompany(val); ok {
				return c, r
			}
		}
		return "", ""
	}
	return "", ""
}

func parseCompany(val string) (company, referent string, ok bool) {
	var payload struct {
		Company   string `json:"company"`
		Referent  string `json:"referent"`
		Referente string `json:"referente"` // legacy field name
	}
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return "", "", false
	}
	referent = payload.Referent
	if referent == "" {
		referent = payload.Referente
	}
	return oneLine(payload.Company), oneLine(referent), true
}

// oneLine collapses all internal whitespace runs (newlines included) to
// single spaces and trims the ends.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanBulletLine(s string) string {
	return oneLine(strings.TrimLeft(s, "-• \t"))
}

func splitToBullets(val string) []string {
	var bullets []string
	for _, line := range strings.Split(val, "\n") {
		if cleaned := cleanBulletLine(line); cleaned != "" {
			bullets = append(bullets, cleaned)
		}
	}
	return bullets
}

func labelify(title string) string {
	up := strings.ToUpper(oneLine(title))
	return strings.NewReplacer("’", "'").Replace(up)
}

// csvCell collapses the value to one line and applies CSV-style escaping:
// a value containing the delimiter or a quote is wrapped in quotes with
// embedded quotes doubled.
func csvCell(v string) string {
	s := oneLine(v)
	if strings.ContainsAny(s, `;"`) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// fmt2 renders money: two decimals, decimal comma.
func fmt2(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// fmtPct renders a discount percentage: whole numbers bare, fractional ones
// with two decimals and a decimal comma.
func fmtPct(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
