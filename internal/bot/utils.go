package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
)

// coerceDecimal parses a number accepting the decimal comma. Anything
// uncoercible yields the fallback, mirroring how the order form treats bad
// numeric input.
func coerceDecimal(s string, fallback float64) float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// ParseOrderLine reads one article from a single message in the form
//
//	codice; descrizione; lordo; sconto1 sconto2 sconto3 sconto4; quantità
//
// Discounts and quantity are optional; missing discounts are zero and a
// missing or uncoercible quantity defaults to 1.
func ParseOrderLine(text string) (report.OrderLine, error) {
	parts := strings.Split(text, ";")
	if len(parts) < 3 {
		return report.OrderLine{}, fmt.Errorf("expected at least code, description and price, got %d fields", len(parts))
	}

	code := strings.TrimSpace(parts[0])
	description := strings.TrimSpace(parts[1])
	if code == "" && description == "" {
		return report.OrderLine{}, fmt.Errorf("code and description are both empty")
	}

	gross := coerceDecimal(parts[2], 0)

	var discounts [4]float64
	if len(parts) >= 4 {
		for i, f := range strings.Fields(parts[3]) {
			if i >= len(discounts) {
				break
			}
			discounts[i] = coerceDecimal(f, 0)
		}
	}

	quantity := 1.0
	if len(parts) >= 5 {
		quantity = coerceDecimal(parts[4], 1)
	}

	return report.NewOrderLine(code, description, gross, discounts, quantity), nil
}

// FormatEuro renders an amount for chat display, decimal comma convention.
func FormatEuro(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + " €"
}

// IsValidEmail does a plausibility check on a recipient address. Real
// validation happens at the SMTP server; this only catches typos.
func IsValidEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	at := strings.Index(addr, "@")
	if at <= 0 || at != strings.LastIndex(addr, "@") {
		return false
	}
	domain := addr[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return !strings.ContainsAny(addr, " \t\n")
}

// FormatOrderLines renders the current quote for the order menu message.
func FormatOrderLines(lines []report.OrderLine) string {
	if len(lines) == 0 {
		return "Nessun articolo inserito."
	}

	var sb strings.Builder
	for i, l := range lines {
		net, total := l.Compute()
		fmt.Fprintf(&sb, "%d. %s — %s\n   lordo %s, netto %s × %s = %s\n",
			i+1, l.Code, l.Description,
			FormatEuro(l.GrossPrice), FormatEuro(net),
			strconv.FormatFloat(l.Quantity, 'f', -1, 64), FormatEuro(total))
	}
	fmt.Fprintf(&sb, "\nTotale: %s (%d articoli)", FormatEuro(report.GrandTotal(lines)), len(lines))
	return sb.String()
}
