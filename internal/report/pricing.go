package report

import "math"

// roundCents rounds to two decimal places, half away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeLine derives the discounted unit price and the line total for one
// order line. Discounts cascade: each positive percentage applies to the
// result of the previous one, in slot order. The net unit price is rounded
// to the cent first, and the total is rounded once more after multiplying
// the rounded net by the quantity, so that the printed unit price times the
// quantity always matches the printed total.
//
// Inputs are assumed sanitized by the caller; a discount above 100 simply
// drives the net negative.
func ComputeLine(gross float64, discounts [4]float64, quantity float64) (netUnit, lineTotal float64) {
	net := gross
	for _, d := range discounts {
		if d > 0 {
			net *= 1 - d/100
		}
	}
	netUnit = roundCents(net)
	lineTotal = roundCents(netUnit * quantity)
	return netUnit, lineTotal
}

// Compute runs the pricing engine on the line's own fields.
func (l OrderLine) Compute() (netUnit, lineTotal float64) {
	return ComputeLine(l.GrossPrice, l.Discounts, l.Quantity)
}

// GrandTotal sums the already-rounded line totals. It deliberately does not
// recompute anything from aggregated gross prices.
func GrandTotal(lines []OrderLine) float64 {
	var sum float64
	for _, l := range lines {
		_, total := l.Compute()
		sum += total
	}
	return roundCents(sum)
}
