package report

import (
	"strings"

	"github.com/google/uuid"
)

// Answers maps a question id to its raw answer text. A missing or empty
// entry means the question was never answered and stays out of the report.
type Answers map[string]string

// OrderLine is one article on the quote. Discounts always hold exactly four
// slots applied in order; an unused slot is zero.
type OrderLine struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Code        string     `json:"code" db:"code"`
	Description string     `json:"description" db:"description"`
	GrossPrice  float64    `json:"gross_price" db:"gross_price"`
	Discounts   [4]float64 `json:"discounts"`
	Quantity    float64    `json:"quantity" db:"quantity"`
}

// NewOrderLine builds a sanitized line with a fresh id: negative prices and
// discounts are clamped to zero, a non-positive quantity becomes 1.
func NewOrderLine(code, description string, gross float64, discounts [4]float64, quantity float64) OrderLine {
	if gross < 0 {
		gross = 0
	}
	for i, d := range discounts {
		if d < 0 {
			discounts[i] = 0
		}
	}
	if quantity <= 0 {
		quantity = 1
	}
	return OrderLine{
		ID:          uuid.New(),
		Code:        strings.TrimSpace(code),
		Description: strings.TrimSpace(description),
		GrossPrice:  gross,
		Discounts:   discounts,
		Quantity:    quantity,
	}
}

// Replace returns a full copy of the given line keeping only the id of the
// receiver. Lines are never patched field by field.
func (l OrderLine) Replace(with OrderLine) OrderLine {
	with.ID = l.ID
	return with
}
