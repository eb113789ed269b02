package report

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeLine(t *testing.T) {
	cases := []struct {
		name      string
		gross     float64
		discounts [4]float64
		qty       float64
		wantNet   float64
		wantTotal float64
	}{
		{
			name:      "no discounts",
			gross:     100,
			qty:       1,
			wantNet:   100,
			wantTotal: 100,
		},
		{
			name:      "single discount",
			gross:     100,
			discounts: [4]float64{10},
			qty:       1,
			wantNet:   90,
			wantTotal: 90,
		},
		{
			name: "discounts cascade instead of summing",
			// 100 * 0.9 * 0.8 = 72, not 100 * (1 - 0.30) = 70.
			gross:     100,
			discounts: [4]float64{10, 20},
			qty:       1,
			wantNet:   72,
			wantTotal: 72,
		},
		{
			name:      "all four slots apply in order",
			gross:     1000,
			discounts: [4]float64{50, 10, 10, 10},
			qty:       1,
			wantNet:   364.5,
			wantTotal: 364.5,
		},
		{
			name:      "zero slots are skipped",
			gross:     200,
			discounts: [4]float64{0, 25, 0, 0},
			qty:       2,
			wantNet:   150,
			wantTotal: 300,
		},
		{
			name:      "quantity multiplies the rounded net",
			gross:     9.99,
			discounts: [4]float64{5},
			qty:       3,
			// 9.99 * 0.95 = 9.4905 -> 9.49, then 9.49 * 3 = 28.47.
			wantNet:   9.49,
			wantTotal: 28.47,
		},
		{
			name:      "discount above 100 goes negative",
			gross:     50,
			discounts: [4]float64{150},
			qty:       1,
			wantNet:   -25,
			wantTotal: -25,
		},
		{
			name:      "zero gross",
			gross:     0,
			discounts: [4]float64{10, 20, 30, 40},
			qty:       5,
			wantNet:   0,
			wantTotal: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net, total := ComputeLine(tc.gross, tc.discounts, tc.qty)
			if !almostEqual(net, tc.wantNet) {
				t.Errorf("net = %v, want %v", net, tc.wantNet)
			}
			if !almostEqual(total, tc.wantTotal) {
				t.Errorf("total = %v, want %v", total, tc.wantTotal)
			}
		})
	}
}

func TestComputeLineRoundsHalfAwayFromZero(t *testing.T) {
	// Half-cent boundary on the net price.
	net, _ := ComputeLine(0.125, [4]float64{}, 1)
	if net != 0.13 {
		t.Errorf("net = %v, want 0.13", net)
	}

	// float64(19.995) stores slightly above the written value and
	// 19.995*100 evaluates to exactly 1999.5, which rounds up.
	net, _ = ComputeLine(19.995, [4]float64{}, 1)
	if net != 20.00 {
		t.Errorf("net = %v, want 20.00", net)
	}

	// Negative nets round away from zero too.
	net, _ = ComputeLine(0.125, [4]float64{200}, 1)
	if net != -0.13 {
		t.Errorf("net = %v, want -0.13", net)
	}
}

func TestComputeLineRoundsNetBeforeMultiplying(t *testing.T) {
	// 100 with a 66.667% discount nets 33.333 -> rounds to 33.33; times 3
	// gives 99.99. Rounding the raw product first would give 100.00.
	net, total := ComputeLine(100, [4]float64{66.667}, 3)
	if net != 33.33 {
		t.Fatalf("net = %v, want 33.33", net)
	}
	if total != 99.99 {
		t.Errorf("total = %v, want 99.99 (rounded net times quantity)", total)
	}
}

func TestComputeLineNeverExceedsGross(t *testing.T) {
	grosses := []float64{0.01, 1, 19.99, 250, 12345.67}
	discounts := [][4]float64{
		{1}, {0, 0, 0, 99}, {50, 50}, {10, 20, 30, 40}, {0.5, 0, 0.5, 0},
	}
	for _, g := range grosses {
		for _, ds := range discounts {
			net, _ := ComputeLine(g, ds, 1)
			if net > g {
				t.Errorf("gross %v discounts %v: net %v exceeds gross", g, ds, net)
			}
		}
	}
}

func TestGrandTotalSumsRoundedLineTotals(t *testing.T) {
	lines := []OrderLine{
		NewOrderLine("A", "first", 100, [4]float64{66.667}, 3),  // 99.99
		NewOrderLine("B", "second", 9.99, [4]float64{5}, 3),     // 28.47
		NewOrderLine("C", "third", 100, [4]float64{10, 20}, 1),  // 72.00
	}
	want := 99.99 + 28.47 + 72.00
	if got := GrandTotal(lines); !almostEqual(got, roundCents(want)) {
		t.Errorf("grand total = %v, want %v", got, want)
	}
}

func TestNewOrderLineSanitizesInput(t *testing.T) {
	l := NewOrderLine("  X1 ", " desc ", -5, [4]float64{-10, 20, -1, 0}, 0)
	if l.GrossPrice != 0 {
		t.Errorf("gross = %v, want 0", l.GrossPrice)
	}
	if l.Quantity != 1 {
		t.Errorf("quantity = %v, want 1", l.Quantity)
	}
	if l.Discounts != [4]float64{0, 20, 0, 0} {
		t.Errorf("discounts = %v, want [0 20 0 0]", l.Discounts)
	}
	if l.Code != "X1" || l.Description != "desc" {
		t.Errorf("code/description not trimmed: %q %q", l.Code, l.Description)
	}
	if l.ID == (OrderLine{}).ID {
		t.Error("expected a generated id")
	}
}

func TestReplaceKeepsID(t *testing.T) {
	orig := NewOrderLine("A", "one", 10, [4]float64{}, 1)
	repl := orig.Replace(NewOrderLine("B", "two", 20, [4]float64{5}, 2))
	if repl.ID != orig.ID {
		t.Error("replacement must keep the original id")
	}
	if repl.Code != "B" || repl.GrossPrice != 20 {
		t.Errorf("replacement fields not applied: %+v", repl)
	}
}
