package ledger

import (
	"math"
	"testing"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name string
		paid float64
		due  float64
		want PaymentStatus
	}{
		{"nothing owed nothing paid", 0, 0, FullyPaid},
		{"exact payment", 200, 200, FullyPaid},
		{"overpayment", 300, 200, FullyPaid},
		{"overpayment on zero due", 50, 0, FullyPaid},
		{"partial payment", 100, 200, PartiallyPaid},
		{"one unit short", 199, 200, PartiallyPaid},
		{"no payment", 0, 200, Unpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.paid, tc.due); got != tc.want {
				t.Fatalf("Classify(%v, %v) = %q, want %q", tc.paid, tc.due, got, tc.want)
			}
		})
	}
}

func TestClassifyClampsInvalidInput(t *testing.T) {
	if got := Classify(-50, 200); got != Unpaid {
		t.Fatalf("negative paid: got %q, want %q", got, Unpaid)
	}
	if got := Classify(100, -200); got != FullyPaid {
		t.Fatalf("negative due: got %q, want %q", got, FullyPaid)
	}
	if got := Classify(math.NaN(), 200); got != Unpaid {
		t.Fatalf("NaN paid: got %q, want %q", got, Unpaid)
	}
	if got := Classify(math.Inf(1), math.Inf(1)); got != FullyPaid {
		t.Fatalf("Inf pair: got %q, want %q", got, FullyPaid)
	}
}

func TestClassifyTotality(t *testing.T) {
	amounts := []float64{0, 1, 99.5, 100, 100.5, 10000}
	for _, paid := range amounts {
		for _, due := range amounts {
			got := Classify(paid, due)
			if got != FullyPaid && got != PartiallyPaid && got != Unpaid {
				t.Fatalf("Classify(%v, %v) returned unexpected status %q", paid, due, got)
			}
		}
	}
}
