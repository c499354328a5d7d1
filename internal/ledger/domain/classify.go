package ledger

import "math"

// PaymentStatus classifies wage payment completeness for a day.
type PaymentStatus string

const (
	FullyPaid     PaymentStatus = "fully_paid"
	PartiallyPaid PaymentStatus = "partially_paid"
	Unpaid        PaymentStatus = "unpaid"
)

// Classify decides the payment status from paid versus due amounts.
// Total over all non-negative pairs; negative or non-finite inputs are
// clamped to 0 first. Nothing owed and nothing paid is settled, not
// unpaid, and an overpayment on a zero due is likewise settled.
func Classify(paid, due float64) PaymentStatus {
	paid = clampAmount(paid)
	due = clampAmount(due)
	switch {
	case paid == 0 && due > 0:
		return Unpaid
	case paid < due:
		return PartiallyPaid
	}
	return FullyPaid
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
