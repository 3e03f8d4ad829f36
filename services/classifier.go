package services

import (
	"fmt"
	"strconv"
	"strings"

	"khtherapy-backend/models"
)

// PaymentBuckets is the result of classifying the raw payment rows attached
// to a booking and/or invoice. Every settled row lands in exactly one bucket,
// so the four sums partition the settled total.
type PaymentBuckets struct {
	Deposit        float64
	Full           float64
	OfflineInvoice float64
	OnlineInvoice  float64

	// Warnings carries non-fatal data-quality notes (unparseable amounts);
	// classification never fails.
	Warnings []string
}

// TotalPaid is the settled total across all buckets.
func (b PaymentBuckets) TotalPaid() float64 {
	return b.Deposit + b.Full + b.OfflineInvoice + b.OnlineInvoice
}

func isSettled(status string) bool {
	return status == models.PaymentStatusPaid || status == models.PaymentStatusCompleted
}

// ParseAmount parses a legacy text amount ("65", "€65.00", "1,250.50").
// Unparseable or negative values report ok=false and count as zero.
func ParseAmount(raw string) (amount float64, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ClassifyPayments labels each settled payment row as deposit, full payment,
// or an offline/online invoice payment:
//
//   - only rows with status paid or completed count;
//   - rows attached to an invoice split by method: "offline" vs anything else;
//   - remaining rows follow their payment_type tag; legacy rows without a tag
//     classify as deposits, same as the PaymentRequest fallback;
//   - when a booking has no payment rows at all, its paid payment requests
//     stand in as deposits.
func ClassifyPayments(payments []models.Payment, requests []models.PaymentRequest) PaymentBuckets {
	var b PaymentBuckets

	for _, p := range payments {
		if !isSettled(p.Status) {
			continue
		}
		amount, ok := ParseAmount(p.Amount)
		if !ok {
			b.Warnings = append(b.Warnings,
				fmt.Sprintf("payment %s: unparseable amount %q counted as 0", p.ID, p.Amount))
		}
		switch {
		case p.InvoiceID != nil:
			if strings.EqualFold(p.PaymentMethod, models.PaymentMethodOffline) {
				b.OfflineInvoice += amount
			} else {
				b.OnlineInvoice += amount
			}
		case p.PaymentType == models.PaymentTypeFull:
			b.Full += amount
		default:
			b.Deposit += amount
		}
	}

	if len(payments) == 0 {
		for _, r := range requests {
			if r.Status != models.PaymentStatusPaid {
				continue
			}
			b.Deposit += r.Amount
		}
	}

	return b
}
