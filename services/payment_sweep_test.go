package services

import (
	"testing"
	"time"

	"khtherapy-backend/models"

	"github.com/robfig/cron/v3"
)

func TestSweepDecision(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	today := now

	tests := []struct {
		name       string
		invoice    models.Invoice
		buckets    PaymentBuckets
		wantStatus string
		wantStamp  bool
	}{
		{
			// A payment covering the amount due promotes without an admin
			// click
			name:       "covering payment promotes to paid",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52},
			buckets:    PaymentBuckets{OnlineInvoice: 52},
			wantStatus: "paid",
			wantStamp:  true,
		},
		{
			name:       "deposit plus invoice payment promotes to paid",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52},
			buckets:    PaymentBuckets{Deposit: 13, OnlineInvoice: 39},
			wantStatus: "paid",
			wantStamp:  true,
		},
		{
			name:       "partial invoice payment",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52},
			buckets:    PaymentBuckets{OfflineInvoice: 20},
			wantStatus: "partial",
			wantStamp:  false,
		},
		{
			// The deposit was already deducted from the stored amount due,
			// so on its own it never signals partial payment
			name:       "deposit alone does not mark partial",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52},
			buckets:    PaymentBuckets{Deposit: 13},
			wantStatus: "sent",
			wantStamp:  false,
		},
		{
			name:       "past due date goes overdue",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52, DueDate: &yesterday},
			wantStatus: "overdue",
			wantStamp:  false,
		},
		{
			name:       "due today stays put",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 52, DueDate: &today},
			wantStatus: "sent",
			wantStamp:  false,
		},
		{
			name:       "overdue invoice settles when covered",
			invoice:    models.Invoice{Status: "overdue", TotalAmount: 52, DueDate: &yesterday},
			buckets:    PaymentBuckets{OnlineInvoice: 52},
			wantStatus: "paid",
			wantStamp:  true,
		},
		{
			name:       "zero total never promotes",
			invoice:    models.Invoice{Status: "sent", TotalAmount: 0},
			buckets:    PaymentBuckets{OnlineInvoice: 10},
			wantStatus: "sent",
			wantStamp:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus, gotStamp := SweepDecision(tt.invoice, tt.buckets, now)
			if gotStatus != tt.wantStatus || gotStamp != tt.wantStamp {
				t.Errorf("SweepDecision = (%q, %v), want (%q, %v)",
					gotStatus, gotStamp, tt.wantStatus, tt.wantStamp)
			}
		})
	}
}

func TestSweepScheduleParses(t *testing.T) {
	if _, err := cron.ParseStandard(sweepSchedule); err != nil {
		t.Fatalf("sweep schedule %q does not parse: %v", sweepSchedule, err)
	}
}
