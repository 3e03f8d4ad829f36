package services

import (
	"math"
	"testing"

	"khtherapy-backend/models"

	"github.com/google/uuid"
)

func uuidPtr() *uuid.UUID {
	id := uuid.New()
	return &id
}

func TestClassifyPayments(t *testing.T) {
	invoiceID := uuidPtr()

	tests := []struct {
		name     string
		payments []models.Payment
		requests []models.PaymentRequest
		want     PaymentBuckets
	}{
		{
			name: "explicit deposit and full tags",
			payments: []models.Payment{
				{Amount: "13", Status: "paid", PaymentType: "deposit"},
				{Amount: "52", Status: "completed", PaymentType: "full"},
			},
			want: PaymentBuckets{Deposit: 13, Full: 52},
		},
		{
			name: "non-settled rows are ignored",
			payments: []models.Payment{
				{Amount: "13", Status: "pending", PaymentType: "deposit"},
				{Amount: "52", Status: "failed", PaymentType: "full"},
				{Amount: "10", Status: "processing", PaymentType: "deposit"},
			},
			want: PaymentBuckets{},
		},
		{
			name: "invoice rows split by method",
			payments: []models.Payment{
				{Amount: "30", Status: "paid", InvoiceID: invoiceID, PaymentMethod: "offline"},
				{Amount: "22", Status: "paid", InvoiceID: invoiceID, PaymentMethod: "stripe"},
			},
			want: PaymentBuckets{OfflineInvoice: 30, OnlineInvoice: 22},
		},
		{
			name: "offline method match is case-insensitive",
			payments: []models.Payment{
				{Amount: "30", Status: "paid", InvoiceID: invoiceID, PaymentMethod: "Offline"},
			},
			want: PaymentBuckets{OfflineInvoice: 30},
		},
		{
			name: "legacy untagged booking payment counts as deposit",
			payments: []models.Payment{
				{Amount: "13", Status: "paid"},
			},
			want: PaymentBuckets{Deposit: 13},
		},
		{
			name: "paid payment requests stand in when no payment rows exist",
			requests: []models.PaymentRequest{
				{Amount: 13, Status: "paid"},
				{Amount: 20, Status: "pending"},
			},
			want: PaymentBuckets{Deposit: 13},
		},
		{
			name: "payment rows suppress the request fallback",
			payments: []models.Payment{
				{Amount: "13", Status: "paid", PaymentType: "deposit"},
			},
			requests: []models.PaymentRequest{
				{Amount: 99, Status: "paid"},
			},
			want: PaymentBuckets{Deposit: 13},
		},
		{
			name: "euro prefix and thousands separators parse",
			payments: []models.Payment{
				{Amount: "€65.00", Status: "paid", PaymentType: "full"},
				{Amount: "1,250.50", Status: "paid", PaymentType: "deposit"},
			},
			want: PaymentBuckets{Deposit: 1250.50, Full: 65},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPayments(tt.payments, tt.requests)
			if got.Deposit != tt.want.Deposit ||
				got.Full != tt.want.Full ||
				got.OfflineInvoice != tt.want.OfflineInvoice ||
				got.OnlineInvoice != tt.want.OnlineInvoice {
				t.Errorf("buckets = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyPaymentsUnparseableAmount(t *testing.T) {
	got := ClassifyPayments([]models.Payment{
		{Amount: "not-a-number", Status: "paid", PaymentType: "deposit"},
		{Amount: "13", Status: "paid", PaymentType: "deposit"},
	}, nil)

	if got.Deposit != 13 {
		t.Errorf("Deposit = %v, want 13 (bad row counted as 0)", got.Deposit)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected one data-quality warning, got %v", got.Warnings)
	}
}

func TestClassifyPaymentsNegativeAmount(t *testing.T) {
	got := ClassifyPayments([]models.Payment{
		{Amount: "-10", Status: "paid", PaymentType: "deposit"},
	}, nil)
	if got.Deposit != 0 {
		t.Errorf("Deposit = %v, want 0 for negative amount", got.Deposit)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected a warning for negative amount, got %v", got.Warnings)
	}
}

// Partition property: the four buckets sum to exactly the settled total,
// with no double-counting and no loss.
func TestClassificationPartition(t *testing.T) {
	invoiceID := uuidPtr()
	payments := []models.Payment{
		{Amount: "13", Status: "paid", PaymentType: "deposit"},
		{Amount: "52", Status: "completed", PaymentType: "full"},
		{Amount: "30", Status: "paid", InvoiceID: invoiceID, PaymentMethod: "offline"},
		{Amount: "22.50", Status: "paid", InvoiceID: invoiceID, PaymentMethod: "stripe"},
		{Amount: "7", Status: "paid"},                                                                          // untagged legacy row
		{Amount: "100", Status: "failed"},                                                                      // excluded
		{Amount: "100", Status: "pending"},                                                                     // excluded
		{Amount: "44", Status: "paid", PaymentType: "deposit", InvoiceID: invoiceID, PaymentMethod: "offline"}, // invoice bucket wins
	}

	var settledTotal float64
	for _, p := range payments {
		if p.Status == "paid" || p.Status == "completed" {
			v, _ := ParseAmount(p.Amount)
			settledTotal += v
		}
	}

	got := ClassifyPayments(payments, nil)
	sum := got.Deposit + got.Full + got.OfflineInvoice + got.OnlineInvoice
	if math.Abs(sum-settledTotal) > 1e-9 {
		t.Errorf("bucket sum %v != settled total %v", sum, settledTotal)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"65", 65, true},
		{"65.50", 65.50, true},
		{"€65", 65, true},
		{"€ 65.00", 65, true},
		{"1,250.50", 1250.50, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
