package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateInvoiceInput(t *testing.T) {
	customerID := uuid.New()
	okItems := []ItemInput{{Description: "Deep Tissue Massage", Quantity: 1, UnitPrice: 65}}

	tests := []struct {
		name        string
		customerID  uuid.UUID
		invoiceType string
		items       []ItemInput
		wantErr     error
	}{
		{"valid online", customerID, "online", okItems, nil},
		{"valid offline", customerID, "offline", okItems, nil},
		{"missing customer", uuid.Nil, "online", okItems, ErrCustomerRequired},
		{"unknown type", customerID, "cash", okItems, ErrInvalidInvoiceType},
		{"no items", customerID, "online", nil, ErrEmptyItems},
		{
			"zero quantity", customerID, "online",
			[]ItemInput{{Description: "x", Quantity: 0, UnitPrice: 65}},
			ErrInvalidQuantity,
		},
		{
			"negative unit price", customerID, "online",
			[]ItemInput{{Description: "x", Quantity: 1, UnitPrice: -5}},
			ErrInvalidUnitPrice,
		},
		{
			"second item invalid", customerID, "online",
			[]ItemInput{
				{Description: "ok", Quantity: 1, UnitPrice: 65},
				{Description: "bad", Quantity: 1, UnitPrice: 0},
			},
			ErrInvalidUnitPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvoiceInput(tt.customerID, tt.invoiceType, tt.items)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildItemsRecomputesTotals(t *testing.T) {
	invoiceID := uuid.New()
	built := BuildItems(invoiceID, []ItemInput{
		{Description: "Session", Quantity: 3, UnitPrice: 21.50},
	})

	if len(built) != 1 {
		t.Fatalf("built %d items, want 1", len(built))
	}
	if built[0].TotalPrice != 64.50 {
		t.Errorf("TotalPrice = %v, want 64.50", built[0].TotalPrice)
	}
	if built[0].InvoiceID != invoiceID {
		t.Errorf("InvoiceID not assigned")
	}

	// Idempotence: rebuilding from the same inputs yields the same total
	again := BuildItems(invoiceID, []ItemInput{
		{Description: "Session", Quantity: 3, UnitPrice: 21.50},
	})
	if again[0].TotalPrice != built[0].TotalPrice {
		t.Errorf("TotalPrice changed across rebuilds: %v vs %v", again[0].TotalPrice, built[0].TotalPrice)
	}
}
