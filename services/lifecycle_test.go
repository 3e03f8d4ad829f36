package services

import (
	"testing"

	"khtherapy-backend/models"
)

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(models.InvoiceTypeOffline); got != models.InvoiceStatusPaid {
		t.Errorf("offline initial status = %q, want paid", got)
	}
	if got := InitialStatus(models.InvoiceTypeOnline); got != models.InvoiceStatusDraft {
		t.Errorf("online initial status = %q, want draft", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{"draft", "sent", true},
		{"draft", "cancelled", true},
		{"draft", "paid", false},
		{"sent", "paid", true},
		{"sent", "partial", true},
		{"sent", "overdue", true},
		{"sent", "cancelled", true},
		{"partial", "paid", true},
		{"partial", "overdue", true},
		{"partial", "cancelled", true},
		{"overdue", "paid", true},
		{"overdue", "partial", true},
		{"paid", "sent", false},
		{"paid", "cancelled", false},
		{"cancelled", "draft", false},
		{"cancelled", "sent", false},
		{"sent", "sent", false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEditDeleteCancelGates(t *testing.T) {
	tests := []struct {
		status    string
		canEdit   bool
		canDelete bool
		canCancel bool
	}{
		{"draft", true, true, true},
		{"sent", true, false, true},
		{"overdue", true, false, true},
		{"partial", false, false, true},
		{"paid", false, false, false},
		{"cancelled", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := CanEdit(tt.status); got != tt.canEdit {
				t.Errorf("CanEdit = %v, want %v", got, tt.canEdit)
			}
			if got := CanDelete(tt.status); got != tt.canDelete {
				t.Errorf("CanDelete = %v, want %v", got, tt.canDelete)
			}
			if got := CanCancel(tt.status); got != tt.canCancel {
				t.Errorf("CanCancel = %v, want %v", got, tt.canCancel)
			}
		})
	}
}
