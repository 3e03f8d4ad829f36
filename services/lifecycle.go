package services

import "khtherapy-backend/models"

// Invoice lifecycle:
//
//	draft -> sent -> {paid, partial, overdue}
//	any non-paid state -> cancelled (admin action)
//
// Offline invoices enter directly at paid. paid and cancelled are terminal;
// paid, partial and cancelled invoices are locked for editing. Only drafts
// may be deleted.

// InitialStatus is the state an invoice enters at creation.
func InitialStatus(invoiceType string) string {
	if invoiceType == models.InvoiceTypeOffline {
		return models.InvoiceStatusPaid
	}
	return models.InvoiceStatusDraft
}

// CanTransition reports whether the lifecycle permits moving between states.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case models.InvoiceStatusDraft:
		return to == models.InvoiceStatusSent || to == models.InvoiceStatusCancelled
	case models.InvoiceStatusSent:
		return to == models.InvoiceStatusPaid ||
			to == models.InvoiceStatusPartial ||
			to == models.InvoiceStatusOverdue ||
			to == models.InvoiceStatusCancelled
	case models.InvoiceStatusPartial, models.InvoiceStatusOverdue:
		return to == models.InvoiceStatusPaid ||
			to == models.InvoiceStatusPartial ||
			to == models.InvoiceStatusOverdue ||
			to == models.InvoiceStatusCancelled
	default:
		// paid and cancelled are terminal
		return false
	}
}

// CanEdit reports whether the invoice may still be modified.
func CanEdit(status string) bool {
	switch status {
	case models.InvoiceStatusPaid, models.InvoiceStatusPartial, models.InvoiceStatusCancelled:
		return false
	}
	return true
}

// CanDelete permits deletion from draft only.
func CanDelete(status string) bool {
	return status == models.InvoiceStatusDraft
}

// CanCancel permits cancellation from any non-paid, non-cancelled state.
func CanCancel(status string) bool {
	return status != models.InvoiceStatusPaid && status != models.InvoiceStatusCancelled
}
