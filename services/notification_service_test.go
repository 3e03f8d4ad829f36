package services

import (
	"errors"
	"testing"

	"khtherapy-backend/models"

	"github.com/google/uuid"
)

func TestPaymentRequestLog(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Name: "Ana"}
	invoice := models.Invoice{ID: uuid.New(), InvoiceNumber: "INV-202506-001"}

	ok := paymentRequestLog(customer, invoice, "msg", "sms", nil)
	if ok.Status != "sent" {
		t.Errorf("Status = %q, want sent", ok.Status)
	}
	if ok.SentAt.IsZero() {
		t.Error("successful send must stamp SentAt")
	}
	if ok.InvoiceID == nil || *ok.InvoiceID != invoice.ID {
		t.Error("log entry not linked to the invoice")
	}

	failed := paymentRequestLog(customer, invoice, "msg", "whatsapp", errors.New("unreachable"))
	if failed.Status != "failed" || failed.ErrorMsg != "unreachable" {
		t.Errorf("Status = %q, ErrorMsg = %q; want failed/unreachable", failed.Status, failed.ErrorMsg)
	}
	if !failed.SentAt.IsZero() {
		t.Error("failed send must not stamp SentAt")
	}
}
