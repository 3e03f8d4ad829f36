package services

import (
	"errors"
	"fmt"

	"khtherapy-backend/models"

	"github.com/google/uuid"
)

// Sentinel errors let controllers map business failures to responses
// programmatically. Validation failures always block before any write.
var (
	ErrCustomerRequired   = errors.New("an invoice requires a customer")
	ErrEmptyItems         = errors.New("an invoice requires at least one line item")
	ErrInvalidQuantity    = errors.New("item quantity must be greater than zero")
	ErrInvalidUnitPrice   = errors.New("item unit price must be greater than zero")
	ErrInvalidInvoiceType = errors.New("invoice type must be online or offline")
)

// ValidationError wraps a sentinel with row-level detail.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ItemInput is a line item as submitted by the admin form.
type ItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ValidateInvoiceInput enforces the submission rules: a customer, a known
// invoice type, and at least one item with positive quantity and unit price.
func ValidateInvoiceInput(customerID uuid.UUID, invoiceType string, items []ItemInput) error {
	if customerID == uuid.Nil {
		return &ValidationError{Err: ErrCustomerRequired}
	}
	if invoiceType != models.InvoiceTypeOnline && invoiceType != models.InvoiceTypeOffline {
		return &ValidationError{Err: ErrInvalidInvoiceType, Details: invoiceType}
	}
	if len(items) == 0 {
		return &ValidationError{Err: ErrEmptyItems}
	}
	for i, it := range items {
		if it.Quantity <= 0 {
			return &ValidationError{Err: ErrInvalidQuantity, Details: fmt.Sprintf("item %d", i+1)}
		}
		if it.UnitPrice <= 0 {
			return &ValidationError{Err: ErrInvalidUnitPrice, Details: fmt.Sprintf("item %d", i+1)}
		}
	}
	return nil
}

// BuildItems materializes line items, recomputing total_price from quantity
// and unit price on every mutation.
func BuildItems(invoiceID uuid.UUID, items []ItemInput) []models.InvoiceItem {
	built := make([]models.InvoiceItem, 0, len(items))
	for _, it := range items {
		built = append(built, models.InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  float64(it.Quantity) * it.UnitPrice,
		})
	}
	return built
}
