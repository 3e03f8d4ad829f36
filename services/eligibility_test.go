package services

import (
	"testing"

	"khtherapy-backend/models"

	"github.com/google/uuid"
)

func TestEligibleBookings(t *testing.T) {
	svcs := []models.Service{
		{Name: "Deep Tissue Massage", Price: 65},
	}

	fullyPaid := models.Booking{ID: uuid.New(), ServiceName: "Deep Tissue Massage", Status: "confirmed"}
	depositOnly := models.Booking{ID: uuid.New(), ServiceName: "Deep Tissue Massage", Status: "confirmed"}
	unpriced := models.Booking{ID: uuid.New(), ServiceName: "Mystery Treatment", Status: "confirmed"}
	pending := models.Booking{ID: uuid.New(), ServiceName: "Deep Tissue Massage", Status: "pending"}
	cancelled := models.Booking{ID: uuid.New(), ServiceName: "Deep Tissue Massage", Status: "cancelled"}
	requestPaid := models.Booking{ID: uuid.New(), ServiceName: "Deep Tissue Massage", Status: "confirmed"}

	payments := map[uuid.UUID][]models.Payment{
		fullyPaid.ID: {
			{Amount: "13", Status: "paid", PaymentType: "deposit"},
			{Amount: "52", Status: "paid", PaymentType: "full"},
		},
		depositOnly.ID: {
			{Amount: "13", Status: "paid", PaymentType: "deposit"},
		},
	}
	requests := map[uuid.UUID][]models.PaymentRequest{
		// Deposit-sized request: booking stays open
		requestPaid.ID: {{Amount: 13, Status: "paid"}},
	}

	got := EligibleBookings(
		[]models.Booking{fullyPaid, depositOnly, unpriced, pending, cancelled, requestPaid},
		payments, requests, svcs)

	ids := make(map[uuid.UUID]bool)
	for _, b := range got {
		ids[b.ID] = true
	}

	if ids[fullyPaid.ID] {
		t.Error("fully paid booking must be excluded")
	}
	if !ids[depositOnly.ID] {
		t.Error("deposit-only booking must stay eligible")
	}
	if !ids[unpriced.ID] {
		t.Error("booking with unresolvable price must stay eligible (fail open)")
	}
	if ids[pending.ID] {
		t.Error("pending booking is not a candidate")
	}
	if ids[cancelled.ID] {
		t.Error("cancelled booking is not a candidate")
	}
	if !ids[requestPaid.ID] {
		t.Error("partially covered booking must stay eligible")
	}
}

func TestEligibleBookingsOverpaidExcluded(t *testing.T) {
	svcs := []models.Service{{Name: "Physio", Price: 50}}
	bk := models.Booking{ID: uuid.New(), ServiceName: "Physio", Status: "confirmed"}

	got := EligibleBookings([]models.Booking{bk}, map[uuid.UUID][]models.Payment{
		bk.ID: {{Amount: "60", Status: "paid", PaymentType: "full"}},
	}, nil, svcs)

	if len(got) != 0 {
		t.Errorf("overpaid booking must be excluded, got %d bookings", len(got))
	}
}

func TestEligibleBookingsEmpty(t *testing.T) {
	if got := EligibleBookings(nil, nil, nil, nil); len(got) != 0 {
		t.Errorf("expected no bookings, got %d", len(got))
	}
}
