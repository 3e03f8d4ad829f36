package services

import (
	"khtherapy-backend/models"

	"github.com/google/uuid"
)

// EligibleBookings narrows a customer's bookings to those still open for
// invoicing: confirmed, and not yet fully paid. A booking counts as fully
// paid when its classified payments reach its resolved service price.
// Bookings whose price cannot be resolved (no matching service, zero price)
// are never excluded, so a data gap cannot hide an invoicing opportunity.
//
// The filter is recomputed from the rows passed in on every call; nothing is
// cached across customers.
func EligibleBookings(
	bookings []models.Booking,
	paymentsByBooking map[uuid.UUID][]models.Payment,
	requestsByBooking map[uuid.UUID][]models.PaymentRequest,
	services []models.Service,
) []models.Booking {
	eligible := make([]models.Booking, 0, len(bookings))
	for _, bk := range bookings {
		if bk.Status != models.BookingStatusConfirmed {
			continue
		}
		res := ResolvePrice(bk.ServiceName, bk.Date, bk.TimeOfDay, services)
		if res.UnitPrice <= 0 {
			eligible = append(eligible, bk)
			continue
		}
		buckets := ClassifyPayments(paymentsByBooking[bk.ID], requestsByBooking[bk.ID])
		if buckets.TotalPaid() >= res.UnitPrice {
			continue
		}
		eligible = append(eligible, bk)
	}
	return eligible
}
