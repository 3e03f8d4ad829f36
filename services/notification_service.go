// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"khtherapy-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type NotificationService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendPaymentRequest messages the customer with the live outstanding amount
// for an invoice. Failures are logged, never propagated into the invoice
// flow; the admin sees the send result in the notification log.
func (s *NotificationService) SendPaymentRequest(customer models.Customer, invoice models.Invoice, amountDue float64) error {
	message := fmt.Sprintf(
		"Hi %s, invoice %s from KH Therapy has €%.2f outstanding. You can settle it online or contact us to arrange payment. Thank you!",
		customer.Name, invoice.InvoiceNumber, Round2(amountDue))

	// WhatsApp when the number is in E.164 format, SMS otherwise
	channel := "sms"
	to := customer.Phone
	if strings.HasPrefix(customer.Phone, "+") {
		to = "whatsapp:" + customer.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, sendErr := s.client.Api.CreateMessage(params)
	if sendErr != nil {
		log.Printf("Failed to send payment request to %s: %v", customer.Phone, sendErr)
	} else if resp.Sid != nil {
		log.Printf("Payment request sent to %s, SID: %s", customer.Phone, *resp.Sid)
	} else {
		log.Printf("Payment request sent to %s, but no SID returned", customer.Phone)
	}

	entry := paymentRequestLog(customer, invoice, message, channel, sendErr)
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log payment request for customer %s: %v", customer.ID, err)
	}

	return sendErr
}

// paymentRequestLog builds the log row for a send attempt. SentAt is stamped
// only when the message actually went out; failed attempts keep it zero.
func paymentRequestLog(customer models.Customer, invoice models.Invoice, message, channel string, sendErr error) models.NotificationLog {
	invoiceID := invoice.ID
	entry := models.NotificationLog{
		CustomerID: customer.ID,
		InvoiceID:  &invoiceID,
		Message:    message,
		Channel:    channel,
		Status:     "sent",
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMsg = sendErr.Error()
	} else {
		entry.SentAt = time.Now()
	}
	return entry
}
