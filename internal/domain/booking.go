package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment    BookingStatus = "PENDING_PAYMENT"
	BookingStatusPendingCollection BookingStatus = "PENDING_COLLECTION"
	BookingStatusPendingDelivery   BookingStatus = "PENDING_DELIVERY"
	BookingStatusReturned          BookingStatus = "RETURNED"
)

// BookingRecord is the journaled snapshot of a booking.
type BookingRecord struct {
	BookingID  string        `json:"booking_id"`
	CustomerID string        `json:"customer_id"`
	ProviderID string        `json:"provider_id"`
	PartnerID  *string       `json:"partner_id,omitempty"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	BikeIDs    []string      `json:"bike_ids"`
	Price      string        `json:"price"`
	Deposit    string        `json:"deposit"`
	Status     BookingStatus `json:"status"`
	Collected  bool          `json:"collected"`
	CreatedOn  time.Time     `json:"created_on"`
	UpdatedOn  time.Time     `json:"updated_on"`
}
