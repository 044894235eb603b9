package http

import (
	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/rental"
)

type registerCustomerRequest struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Postcode  string `json:"postcode"`
	Address   string `json:"address"`
}

type registerCustomerResponse struct {
	Customer    customerDTO `json:"customer"`
	AccessToken string      `json:"access_token"`
}

type searchQuotesRequest struct {
	// Postcode defaults to the customer's own postcode.
	Postcode  string         `json:"postcode"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Bikes     map[string]int `json:"bikes"`
}

type createBookingRequest struct {
	QuoteID   string `json:"quote_id"`
	PartnerID string `json:"partner_id,omitempty"`
	Collect   bool   `json:"collect"`
}

type returnOrderRequest struct {
	BookingID string `json:"booking_id"`
}

type returnOrderResponse struct {
	BookingID string `json:"booking_id"`
	Outcome   string `json:"outcome"`
}

type customerDTO struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	Surname   string          `json:"surname"`
	Email     string          `json:"email,omitempty"`
	Address   domain.Location `json:"address"`
}

type providerDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Location domain.Location `json:"location"`
	Partners []string        `json:"partners"`
	Stock    map[string]int  `json:"stock"`
}

type bikeDTO struct {
	ID     string `json:"id"`
	TypeID string `json:"type_id"`
}

type quoteDTO struct {
	ID           string          `json:"id"`
	ProviderID   string          `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Bikes        []bikeDTO       `json:"bikes"`
	Price        decimal.Decimal `json:"price"`
	Deposit      decimal.Decimal `json:"deposit"`
}

type bookingDTO struct {
	ID         string               `json:"id"`
	ProviderID string               `json:"provider_id"`
	PartnerID  string               `json:"partner_id,omitempty"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	Bikes      []bikeDTO            `json:"bikes"`
	Price      decimal.Decimal      `json:"price"`
	Deposit    decimal.Decimal      `json:"deposit"`
	Status     domain.BookingStatus `json:"status"`
	Collected  bool                 `json:"collected"`
}

func mapCustomer(c *rental.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		FirstName: c.FirstName,
		Surname:   c.Surname,
		Email:     c.Email,
		Address:   c.Address,
	}
}

func mapProvider(p *rental.BikeProvider) providerDTO {
	dto := providerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Location: p.Location(),
		Partners: []string{},
		Stock:    make(map[string]int),
	}
	for _, partner := range p.Partners() {
		dto.Partners = append(dto.Partners, partner.ID)
	}
	for _, bt := range p.BikeTypes() {
		dto.Stock[bt.ID] = len(p.Stock(bt))
	}
	return dto
}

func mapBikes(bikes []*domain.Bike) []bikeDTO {
	out := make([]bikeDTO, 0, len(bikes))
	for _, b := range bikes {
		out = append(out, bikeDTO{ID: b.ID, TypeID: b.Type.ID})
	}
	return out
}

func mapQuote(q *rental.Quote) quoteDTO {
	return quoteDTO{
		ID:           q.ID(),
		ProviderID:   q.Provider().ID,
		ProviderName: q.Provider().Name,
		StartDate:    q.Dates().Start.Format(domain.DateLayout),
		EndDate:      q.Dates().End.Format(domain.DateLayout),
		Bikes:        mapBikes(q.Bikes()),
		Price:        q.Price(),
		Deposit:      q.Deposit(),
	}
}

func mapBooking(b *rental.BookedQuote) bookingDTO {
	dto := bookingDTO{
		ID:         b.ID(),
		ProviderID: b.Provider().ID,
		StartDate:  b.Dates().Start.Format(domain.DateLayout),
		EndDate:    b.Dates().End.Format(domain.DateLayout),
		Bikes:      mapBikes(b.Bikes()),
		Price:      b.Price(),
		Deposit:    b.Deposit(),
		Status:     b.Status(),
		Collected:  b.Collected(),
	}
	if partner := b.PartnerToReturnTo(); partner != nil {
		dto.PartnerID = partner.ID
	}
	return dto
}
