package handler

import (
	"time"

	"leasehold/internal/payment/models"
)

// PaymentResponse is the HTTP representation of a payment record.
type PaymentResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	ContractID    string    `json:"contract_id,omitempty"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	LateFee       float64   `json:"late_fee"`
	Period        string    `json:"period"`
	Kind          string    `json:"kind"`
}

// BalanceResponse is the HTTP response for GET /admin/tenants/{id}/balance.
type BalanceResponse struct {
	TenantID string  `json:"tenant_id"`
	Balance  float64 `json:"balance"`
}

// RevenueResponse is the HTTP response for GET /admin/payments/revenue.
type RevenueResponse struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TotalRevenue float64   `json:"total_revenue"`
}

// CollectionRateResponse is the HTTP response for
// GET /admin/payments/collection-rate.
type CollectionRateResponse struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	CollectionRate float64   `json:"collection_rate"`
}

// FromPayment converts a domain payment to an HTTP response.
func FromPayment(p *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID.String(),
		TenantID:      p.TenantID.String(),
		ContractID:    p.ContractID.String(),
		Amount:        p.Amount,
		Date:          p.Date,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		LateFee:       p.LateFee,
		Period:        p.Period,
		Kind:          p.Kind.String(),
	}
}

// FromPayments converts a payment slice, never returning nil.
func FromPayments(payments []*models.Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
