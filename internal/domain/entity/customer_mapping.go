package entity

import "time"

// CustomerMapping links an application system id to a provider customer id.
type CustomerMapping struct {
	ID                 string    `json:"id"`
	SystemID           string    `json:"system_id"`
	Provider           string    `json:"provider"`
	ProviderCustomerID string    `json:"provider_customer_id"`
	Email              string    `json:"email"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
