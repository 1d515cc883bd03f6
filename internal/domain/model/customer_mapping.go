package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerMapping maps an application system id to a provider customer id.
type CustomerMapping struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SystemID           string    `gorm:"column:system_id;not null;size:100;uniqueIndex:idx_customer_mappings_provider_system" json:"system_id"`
	Provider           string    `gorm:"column:provider;not null;size:20;uniqueIndex:idx_customer_mappings_provider_system" json:"provider"`
	ProviderCustomerID string    `gorm:"column:provider_customer_id;not null;size:100;uniqueIndex" json:"provider_customer_id"`
	CustomerEmail      string    `gorm:"column:customer_email;size:255;index" json:"customer_email"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (CustomerMapping) TableName() string {
	return "customer_mappings"
}

// BeforeCreate assigns a random id when none is set.
func (m *CustomerMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
