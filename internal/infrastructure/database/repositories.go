package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/payments-gateway/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/payments-gateway/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	CustomerMapping domainRepo.CustomerMappingRepository
}

func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		CustomerMapping: repository.NewCustomerMappingRepository(db, logger),
	}
}
