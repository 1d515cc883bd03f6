package usecase

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
)

type catalogFile struct {
	Plans []entity.Plan `yaml:"plans" validate:"required,min=1,dive"`
}

// LoadCatalog decodes a YAML plan catalog:
//
//	plans:
//	  - name: basic
//	    prices:
//	      - currency: USD
//	        interval: Monthly
//	        unit_amount: 1000
func LoadCatalog(r io.Reader) ([]entity.Plan, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return file.Plans, nil
}

// LoadCatalogFile reads the catalog at path.
func LoadCatalogFile(path string) ([]entity.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return LoadCatalog(f)
}
