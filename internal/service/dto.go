package service

import (
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the externally visible shape of a product. As input, ID,
// Status, CreatedAt and ModifiedAt are ignored.
type ProductDTO struct {
	ID         int64            `json:"id,omitempty"`
	Code       string           `json:"code" validate:"required,notblank,max=20"`
	Name       string           `json:"name" validate:"required,notblank,max=120"`
	Brand      string           `json:"brand" validate:"required,notblank,max=60"`
	Model      string           `json:"model" validate:"required,notblank,max=60"`
	Price      *decimal.Decimal `json:"price" validate:"required,gte=0,lt=100000000"`
	Stock      *int             `json:"stock" validate:"required,gte=0,lte=2147483647"`
	Status     models.Status    `json:"status,omitempty"`
	CreatedAt  *time.Time       `json:"createdAt,omitempty"`
	ModifiedAt *time.Time       `json:"modifiedAt,omitempty"`
}

func toDTO(p models.Product) ProductDTO {
	price := p.Price
	stock := p.Stock
	dto := ProductDTO{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		Brand:      p.Brand,
		Model:      p.Model,
		Price:      &price,
		Stock:      &stock,
		Status:     p.Status,
		ModifiedAt: p.ModifiedAt,
	}
	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt
		dto.CreatedAt = &createdAt
	}
	return dto
}

// toEntity copies the client-writable fields only. Identity, status and
// timestamps stay unset for the store to assign.
func toEntity(dto ProductDTO) models.Product {
	var p models.Product
	applyWritable(&p, dto)
	return p
}

func applyWritable(p *models.Product, dto ProductDTO) {
	p.Code = dto.Code
	p.Name = dto.Name
	p.Brand = dto.Brand
	p.Model = dto.Model
	if dto.Price != nil {
		p.Price = dto.Price.Round(2)
	}
	if dto.Stock != nil {
		p.Stock = *dto.Stock
	}
}
