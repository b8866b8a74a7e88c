package repo

import "github.com/rogerio-castellano/product-catalog/internal/models"

// ProductFilter is the single predicate behind every paginated finder.
// Brand and Model are case-insensitive substrings; empty means no constraint.
type ProductFilter struct {
	Brand  string
	Model  string
	Status models.Status
}

func activeFilter(brand, model string) ProductFilter {
	return ProductFilter{Brand: brand, Model: model, Status: models.StatusActive}
}
