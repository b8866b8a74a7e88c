package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/product-catalog/internal/service"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds an active product. id, status and timestamps are assigned by the server.
// @Tags products
// @Accept json
// @Produce json
// @Param product body service.ProductDTO true "Product to add"
// @Success 201 {object} ApiResponse{data=service.ProductDTO}
// @Failure 400 {object} ApiResponse{data=[]ProductValidationError}
// @Failure 409 {object} ApiResponse "Duplicate code"
// @Failure 500 {object} ApiResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ProductDTO
	if err := readJSON(w, r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid input", nil)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, "validation failed", validationErrors)
		return
	}

	created, err := productService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "Product created successfully", created)
}

// GetProductsHandler godoc
// @Summary List active products
// @Description Newest first. brand and model are case-insensitive substring filters; blank values are ignored.
// @Tags products
// @Produce json
// @Param brand query string false "Brand contains"
// @Param model query string false "Model contains"
// @Param page query int false "Zero-based page index" default(0)
// @Param size query int false "Page size (max 100)" default(10)
// @Success 200 {object} models.Page[service.ProductDTO]
// @Failure 400 {object} ApiResponse "Invalid pagination"
// @Failure 500 {object} ApiResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	result, err := productService.List(r.Context(), q.Get("brand"), q.Get("model"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		writeError(w, r, err)
	}
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} service.ProductDTO
// @Failure 400 {object} ApiResponse "Invalid ID"
// @Failure 404 {object} ApiResponse "Not found"
// @Failure 500 {object} ApiResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	product, err := productService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, product); err != nil {
		writeError(w, r, err)
	}
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Overwrites the writable fields of an active product.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body service.ProductDTO true "Updated product"
// @Success 200 {object} ApiResponse{data=service.ProductDTO}
// @Failure 400 {object} ApiResponse{data=[]ProductValidationError}
// @Failure 404 {object} ApiResponse "Not found"
// @Failure 409 {object} ApiResponse "Duplicate code"
// @Failure 500 {object} ApiResponse
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var req service.ProductDTO
	if err := readJSON(w, r, &req); err != nil {
		respond(w, http.StatusBadRequest, "invalid input", nil)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, "validation failed", validationErrors)
		return
	}

	updated, err := productService.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Product updated successfully", updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Soft delete: the product becomes inactive and its code can be reused.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ApiResponse "Deleted successfully"
// @Failure 400 {object} ApiResponse "Invalid ID"
// @Failure 404 {object} ApiResponse "Not found"
// @Failure 500 {object} ApiResponse
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := productService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Product deleted successfully", nil)
}
