package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/service"
	"github.com/shopspring/decimal"
)

var importColumns = []string{"code", "name", "brand", "model", "price", "stock"}

type csvRow struct {
	line   int
	record []string
}

func parseCSV(r io.Reader) (map[string]int, []csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %v", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRow{line: line, record: record})
	}
	return index, rows, nil
}

// toProductDTO converts a record. Price and stock that fail to parse are
// reported here; everything else goes through the usual validation.
func toProductDTO(index map[string]int, rec []string) (service.ProductDTO, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[index[name]])
	}

	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return service.ProductDTO{}, fmt.Errorf("invalid price %q", field("price"))
	}
	stock, err := strconv.Atoi(field("stock"))
	if err != nil {
		return service.ProductDTO{}, fmt.Errorf("invalid stock %q", field("stock"))
	}

	return service.ProductDTO{
		Code:  field("code"),
		Name:  field("name"),
		Brand: field("brand"),
		Model: field("model"),
		Price: &price,
		Stock: &stock,
	}, nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Each row is created like a POST /products body. Rows that fail are reported and skipped.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with header code,name,brand,model,price,stock"
// @Success 200 {object} ApiResponse{data=ImportProductsResult}
// @Failure 400 {object} ApiResponse "Invalid file"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer file.Close()

	index, rows, err := parseCSV(file)
	if err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	rowError := func(row csvRow, field, msg string) {
		result.Errors = append(result.Errors, ProductValidationError{
			Field:       field,
			Description: fmt.Sprintf("row %d: %s", row.line, msg),
		})
	}

	for _, row := range rows {
		dto, err := toProductDTO(index, row.record)
		if err != nil {
			rowError(row, "", err.Error())
			continue
		}

		if validationErrors := validateProduct(dto); len(validationErrors) > 0 {
			for _, ve := range validationErrors {
				rowError(row, ve.Field, ve.Description)
			}
			continue
		}

		if _, err := productService.Create(r.Context(), dto); err != nil {
			if errors.Is(err, service.ErrDuplicateCode) || errors.Is(err, service.ErrInvalidInput) {
				rowError(row, "code", err.Error())
				continue
			}
			logger.Error("import row failed", slog.Int("row", row.line), slog.Any("error", err))
			rowError(row, "", "could not create product")
			continue
		}
		result.ImportedProductsCount++
	}

	respond(w, http.StatusOK, "Products imported", result)
}
