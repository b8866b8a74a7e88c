package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
	"github.com/shopspring/decimal"
)

var productRepo *repo.InMemoryProductRepository

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductService(service.NewProductService(productRepo, logger))
	handler.SetLogger(logger)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo)
	handler.SetMetricsRepo(metricsRepo)
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{})
}

func clearAllProducts() {
	productRepo.Clear()
}

type apiResponse[T any] struct {
	Message   string    `json:"message"`
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type productPage struct {
	Content          []service.ProductDTO `json:"content"`
	TotalElements    int64                `json:"totalElements"`
	TotalPages       int                  `json:"totalPages"`
	Size             int                  `json:"size"`
	Number           int                  `json:"number"`
	NumberOfElements int                  `json:"numberOfElements"`
	First            bool                 `json:"first"`
	Last             bool                 `json:"last"`
	Empty            bool                 `json:"empty"`
}

func decode[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		return v, fmt.Errorf("error decoding response: %w", err)
	}
	return v, nil
}

func productPayload(code, brand, model string) map[string]any {
	return map[string]any{
		"code":  code,
		"name":  "Widget",
		"brand": brand,
		"model": model,
		"price": 9.99,
		"stock": 5,
	}
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, payload map[string]any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/products", payload)
}

// mustCreateProduct creates a product and returns its id, panicking on
// anything but 201.
func mustCreateProduct(r http.Handler, code, brand, model string) int64 {
	w := createProduct(r, productPayload(code, brand, model))
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("create %s: expected 201, got %d: %s", code, w.Code, w.Body.String()))
	}
	resp, err := decode[apiResponse[service.ProductDTO]](w)
	if err != nil {
		panic(err)
	}
	return resp.Data.ID
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
