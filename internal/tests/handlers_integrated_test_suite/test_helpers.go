package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/db"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

var database *sql.DB

// TestMain connects to DATABASE_URL. Without it every test in this package
// skips.
func TestMain(m *testing.M) {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl != "" {
		ctx := context.Background()
		var err error
		database, err = db.Connect(ctx, dbUrl, db.Options{})
		if err != nil {
			fmt.Println("Postgres not available:", err)
			database = nil
		} else if err := db.Migrate(ctx, database); err != nil {
			fmt.Println("migration failed:", err)
			os.Exit(1)
		}
	}

	if database != nil {
		setupTestRepos()
	}
	code := m.Run()
	if database != nil {
		database.Close()
	}
	os.Exit(code)
}

func setupTestRepos() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	productRepo := repo.NewPostgresProductRepository(database)
	handler.SetProductService(service.NewProductService(productRepo, logger))
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handler.SetLogger(logger)
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	if database == nil {
		t.Skip("DATABASE_URL not set or Postgres unavailable, skipping integrated tests")
	}
	t.Cleanup(clearAllProducts)
	clearAllProducts()
	return router.NewRouter(router.Options{})
}

func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE products")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate products table: %w", err))
	}
}

type apiResponse[T any] struct {
	Message   string    `json:"message"`
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
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

func createProduct(t *testing.T, r http.Handler, code, brand, model string) service.ProductDTO {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/products", productPayload(code, brand, model))
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", code, w.Code, w.Body.String())
	}
	var resp apiResponse[service.ProductDTO]
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp.Data
}
