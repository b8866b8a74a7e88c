package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPage keeps page*size+size within int for any accepted size.
	maxPage = math.MaxInt/maxPageSize - 1
)

var errInvalidID = errors.New("invalid product ID")

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes an ApiResponse envelope.
func respond(w http.ResponseWriter, status int, message string, data any) {
	err := writeJSON(w, status, ApiResponse{
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("failed to write JSON response", slog.Any("error", err))
	}
}

// writeError maps service errors to status codes. Anything unrecognised is a
// store failure: logged, and reported without internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respond(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrDuplicateCode):
		respond(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidPagination):
		respond(w, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		respond(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func productIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

// pageParams reads page and size, defaulting to 0 and 10. Size is capped at
// maxPageSize.
func pageParams(r *http.Request) (page, size int, err error) {
	page, size = 0, defaultPageSize

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 0 {
			return 0, 0, fmt.Errorf("%w: page must be a non-negative integer", service.ErrInvalidPagination)
		}
		if page > maxPage {
			return 0, 0, fmt.Errorf("%w: page must not exceed %d", service.ErrInvalidPagination, maxPage)
		}
	}
	if v := q.Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || size < 1 {
			return 0, 0, fmt.Errorf("%w: size must be a positive integer", service.ErrInvalidPagination)
		}
	}
	return page, min(size, maxPageSize), nil
}
