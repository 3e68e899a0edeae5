package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"hunter-tracker/internal/domain"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}

// writeError maps service errors onto status codes. notFound is the detail
// used for a plain ErrNotFound.
func writeError(w http.ResponseWriter, logger *zerolog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrHunterNotFound):
		writeDetail(w, http.StatusNotFound, "Hunter not found")
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalid):
		writeDetail(w, http.StatusBadRequest, invalidDetail(err))
	default:
		logger.Error().Err(err).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// invalidDetail drops the trailing sentinel text so clients see only the
// validation message.
func invalidDetail(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+domain.ErrInvalid.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty: %w", domain.ErrInvalid)
		}
		return fmt.Errorf("invalid request body: %w", domain.ErrInvalid)
	}
	return nil
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%s is required: %w", name, domain.ErrInvalid)
	}
	return v, nil
}

// optionalInt returns 0 when the parameter is absent.
func optionalInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, domain.ErrInvalid)
	}
	return n, nil
}
