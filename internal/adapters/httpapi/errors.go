package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/httpapi/oas"
)

func writeOASError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er oas.ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(map[string]any(details))
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}

	writeJSON(w, status, er)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleParamError answers query binding failures with the validation envelope.
func handleParamError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *oas.InvalidParamFormatError
	if errors.As(err, &pe) {
		writeOASError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid search parameters", map[string]any{
			pe.ParamName: "invalid format",
		})
		return
	}
	writeOASError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}
