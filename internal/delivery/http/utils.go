package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Машинные коды ошибок (для отметок кодом служит TapStatus)
const (
	codeValidation = "VALIDATION_ERROR"
	codeBadRequest = "BAD_REQUEST"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL_ERROR"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondSuccess отправляет успешный ответ в конверте
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой и машинным кодом
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// respondValidation отправляет ошибки по полям
func respondValidation(w http.ResponseWriter, verr *domain.ValidationError) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   "Validation failed",
		"code":    codeValidation,
		"fields":  verr.Fields,
	})
}

// decodeJSON читает тело запроса; при ошибке отвечает 400 и возвращает false
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID извлекает UUID из параметра пути {id}; при ошибке отвечает 400
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

// notFoundErrors - ошибки, которые отдаются как 404
var notFoundErrors = []error{
	domain.ErrEmployeeNotFound,
	domain.ErrCardNotFound,
	domain.ErrStationNotFound,
	domain.ErrWorkSpaceNotFound,
	domain.ErrWorkTimeNotFound,
	domain.ErrCardLogNotFound,
	domain.ErrWeatherDataNotFound,
}

// badRequestErrors - ошибки данных, которые отдаются как 400
var badRequestErrors = []error{
	domain.ErrInvalidEmployeeData,
	domain.ErrInvalidCardData,
	domain.ErrInvalidStationData,
	domain.ErrInvalidWorkSpaceData,
	domain.ErrInvalidWorkTimeData,
	domain.ErrInvalidCardLogData,
}

// respondServiceError переводит ошибку сервиса в HTTP ответ
// Неизвестные ошибки логируются и отдаются как 500 без деталей
func respondServiceError(w http.ResponseWriter, log logger.Logger, err error, action string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondValidation(w, verr)
		return
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			respondError(w, http.StatusNotFound, codeNotFound, target.Error())
			return
		}
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			respondError(w, http.StatusBadRequest, codeBadRequest, target.Error())
			return
		}
	}

	log.Error("Failed to "+action, map[string]interface{}{
		"error": err.Error(),
	})
	respondError(w, http.StatusInternalServerError, codeInternal, "Failed to "+action)
}
