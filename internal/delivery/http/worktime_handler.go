package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/usecase/worktime"
)

// WorkTimeService определяет интерфейс движка рабочего времени
type WorkTimeService interface {
	HandleTap(ctx context.Context, req *worktime.TapRequest) (*domain.TapResult, error)
	CheckCard(ctx context.Context, req *worktime.CheckCardRequest) (*worktime.CheckCardResult, error)
}

// WorkTimeHandler обрабатывает отметки карт
type WorkTimeHandler struct {
	workTimeService WorkTimeService
	logger          logger.Logger
}

// NewWorkTimeHandler создает новый handler
func NewWorkTimeHandler(workTimeService WorkTimeService, logger logger.Logger) *WorkTimeHandler {
	return &WorkTimeHandler{
		workTimeService: workTimeService,
		logger:          logger,
	}
}

// tapHTTPStatus - у каждого результата отметки свой HTTP статус
var tapHTTPStatus = map[domain.TapStatus]int{
	domain.TapSessionOpened:         http.StatusOK,
	domain.TapSessionClosed:         http.StatusOK,
	domain.TapCardNotFound:          http.StatusNotFound,
	domain.TapCardInactive:          http.StatusForbidden,
	domain.TapInvalidStation:        http.StatusUnprocessableEntity,
	domain.TapWrongEndStation:       http.StatusConflict,
	domain.TapNoWorkSpaceForStation: http.StatusConflict,
}

var cardCheckHTTPStatus = map[domain.CardCheckStatus]int{
	domain.CardCheckOK:             http.StatusCreated,
	domain.CardCheckNotFound:       http.StatusNotFound,
	domain.CardCheckInactive:       http.StatusForbidden,
	domain.CardCheckInvalidStation: http.StatusUnprocessableEntity,
}

// HandleTap обрабатывает отметку карты на станции
// POST /api/v1/taps
func (h *WorkTimeHandler) HandleTap(w http.ResponseWriter, r *http.Request) {
	var req worktime.TapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.workTimeService.HandleTap(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "handle tap")
		return
	}

	status, ok := tapHTTPStatus[result.Status]
	if !ok {
		status = http.StatusInternalServerError
	}

	if !result.Status.IsSuccess() {
		respondError(w, status, string(result.Status), result.Message)
		return
	}

	respondJSON(w, status, map[string]interface{}{
		"success": true,
		"code":    result.Status,
		"message": result.Message,
		"data":    result,
	})
}

// CheckCard проверяет карту и пишет лог отметки
// POST /api/v1/cards/check
func (h *WorkTimeHandler) CheckCard(w http.ResponseWriter, r *http.Request) {
	var req worktime.CheckCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.workTimeService.CheckCard(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "check card")
		return
	}

	status, ok := cardCheckHTTPStatus[result.Status]
	if !ok {
		status = http.StatusInternalServerError
	}

	if result.Status != domain.CardCheckOK {
		respondError(w, status, string(result.Status), result.Message)
		return
	}

	respondJSON(w, status, map[string]interface{}{
		"success": true,
		"code":    result.Status,
		"message": result.Message,
		"data":    result.Log,
	})
}
