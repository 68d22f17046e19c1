package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/usecase/report"
	"github.com/google/uuid"
)

// ReportService определяет интерфейс чтения и отчетов
type ReportService interface {
	ListWeatherData(ctx context.Context, filter repository.WeatherDataFilter) ([]*domain.WeatherData, error)
	GetWeatherData(ctx context.Context, id uuid.UUID) (*domain.WeatherData, error)
	ListStations(ctx context.Context, page repository.Page) ([]*domain.WeatherStation, error)
	GetStation(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error)
	GetStationData(ctx context.Context, id uuid.UUID, filter repository.WeatherDataFilter) (*report.StationData, error)
	ListEmployees(ctx context.Context, page repository.Page) ([]*domain.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	ListCards(ctx context.Context, page repository.Page) ([]*domain.EmployeeCard, error)
	GetCard(ctx context.Context, id uuid.UUID) (*domain.EmployeeCard, error)
	GetCardData(ctx context.Context, id uuid.UUID, filter repository.CardLogFilter) (*report.CardData, error)
	ListCardLogs(ctx context.Context, filter repository.CardLogFilter) ([]*domain.EmployeeCardLog, error)
	GetCardLog(ctx context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error)
	ListWorkTimes(ctx context.Context, filter repository.WorkTimeFilter) ([]*domain.WorkTime, error)
	ExportWorkTimes(ctx context.Context, filter repository.WorkTimeFilter, w io.Writer) error
}

// ReportHandler обрабатывает запросы на чтение
type ReportHandler struct {
	reportService ReportService
	logger        logger.Logger
}

// NewReportHandler создает новый handler
func NewReportHandler(reportService ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ListWeatherData GET /api/v1/weather?weather_station=&date_from=&date_to=
func (h *ReportHandler) ListWeatherData(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ListWeatherData(r.Context(), report.WeatherDataFilterFromQuery(r.URL.Query()))
	h.respond(w, data, err, "list weather data")
}

// GetWeatherData GET /api/v1/weather/{id}
func (h *ReportHandler) GetWeatherData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.reportService.GetWeatherData(r.Context(), id)
	h.respond(w, data, err, "get weather data")
}

// ListStations GET /api/v1/stations
func (h *ReportHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.reportService.ListStations(r.Context(), report.ParsePage(r.URL.Query()))
	h.respond(w, stations, err, "list stations")
}

// GetStation GET /api/v1/stations/{id}
func (h *ReportHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	station, err := h.reportService.GetStation(r.Context(), id)
	h.respond(w, station, err, "get station")
}

// GetStationData GET /api/v1/stations/{id}/data
func (h *ReportHandler) GetStationData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.reportService.GetStationData(r.Context(), id, report.WeatherDataFilterFromQuery(r.URL.Query()))
	h.respond(w, data, err, "get station data")
}

// ListEmployees GET /api/v1/employees
func (h *ReportHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.reportService.ListEmployees(r.Context(), report.ParsePage(r.URL.Query()))
	h.respond(w, employees, err, "list employees")
}

// GetEmployee GET /api/v1/employees/{id}
func (h *ReportHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	employee, err := h.reportService.GetEmployee(r.Context(), id)
	h.respond(w, employee, err, "get employee")
}

// ListCards GET /api/v1/cards
func (h *ReportHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.reportService.ListCards(r.Context(), report.ParsePage(r.URL.Query()))
	h.respond(w, cards, err, "list cards")
}

// GetCard GET /api/v1/cards/{id}
func (h *ReportHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	card, err := h.reportService.GetCard(r.Context(), id)
	h.respond(w, card, err, "get card")
}

// GetCardData GET /api/v1/cards/{id}/data
func (h *ReportHandler) GetCardData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := h.reportService.GetCardData(r.Context(), id, report.CardLogFilterFromQuery(r.URL.Query()))
	h.respond(w, data, err, "get card data")
}

// ListCardLogs GET /api/v1/card-logs?weather_station=&employee_card=&date_from=&date_to=
func (h *ReportHandler) ListCardLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.reportService.ListCardLogs(r.Context(), report.CardLogFilterFromQuery(r.URL.Query()))
	h.respond(w, logs, err, "list card logs")
}

// GetCardLog GET /api/v1/card-logs/{id}
func (h *ReportHandler) GetCardLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	log, err := h.reportService.GetCardLog(r.Context(), id)
	h.respond(w, log, err, "get card log")
}

// ListWorkTimes GET /api/v1/work-times?employee=&work_space=&date_from=&date_to=
func (h *ReportHandler) ListWorkTimes(w http.ResponseWriter, r *http.Request) {
	workTimes, err := h.reportService.ListWorkTimes(r.Context(), report.WorkTimeFilterFromQuery(r.URL.Query()))
	h.respond(w, workTimes, err, "list work times")
}

// ExportWorkTimes отдает табель в XLSX
// GET /api/v1/work-times/export
func (h *ReportHandler) ExportWorkTimes(w http.ResponseWriter, r *http.Request) {
	// файл собирается в буфер, чтобы ошибка не оборвала ответ на середине
	var buf bytes.Buffer
	if err := h.reportService.ExportWorkTimes(r.Context(), report.WorkTimeFilterFromQuery(r.URL.Query()), &buf); err != nil {
		respondServiceError(w, h.logger, err, "export work times")
		return
	}

	filename := fmt.Sprintf("worktime_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ReportHandler) respond(w http.ResponseWriter, data interface{}, err error, action string) {
	if err != nil {
		respondServiceError(w, h.logger, err, action)
		return
	}
	respondSuccess(w, http.StatusOK, data)
}
