package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/usecase/admin"
	"github.com/google/uuid"
)

// AdminService определяет интерфейс административных операций
type AdminService interface {
	CreateEmployee(ctx context.Context, req *admin.CreateEmployeeRequest) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	CreateCard(ctx context.Context, req *admin.CreateCardRequest) (*domain.EmployeeCard, error)
	SetCardActive(ctx context.Context, id uuid.UUID, req *admin.SetActiveRequest) (*domain.EmployeeCard, error)
	CreateStation(ctx context.Context, req *admin.CreateStationRequest) (*domain.WeatherStation, error)
	SetStationActive(ctx context.Context, id uuid.UUID, req *admin.SetActiveRequest) (*domain.WeatherStation, error)
	DeleteStation(ctx context.Context, id uuid.UUID) error
	CreateWorkSpace(ctx context.Context, req *admin.CreateWorkSpaceRequest) (*domain.WorkSpace, error)
}

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	adminService AdminService
	logger       logger.Logger
}

// NewAdminHandler создает новый handler
func NewAdminHandler(adminService AdminService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// CreateEmployee POST /api/v1/employees
func (h *AdminHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	employee, err := h.adminService.CreateEmployee(r.Context(), &req)
	h.respondCreated(w, employee, err, "create employee")
}

// DeleteEmployee DELETE /api/v1/employees/{id}
func (h *AdminHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.adminService.DeleteEmployee(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCard POST /api/v1/cards
func (h *AdminHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	card, err := h.adminService.CreateCard(r.Context(), &req)
	h.respondCreated(w, card, err, "create card")
}

// UpdateCard PATCH /api/v1/cards/{id}
func (h *AdminHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req admin.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	card, err := h.adminService.SetCardActive(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update card")
		return
	}
	respondSuccess(w, http.StatusOK, card)
}

// CreateStation POST /api/v1/stations
func (h *AdminHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateStationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	station, err := h.adminService.CreateStation(r.Context(), &req)
	h.respondCreated(w, station, err, "create station")
}

// UpdateStation PATCH /api/v1/stations/{id}
func (h *AdminHandler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req admin.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	station, err := h.adminService.SetStationActive(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update station")
		return
	}
	respondSuccess(w, http.StatusOK, station)
}

// DeleteStation DELETE /api/v1/stations/{id}
func (h *AdminHandler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.adminService.DeleteStation(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete station")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateWorkSpace POST /api/v1/work-spaces
func (h *AdminHandler) CreateWorkSpace(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateWorkSpaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	space, err := h.adminService.CreateWorkSpace(r.Context(), &req)
	h.respondCreated(w, space, err, "create work space")
}

func (h *AdminHandler) respondCreated(w http.ResponseWriter, data interface{}, err error, action string) {
	if err != nil {
		respondServiceError(w, h.logger, err, action)
		return
	}
	respondSuccess(w, http.StatusCreated, data)
}
