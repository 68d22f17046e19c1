package http

import (
	"context"
	"io"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/usecase/admin"
	"github.com/frontandrew/stationtime/internal/usecase/report"
	"github.com/frontandrew/stationtime/internal/usecase/weather"
	"github.com/frontandrew/stationtime/internal/usecase/worktime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockWorkTimeService мок для WorkTimeService
type MockWorkTimeService struct {
	mock.Mock
}

func (m *MockWorkTimeService) HandleTap(ctx context.Context, req *worktime.TapRequest) (*domain.TapResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TapResult), args.Error(1)
}

func (m *MockWorkTimeService) CheckCard(ctx context.Context, req *worktime.CheckCardRequest) (*worktime.CheckCardResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worktime.CheckCardResult), args.Error(1)
}

// MockWeatherService мок для WeatherService
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) RecordReading(ctx context.Context, req *weather.RecordReadingRequest) (*domain.WeatherData, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherData), args.Error(1)
}

// MockReportService мок для ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ListWeatherData(ctx context.Context, filter repository.WeatherDataFilter) ([]*domain.WeatherData, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeatherData), args.Error(1)
}

func (m *MockReportService) GetWeatherData(ctx context.Context, id uuid.UUID) (*domain.WeatherData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherData), args.Error(1)
}

func (m *MockReportService) ListStations(ctx context.Context, page repository.Page) ([]*domain.WeatherStation, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeatherStation), args.Error(1)
}

func (m *MockReportService) GetStation(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherStation), args.Error(1)
}

func (m *MockReportService) GetStationData(ctx context.Context, id uuid.UUID, filter repository.WeatherDataFilter) (*report.StationData, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.StationData), args.Error(1)
}

func (m *MockReportService) ListEmployees(ctx context.Context, page repository.Page) ([]*domain.Employee, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Employee), args.Error(1)
}

func (m *MockReportService) GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockReportService) ListCards(ctx context.Context, page repository.Page) ([]*domain.EmployeeCard, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EmployeeCard), args.Error(1)
}

func (m *MockReportService) GetCard(ctx context.Context, id uuid.UUID) (*domain.EmployeeCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeCard), args.Error(1)
}

func (m *MockReportService) GetCardData(ctx context.Context, id uuid.UUID, filter repository.CardLogFilter) (*report.CardData, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.CardData), args.Error(1)
}

func (m *MockReportService) ListCardLogs(ctx context.Context, filter repository.CardLogFilter) ([]*domain.EmployeeCardLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EmployeeCardLog), args.Error(1)
}

func (m *MockReportService) GetCardLog(ctx context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeCardLog), args.Error(1)
}

func (m *MockReportService) ListWorkTimes(ctx context.Context, filter repository.WorkTimeFilter) ([]*domain.WorkTime, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkTime), args.Error(1)
}

func (m *MockReportService) ExportWorkTimes(ctx context.Context, filter repository.WorkTimeFilter, w io.Writer) error {
	args := m.Called(ctx, filter, w)
	return args.Error(0)
}

// MockAdminService мок для AdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) CreateEmployee(ctx context.Context, req *admin.CreateEmployeeRequest) (*domain.Employee, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockAdminService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) CreateCard(ctx context.Context, req *admin.CreateCardRequest) (*domain.EmployeeCard, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeCard), args.Error(1)
}

func (m *MockAdminService) SetCardActive(ctx context.Context, id uuid.UUID, req *admin.SetActiveRequest) (*domain.EmployeeCard, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeCard), args.Error(1)
}

func (m *MockAdminService) CreateStation(ctx context.Context, req *admin.CreateStationRequest) (*domain.WeatherStation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherStation), args.Error(1)
}

func (m *MockAdminService) SetStationActive(ctx context.Context, id uuid.UUID, req *admin.SetActiveRequest) (*domain.WeatherStation, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherStation), args.Error(1)
}

func (m *MockAdminService) DeleteStation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) CreateWorkSpace(ctx context.Context, req *admin.CreateWorkSpaceRequest) (*domain.WorkSpace, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSpace), args.Error(1)
}
