package report

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type seed struct {
	store    repository.Store
	svc      *Service
	employee *domain.Employee
	card     *domain.EmployeeCard
	start    *domain.WeatherStation
	end      *domain.WeatherStation
	space    *domain.WorkSpace
	closed   *domain.WorkTime
	open     *domain.WorkTime
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	ctx := context.Background()
	s := memory.NewDB().Store()
	sd := &seed{store: s, svc: NewService(s, logger.NewNoop())}

	sd.employee = &domain.Employee{Name: "Anna", Surname: "Smirnova", PhoneNumber: "+7000", IsActive: true}
	require.NoError(t, s.Employees().Create(ctx, sd.employee))
	sd.card = &domain.EmployeeCard{CardNumber: "K-1", EmployeeID: sd.employee.ID, IsActive: true}
	require.NoError(t, s.Cards().Create(ctx, sd.card))

	sd.start = &domain.WeatherStation{Name: "North", IsActive: true}
	require.NoError(t, s.Stations().Create(ctx, sd.start))
	sd.end = &domain.WeatherStation{Name: "South", IsActive: true}
	require.NoError(t, s.Stations().Create(ctx, sd.end))

	sd.space = &domain.WorkSpace{Name: "North→South", StartStationID: sd.start.ID, EndStationID: sd.end.ID}
	require.NoError(t, s.WorkSpaces().Create(ctx, sd.space))

	day := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	sd.closed = domain.NewWorkTime(sd.employee.ID, sd.space, sd.start.ID, day)
	require.NoError(t, sd.closed.Close(sd.end.ID, day.Add(8*time.Hour+30*time.Minute)))
	require.NoError(t, s.WorkTimes().Create(ctx, sd.closed))

	sd.open = domain.NewWorkTime(sd.employee.ID, sd.space, sd.start.ID, day.AddDate(0, 0, 1))
	require.NoError(t, s.WorkTimes().Create(ctx, sd.open))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.WeatherData().Create(ctx, &domain.WeatherData{
			StationID: sd.start.ID, Temperature: float64(i), Humidity: 40, Pressure: 1000, Date: day.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, s.CardLogs().Create(ctx, &domain.EmployeeCardLog{EmployeeCardID: sd.card.ID, StationID: &sd.start.ID, Date: day}))

	return sd
}

func TestListWorkTimes_Expanded(t *testing.T) {
	sd := newSeed(t)

	list, err := sd.svc.ListWorkTimes(context.Background(), repository.WorkTimeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	// новые первыми
	assert.Equal(t, sd.open.ID, list[0].ID)
	assert.Nil(t, list[0].EndStation)
	assert.Equal(t, "South", list[1].EndStation.Name)

	for _, wt := range list {
		assert.Equal(t, "Anna Smirnova", wt.Employee.FullName())
		assert.Equal(t, sd.space.ID, wt.WorkSpace.ID)
		assert.Equal(t, "North", wt.StartStation.Name)
	}
}

func TestListWorkTimes_DateFilter(t *testing.T) {
	sd := newSeed(t)

	tests := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{name: "без фильтра", query: "", want: []uuid.UUID{sd.open.ID, sd.closed.ID}},
		{name: "с даты открытой сессии", query: "date_from=2024-06-04", want: []uuid.UUID{sd.open.ID}},
		{name: "по дату закрытия включительно", query: "date_to=2024-06-03", want: []uuid.UUID{sd.closed.ID}},
		{name: "некорректная дата игнорируется", query: "date_from=03.06.2024", want: []uuid.UUID{sd.open.ID, sd.closed.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			list, err := sd.svc.ListWorkTimes(context.Background(), WorkTimeFilterFromQuery(q))
			require.NoError(t, err)

			ids := make([]uuid.UUID, 0, len(list))
			for _, wt := range list {
				ids = append(ids, wt.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetStationData(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	q, _ := url.ParseQuery("date_from=2024-06-04&limit=1")
	data, err := sd.svc.GetStationData(ctx, sd.start.ID, WeatherDataFilterFromQuery(q))
	require.NoError(t, err)
	assert.Equal(t, "North", data.Name)
	require.Len(t, data.WeatherData, 1)
	assert.Equal(t, 2.0, data.WeatherData[0].Temperature)

	_, err = sd.svc.GetStationData(ctx, uuid.New(), repository.WeatherDataFilter{})
	assert.ErrorIs(t, err, domain.ErrStationNotFound)
}

func TestGetCardData(t *testing.T) {
	sd := newSeed(t)

	data, err := sd.svc.GetCardData(context.Background(), sd.card.ID, repository.CardLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, "K-1", data.CardNumber)
	assert.Equal(t, sd.employee.ID, data.Employee.ID)
	require.Len(t, data.Logs, 1)
	assert.Equal(t, sd.start.ID, *data.Logs[0].StationID)
}

func TestExportWorkTimes(t *testing.T) {
	sd := newSeed(t)

	var buf bytes.Buffer
	require.NoError(t, sd.svc.ExportWorkTimes(context.Background(), repository.WorkTimeFilter{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(timesheetSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Employee", rows[0][0])
	// открытая сессия - без конца
	assert.Equal(t, []string{"Anna Smirnova", "+7000", "North→South", "North", "2024-06-04 08:00:00"}, rows[1])
	assert.Equal(t, []string{"Anna Smirnova", "+7000", "North→South", "North", "2024-06-03 08:00:00", "South", "2024-06-03 16:30:00", "8.5"}, rows[2])
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  repository.Page
	}{
		{"", repository.Page{Limit: DefaultLimit}},
		{"limit=10&offset=20", repository.Page{Limit: 10, Offset: 20}},
		{"limit=-1&offset=abc", repository.Page{Limit: DefaultLimit}},
		{"limit=999999", repository.Page{Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			assert.Equal(t, tt.want, ParsePage(q))
		})
	}
}
