package weather

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestRecordReading(t *testing.T) {
	ctx := context.Background()
	s := memory.NewDB().Store()

	active := &domain.WeatherStation{Name: "Roof", IsActive: true}
	require.NoError(t, s.Stations().Create(ctx, active))
	inactive := &domain.WeatherStation{Name: "Basement"}
	require.NoError(t, s.Stations().Create(ctx, inactive))

	svc := NewService(s.Stations(), s.WeatherData(), logger.NewNoop())

	tests := []struct {
		name   string
		req    *RecordReadingRequest
		fields map[string]string
	}{
		{
			name: "валидное показание",
			req:  &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(20), Humidity: ptr(50), Pressure: ptr(1000)},
		},
		{
			name: "границы включительно",
			req:  &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(-100), Humidity: ptr(100), Pressure: ptr(800)},
		},
		{
			name:   "температура вне диапазона",
			req:    &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(150), Humidity: ptr(50), Pressure: ptr(1000)},
			fields: map[string]string{"temperature": "Ensure this value is less than or equal to 100."},
		},
		{
			name: "несколько полей вне диапазона",
			req:  &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(0), Humidity: ptr(-1), Pressure: ptr(1200.5)},
			fields: map[string]string{
				"humidity": "Ensure this value is greater than or equal to 0.",
				"pressure": "Ensure this value is less than or equal to 1200.",
			},
		},
		{
			name:   "значения ниже нижних границ",
			req:    &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(-100.5), Humidity: ptr(0), Pressure: ptr(799.9)},
			fields: map[string]string{
				"temperature": "Ensure this value is greater than or equal to -100.",
				"pressure":    "Ensure this value is greater than or equal to 800.",
			},
		},
		{
			name: "верхние границы включительно",
			req:  &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(100), Humidity: ptr(0), Pressure: ptr(1200)},
		},
		{
			name: "нет обязательных полей",
			req:  &RecordReadingRequest{StationID: active.ID.String(), Temperature: ptr(0)},
			fields: map[string]string{
				"humidity": "This field is required.",
				"pressure": "This field is required.",
			},
		},
		{
			name:   "неизвестная станция",
			req:    &RecordReadingRequest{StationID: uuid.NewString(), Temperature: ptr(0), Humidity: ptr(0), Pressure: ptr(900)},
			fields: map[string]string{"weather_station": "Invalid weather station."},
		},
		{
			name:   "неактивная станция",
			req:    &RecordReadingRequest{StationID: inactive.ID.String(), Temperature: ptr(0), Humidity: ptr(0), Pressure: ptr(900)},
			fields: map[string]string{"weather_station": "Weather station is inactive."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now()
			data, err := svc.RecordReading(ctx, tt.req)

			if tt.fields != nil {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.fields, verr.Fields)
				assert.Nil(t, data)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, data.ID)
			assert.False(t, data.Date.Before(before))

			stored, err := s.WeatherData().GetByID(ctx, data.ID)
			require.NoError(t, err)
			assert.Equal(t, *tt.req.Temperature, stored.Temperature)
		})
	}

	all, err := s.WeatherData().List(ctx, repository.WeatherDataFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
