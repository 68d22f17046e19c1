package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkTime_Close(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	endStation := uuid.New()

	tests := []struct {
		name    string
		now     time.Time
		wantEnd time.Time
	}{
		{name: "обычное закрытие", now: start.Add(8 * time.Hour), wantEnd: start.Add(8 * time.Hour)},
		{name: "часы ушли назад", now: start.Add(-time.Minute), wantEnd: start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space := &WorkSpace{ID: uuid.New(), StartStationID: uuid.New(), EndStationID: endStation}
			wt := NewWorkTime(uuid.New(), space, space.StartStationID, start)
			require.True(t, wt.IsOpen())

			require.NoError(t, wt.Close(endStation, tt.now))

			assert.False(t, wt.IsOpen())
			assert.Equal(t, tt.wantEnd, *wt.EndDate)
			assert.Equal(t, endStation, *wt.EndStationID)
			assert.NoError(t, wt.Validate())
		})
	}
}

func TestWorkTime_CloseTwice(t *testing.T) {
	space := &WorkSpace{ID: uuid.New(), StartStationID: uuid.New(), EndStationID: uuid.New()}
	wt := NewWorkTime(uuid.New(), space, space.StartStationID, time.Now())
	require.NoError(t, wt.Close(space.EndStationID, time.Now()))

	err := wt.Close(space.EndStationID, time.Now())
	assert.True(t, errors.Is(err, ErrWorkTimeAlreadyEnded))
}

func TestWorkTime_Duration(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	wt := &WorkTime{StartDate: start}

	assert.Equal(t, time.Duration(0), wt.Duration())

	wt.EndDate = &end
	assert.Equal(t, 90*time.Minute, wt.Duration())
}

func TestEmployeeCard_Validate(t *testing.T) {
	card := &EmployeeCard{CardNumber: "  E-1 ", EmployeeID: uuid.New()}
	require.NoError(t, card.Validate())
	assert.Equal(t, "E-1", card.CardNumber)

	assert.ErrorIs(t, (&EmployeeCard{CardNumber: "   ", EmployeeID: uuid.New()}).Validate(), ErrInvalidCardData)
	assert.ErrorIs(t, (&EmployeeCard{CardNumber: "E-2"}).Validate(), ErrInvalidCardData)
}

func TestTapStatus(t *testing.T) {
	assert.True(t, TapSessionOpened.IsSuccess())
	assert.True(t, TapSessionClosed.IsSuccess())
	assert.False(t, TapWrongEndStation.IsSuccess())

	result := NewTapResult(TapNoWorkSpaceForStation)
	assert.Equal(t, "Can't start WorkTime at this station", result.Message)
}

func TestValidationError_Error(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())

	verr.Add("pressure", "bad")
	verr.Add("humidity", "bad")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: humidity: bad; pressure: bad", verr.Error())
}
