package report

import (
	"net/url"
	"strconv"
	"time"

	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// DateLayout - формат дат в параметрах запроса
const DateLayout = "2006-01-02"

// Лимит страницы по умолчанию и максимальный
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ParsePage читает limit и offset; некорректные значения заменяются значениями по умолчанию
func ParsePage(q url.Values) repository.Page {
	page := repository.Page{Limit: DefaultLimit}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if page.Limit > MaxLimit {
		page.Limit = MaxLimit
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		page.Offset = v
	}
	return page
}

// ParseDateRange читает date_from и date_to (YYYY-MM-DD, UTC)
// Нераспознанные значения игнорируются; date_to включает весь день
func ParseDateRange(q url.Values) repository.DateRange {
	var r repository.DateRange
	if t, err := time.Parse(DateLayout, q.Get("date_from")); err == nil {
		r.From = &t
	}
	if t, err := time.Parse(DateLayout, q.Get("date_to")); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		r.To = &end
	}
	return r
}

// ParseUUID читает необязательный идентификатор; некорректный игнорируется
func ParseUUID(q url.Values, key string) *uuid.UUID {
	id, err := uuid.Parse(q.Get(key))
	if err != nil {
		return nil
	}
	return &id
}

// WeatherDataFilterFromQuery - фильтр показаний: weather_station, date_from, date_to, limit, offset
func WeatherDataFilterFromQuery(q url.Values) repository.WeatherDataFilter {
	return repository.WeatherDataFilter{
		StationID: ParseUUID(q, "weather_station"),
		DateRange: ParseDateRange(q),
		Page:      ParsePage(q),
	}
}

// CardLogFilterFromQuery - фильтр логов: weather_station, employee_card, date_from, date_to
func CardLogFilterFromQuery(q url.Values) repository.CardLogFilter {
	return repository.CardLogFilter{
		StationID: ParseUUID(q, "weather_station"),
		CardID:    ParseUUID(q, "employee_card"),
		DateRange: ParseDateRange(q),
		Page:      ParsePage(q),
	}
}

// WorkTimeFilterFromQuery - фильтр сессий: employee, work_space, date_from, date_to
func WorkTimeFilterFromQuery(q url.Values) repository.WorkTimeFilter {
	return repository.WorkTimeFilter{
		EmployeeID:  ParseUUID(q, "employee"),
		WorkSpaceID: ParseUUID(q, "work_space"),
		DateRange:   ParseDateRange(q),
		Page:        ParsePage(q),
	}
}
