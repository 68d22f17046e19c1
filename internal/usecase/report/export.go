package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/xuri/excelize/v2"
)

const (
	timesheetSheet      = "WorkTime"
	timesheetTimeLayout = "2006-01-02 15:04:05"
)

var timesheetHeader = []interface{}{
	"Employee", "Phone", "Work space", "Start station", "Start", "End station", "End", "Hours",
}

// ExportWorkTimes пишет табель рабочих сессий по фильтру в XLSX
// Открытые сессии выгружаются с пустым концом и длительностью
func (s *Service) ExportWorkTimes(ctx context.Context, filter repository.WorkTimeFilter, w io.Writer) error {
	// выгрузка не ограничена страницей
	filter.Page = repository.Page{}

	workTimes, err := s.ListWorkTimes(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timesheetSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(timesheetSheet, "A1", &timesheetHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(timesheetSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(timesheetSheet, "A", "H", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, wt := range workTimes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := timesheetRow(wt)
		if err := f.SetSheetRow(timesheetSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	s.logger.Info("Work time timesheet exported", map[string]interface{}{
		"rows": len(workTimes),
	})

	return nil
}

func timesheetRow(wt *domain.WorkTime) []interface{} {
	row := make([]interface{}, 0, len(timesheetHeader))

	if wt.Employee != nil {
		row = append(row, wt.Employee.FullName(), wt.Employee.PhoneNumber)
	} else {
		row = append(row, wt.EmployeeID.String(), "")
	}

	if wt.WorkSpace != nil {
		row = append(row, wt.WorkSpace.Name)
	} else {
		row = append(row, wt.WorkSpaceID.String())
	}

	row = append(row, stationName(wt.StartStation), wt.StartDate.UTC().Format(timesheetTimeLayout))

	if wt.EndDate == nil {
		return row
	}

	hours := wt.Duration().Round(time.Minute).Hours()
	return append(row, stationName(wt.EndStation), wt.EndDate.UTC().Format(timesheetTimeLayout), hours)
}

func stationName(st *domain.WeatherStation) string {
	if st == nil {
		return ""
	}
	return st.Name
}
