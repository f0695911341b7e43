package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/pkg/schedule"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "My Schedule"

var exportHeaders = []string{"Date", "Start Time", "End Time", "Timezone", "Title", "Notes"}

// ExportScheduleHandler выгружает смены текущего месяца в xlsx.
// Без смен получается файл из одной строки заголовков.
func (h *ScheduleHandler) ExportScheduleHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	loc := resolveTimezone(r, h.profiles, user.ID)

	now := time.Now().UTC()
	monthStart, monthEnd := schedule.MonthWindow(now)
	shifts, err := h.shifts.ListForMemberBetween(r.Context(), user.ID, monthStart, monthEnd)
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", exportSheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"3B82F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to build spreadsheet")
		return
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
		f.SetCellStyle(exportSheetName, cell, cell, headerStyle)
	}

	for i, shift := range shifts {
		startLocal := shift.StartTimeUTC.In(loc)
		endLocal := shift.EndTimeUTC.In(loc)

		values := []string{
			startLocal.Format("2006-01-02"),
			startLocal.Format("03:04 PM"),
			endLocal.Format("03:04 PM"),
			loc.String(),
			shift.Title,
			shift.Notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(exportSheetName, cell, value)
		}
	}

	autoSizeColumns(f, len(exportHeaders), len(shifts)+1)

	filename := fmt.Sprintf("schedule_%s.xlsx", now.Format("2006_01"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		log.Printf("Failed to write xlsx response: %v", err)
	}
}

// autoSizeColumns подгоняет ширину колонок под самое длинное значение.
// Ячейки, которые не удалось прочитать, пропускаются.
func autoSizeColumns(f *excelize.File, cols, rows int) {
	for col := 1; col <= cols; col++ {
		maxLength := 0
		for row := 1; row <= rows; row++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			value, err := f.GetCellValue(exportSheetName, cell)
			if err != nil {
				continue
			}
			if len(value) > maxLength {
				maxLength = len(value)
			}
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		f.SetColWidth(exportSheetName, name, name, float64(maxLength+2))
	}
}
