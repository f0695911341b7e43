package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/services/live"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type ImportShiftsRequest struct {
	GoogleSheetURL string `json:"google_sheet_url,omitempty"`
}

// ImportShiftsHandler массово заводит смены из xlsx-файла или Google-таблицы.
// Колонки: username, title, start (RFC 3339, UTC), end, notes.
// Вся пачка пишется одной транзакцией: либо всё, либо ничего.
func (h *ShiftHandler) ImportShiftsHandler(w http.ResponseWriter, r *http.Request) {
	admin, err := currentUser(r, h.users)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var rows [][]string

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var req ImportShiftsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.GoogleSheetURL == "" {
			response.RespondWithError(w, http.StatusBadRequest, "google_sheet_url is required")
			return
		}
		rows, err = readFromGoogleSheet(r.Context(), req.GoogleSheetURL)
		if err != nil {
			response.RespondWithError(w, http.StatusInternalServerError, "Failed to read Google Sheet: "+err.Error())
			return
		}
	} else {
		file, _, err := r.FormFile("file")
		if err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "File not found in request")
			return
		}
		defer file.Close()

		xlsx, err := excelize.OpenReader(file)
		if err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "Invalid Excel file")
			return
		}
		rows, err = xlsx.GetRows("Sheet1")
		if err != nil {
			sheets := xlsx.GetSheetList()
			if len(sheets) == 0 {
				response.RespondWithError(w, http.StatusBadRequest, "Empty Excel file")
				return
			}
			rows, err = xlsx.GetRows(sheets[0])
			if err != nil {
				response.RespondWithError(w, http.StatusInternalServerError, "Failed to read sheet")
				return
			}
		}
	}

	if len(rows) < 2 {
		response.RespondWithError(w, http.StatusBadRequest, "File must contain a header and at least one row")
		return
	}

	shifts, err := h.parseShiftRows(r.Context(), rows[1:], admin.ID)
	if err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(shifts) == 0 {
		response.RespondWithError(w, http.StatusBadRequest, "No valid rows found")
		return
	}

	if err := h.shifts.CreateBatch(r.Context(), shifts); err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to import shifts")
		return
	}

	h.hub.PublishEvent(live.EventShiftCreated, map[string]int{"imported": len(shifts)})
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(shifts),
	})
}

func (h *ShiftHandler) parseShiftRows(ctx context.Context, dataRows [][]string, adminID int) ([]models.Shift, error) {
	var shifts []models.Shift
	for i, row := range dataRows {
		if len(row) < 4 {
			continue
		}
		username := strings.TrimSpace(row[0])
		title := strings.TrimSpace(row[1])
		startStr := strings.TrimSpace(row[2])
		endStr := strings.TrimSpace(row[3])
		notes := ""
		if len(row) > 4 {
			notes = strings.TrimSpace(row[4])
		}

		if username == "" || title == "" || startStr == "" || endStr == "" {
			continue
		}

		member, err := h.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("row %d: unknown user %q", i+2, username)
		}
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid start time %q, expected RFC 3339", i+2, startStr)
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid end time %q, expected RFC 3339", i+2, endStr)
		}

		adminIDCopy := adminID
		shifts = append(shifts, models.Shift{
			MemberID:     member.ID,
			Title:        title,
			StartTimeUTC: start.UTC(),
			EndTimeUTC:   end.UTC(),
			Notes:        notes,
			CreatedBy:    &adminIDCopy,
		})
	}
	return shifts, nil
}

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

func readFromGoogleSheet(ctx context.Context, url string) ([][]string, error) {
	matches := sheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return nil, fmt.Errorf("invalid Google Sheets URL")
	}
	spreadsheetID := matches[1]

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile("credentials.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to init Google API: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, "A1:E1000").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	var rows [][]string
	for _, row := range resp.Values {
		var strRow []string
		for _, cell := range row {
			strRow = append(strRow, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, strRow)
	}
	return rows, nil
}
