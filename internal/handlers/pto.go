package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/repositories"
	"github.com/evn/scheduler_backendl/internal/services/live"
	"github.com/go-chi/chi/v5"
)

type PTOHandler struct {
	users repositories.UserRepository
	pto   repositories.PTORepository
	hub   *live.Manager
}

func NewPTOHandler(users repositories.UserRepository, pto repositories.PTORepository, hub *live.Manager) *PTOHandler {
	return &PTOHandler{users: users, pto: pto, hub: hub}
}

// ListPTORequestsHandler: админ видит все заявки, пользователь — только свои.
func (h *PTOHandler) ListPTORequestsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var requests []models.PTORequest
	if user.IsStaff {
		requests, err = h.pto.ListAll(r.Context())
	} else {
		requests, err = h.pto.ListByUser(r.Context(), user.ID)
	}
	if err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if requests == nil {
		requests = []models.PTORequest{}
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pto_requests": requests,
	})
}

// SubmitPTORequestHandler создаёт заявку на отпуск.
// Владелец — всегда отправитель, стартовый статус — всегда Pending:
// что бы клиент ни прислал в поле status, оно игнорируется.
// Админы заявки не подают, как и в исходной системе.
func (h *PTOHandler) SubmitPTORequestHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if user.IsStaff {
		response.RespondWithError(w, http.StatusForbidden, "Admins do not submit PTO requests")
		return
	}

	var form models.PTOForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if form.StartDate == "" || form.EndDate == "" || form.Reason == "" {
		response.RespondWithError(w, http.StatusBadRequest, "Missing required fields: start_date, end_date, reason")
		return
	}
	for _, d := range []string{form.StartDate, form.EndDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
	}

	req := &models.PTORequest{
		UserID:    user.ID,
		Username:  user.Username,
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		Reason:    form.Reason,
		Status:    models.PTOStatusPending,
	}
	if err := h.pto.Create(r.Context(), req); err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to create PTO request")
		return
	}

	response.RespondWithJSON(w, http.StatusCreated, req)
}

// UpdatePTOStatusHandler применяет решение администратора.
// Принимаются только литералы "Approved" и "Rejected"; любое другое
// значение молча игнорируется — статус остаётся прежним, ответ 200.
// Повторное решение по уже решённой заявке не блокируется.
func (h *PTOHandler) UpdatePTOStatusHandler(w http.ResponseWriter, r *http.Request) {
	ptoID, err := strconv.Atoi(chi.URLParam(r, "ptoID"))
	if err != nil {
		response.RespondWithError(w, http.StatusNotFound, "PTO request not found")
		return
	}

	req, err := h.pto.GetByID(r.Context(), ptoID)
	if err != nil {
		if errors.Is(err, repositories.ErrPTONotFound) {
			response.RespondWithError(w, http.StatusNotFound, "PTO request not found")
		} else {
			response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	newStatus := readStatusField(r)
	if newStatus != models.PTOStatusApproved && newStatus != models.PTOStatusRejected {
		response.RespondWithJSON(w, http.StatusOK, req)
		return
	}

	if err := h.pto.UpdateStatus(r.Context(), ptoID, newStatus); err != nil {
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to update PTO status")
		return
	}
	req.Status = newStatus

	h.hub.PublishEvent(live.EventPTODecided, req)
	response.RespondWithJSON(w, http.StatusOK, req)
}

// readStatusField достаёт поле status из JSON-тела или обычной формы.
func readStatusField(r *http.Request) string {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return ""
		}
		return body.Status
	}
	return r.PostFormValue("status")
}
