package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evn/scheduler_backendl/internal/models"
)

func TestDashboardCurrentShiftVisibleToEveryone(t *testing.T) {
	admin := &models.User{ID: 1, Username: "boss", IsStaff: true}
	member := &models.User{ID: 2, Username: "alice"}
	users := newFakeUserRepo(admin, member)

	shifts := newFakeShiftRepo()
	now := time.Now().UTC()
	shifts.Create(context.Background(), &models.Shift{
		MemberID:     member.ID,
		Title:        "Ongoing",
		StartTimeUTC: now.Add(-time.Hour),
		EndTimeUTC:   now.Add(time.Hour),
	})

	handler := DashboardHandler(users, shifts, newFakePTORepo())

	for _, viewer := range []*models.User{admin, member} {
		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest("GET", "/", nil), viewer.ID)
		handler(rec, req)

		if rec.Code != 200 {
			t.Fatalf("viewer %s: status = %d", viewer.Username, rec.Code)
		}
		var body struct {
			CurrentShifts []models.Shift `json:"current_shifts"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.CurrentShifts) != 1 || body.CurrentShifts[0].Title != "Ongoing" {
			t.Errorf("viewer %s: current_shifts = %+v, want the ongoing shift", viewer.Username, body.CurrentShifts)
		}
	}
}

func TestDashboardUpcomingLimitedToFiveEarliest(t *testing.T) {
	member := &models.User{ID: 1, Username: "alice"}
	users := newFakeUserRepo(member)

	shifts := newFakeShiftRepo()
	now := time.Now().UTC()
	// 7 будущих смен, заведены в обратном порядке
	for i := 7; i >= 1; i-- {
		shifts.Create(context.Background(), &models.Shift{
			MemberID:     member.ID,
			Title:        "Shift",
			StartTimeUTC: now.Add(time.Duration(i) * 24 * time.Hour),
			EndTimeUTC:   now.Add(time.Duration(i)*24*time.Hour + 8*time.Hour),
		})
	}

	rec := httptest.NewRecorder()
	req := withUser(httptest.NewRequest("GET", "/", nil), member.ID)
	DashboardHandler(users, shifts, newFakePTORepo())(rec, req)

	var body struct {
		UserShifts []models.Shift `json:"user_shifts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.UserShifts) != 5 {
		t.Fatalf("user_shifts: получили %d, ждали 5", len(body.UserShifts))
	}
	for i := 1; i < len(body.UserShifts); i++ {
		if body.UserShifts[i].StartTimeUTC.Before(body.UserShifts[i-1].StartTimeUTC) {
			t.Error("user_shifts не отсортированы по возрастанию")
		}
	}
	// Должны остаться именно 5 самых ранних: дни 1..5
	last := body.UserShifts[4].StartTimeUTC
	if last.After(now.Add(5*24*time.Hour + time.Minute)) {
		t.Errorf("в выборку попала не самая ранняя смена: %v", last)
	}
}

func TestDashboardAdminPayload(t *testing.T) {
	admin := &models.User{ID: 1, Username: "boss", IsStaff: true}
	member := &models.User{ID: 2, Username: "alice"}
	users := newFakeUserRepo(admin, member)

	pto := newFakePTORepo()
	pto.Create(context.Background(), &models.PTORequest{UserID: member.ID, StartDate: "2025-07-01", EndDate: "2025-07-03", Reason: "vacation", Status: models.PTOStatusPending})
	pto.Create(context.Background(), &models.PTORequest{UserID: member.ID, StartDate: "2025-06-01", EndDate: "2025-06-02", Reason: "old", Status: models.PTOStatusApproved})

	shifts := newFakeShiftRepo()
	now := time.Now().UTC()
	shifts.Create(context.Background(), &models.Shift{
		MemberID:     member.ID,
		Title:        "This week",
		StartTimeUTC: now.Add(time.Hour),
		EndTimeUTC:   now.Add(9 * time.Hour),
	})

	rec := httptest.NewRecorder()
	req := withUser(httptest.NewRequest("GET", "/", nil), admin.ID)
	DashboardHandler(users, shifts, pto)(rec, req)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var pendingCount int
	if err := json.Unmarshal(body["pending_pto_count"], &pendingCount); err != nil {
		t.Fatal("в ответе админа нет pending_pto_count")
	}
	if pendingCount != 1 {
		t.Errorf("pending_pto_count = %d, want 1", pendingCount)
	}

	var weekShifts []models.Shift
	if err := json.Unmarshal(body["all_shifts"], &weekShifts); err != nil {
		t.Fatal("в ответе админа нет all_shifts")
	}
	if len(weekShifts) != 1 {
		t.Errorf("all_shifts = %d смен, want 1", len(weekShifts))
	}

	if _, ok := body["user_shifts"]; ok {
		t.Error("ответ админа не должен содержать user_shifts")
	}
}

func TestDashboardMemberPayloadHasNoAdminFields(t *testing.T) {
	member := &models.User{ID: 1, Username: "alice"}
	users := newFakeUserRepo(member)

	rec := httptest.NewRecorder()
	req := withUser(httptest.NewRequest("GET", "/", nil), member.ID)
	DashboardHandler(users, newFakeShiftRepo(), newFakePTORepo())(rec, req)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["pending_pto_count"]; ok {
		t.Error("ответ пользователя не должен содержать pending_pto_count")
	}
	if _, ok := body["user_shifts"]; !ok {
		t.Error("в ответе пользователя нет user_shifts")
	}
}
