package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/evn/scheduler_backendl/config"
	"github.com/evn/scheduler_backendl/internal/models"
	"github.com/evn/scheduler_backendl/internal/repositories"
	"github.com/evn/scheduler_backendl/internal/services/live"
)

// In-memory реализации репозиториев для тестов хендлеров.

func withUser(r *http.Request, userID int) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), config.UserIDKey, userID))
}

func newTestHub() *live.Manager {
	return live.NewManager()
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = repo.nextID
		}
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now().UTC()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ListMembers(ctx context.Context) ([]models.User, error) {
	var members []models.User
	for _, u := range f.users {
		if !u.IsStaff {
			members = append(members, *u)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Username < members[j].Username })
	return members, nil
}

type fakeShiftRepo struct {
	shifts []models.Shift
	nextID int
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{nextID: 1}
}

func (f *fakeShiftRepo) Create(ctx context.Context, shift *models.Shift) error {
	shift.ID = f.nextID
	f.nextID++
	f.shifts = append(f.shifts, *shift)
	return nil
}

func (f *fakeShiftRepo) CreateBatch(ctx context.Context, shifts []models.Shift) error {
	for i := range shifts {
		f.Create(ctx, &shifts[i])
	}
	return nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id int) (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id {
			copy := s
			return &copy, nil
		}
	}
	return nil, repositories.ErrShiftNotFound
}

func (f *fakeShiftRepo) Update(ctx context.Context, shift *models.Shift) error {
	for i, s := range f.shifts {
		if s.ID == shift.ID {
			f.shifts[i] = *shift
			return nil
		}
	}
	return repositories.ErrShiftNotFound
}

func (f *fakeShiftRepo) Delete(ctx context.Context, id int) error {
	for i, s := range f.shifts {
		if s.ID == id {
			f.shifts = append(f.shifts[:i], f.shifts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrShiftNotFound
}

func (f *fakeShiftRepo) ListCurrent(ctx context.Context, now time.Time) ([]models.Shift, error) {
	var result []models.Shift
	for _, s := range f.shifts {
		if !s.StartTimeUTC.After(now) && !s.EndTimeUTC.Before(now) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

func (f *fakeShiftRepo) ListUpcomingForMember(ctx context.Context, memberID int, now time.Time, limit int) ([]models.Shift, error) {
	var result []models.Shift
	for _, s := range f.shifts {
		if s.MemberID == memberID && !s.StartTimeUTC.Before(now) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeShiftRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error) {
	var result []models.Shift
	for _, s := range f.shifts {
		if inRange(s.StartTimeUTC, from, to) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

func (f *fakeShiftRepo) ListForMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]models.Shift, error) {
	var result []models.Shift
	for _, s := range f.shifts {
		if s.MemberID == memberID && inRange(s.StartTimeUTC, from, to) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

// inRange — включительно с обеих сторон, как в SQL-запросах репозитория.
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func sortByStart(shifts []models.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].StartTimeUTC.Before(shifts[j].StartTimeUTC)
	})
}

type fakePTORepo struct {
	requests []models.PTORequest
	nextID   int
}

func newFakePTORepo() *fakePTORepo {
	return &fakePTORepo{nextID: 1}
}

func (f *fakePTORepo) Create(ctx context.Context, req *models.PTORequest) error {
	req.ID = f.nextID
	f.nextID++
	f.requests = append(f.requests, *req)
	return nil
}

func (f *fakePTORepo) GetByID(ctx context.Context, id int) (*models.PTORequest, error) {
	for _, p := range f.requests {
		if p.ID == id {
			copy := p
			return &copy, nil
		}
	}
	return nil, repositories.ErrPTONotFound
}

func (f *fakePTORepo) ListAll(ctx context.Context) ([]models.PTORequest, error) {
	result := append([]models.PTORequest(nil), f.requests...)
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate > result[j].StartDate })
	return result, nil
}

func (f *fakePTORepo) ListByUser(ctx context.Context, userID int) ([]models.PTORequest, error) {
	var result []models.PTORequest
	for _, p := range f.requests {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate > result[j].StartDate })
	return result, nil
}

func (f *fakePTORepo) CountByStatus(ctx context.Context, status string) (int, error) {
	count := 0
	for _, p := range f.requests {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakePTORepo) UpdateStatus(ctx context.Context, id int, status string) error {
	for i, p := range f.requests {
		if p.ID == id {
			f.requests[i].Status = status
			return nil
		}
	}
	return repositories.ErrPTONotFound
}

type fakeTeamMemberRepo struct {
	profiles map[int]*models.TeamMember
	nextID   int
}

func newFakeTeamMemberRepo() *fakeTeamMemberRepo {
	return &fakeTeamMemberRepo{profiles: make(map[int]*models.TeamMember), nextID: 1}
}

func (f *fakeTeamMemberRepo) GetByUserID(ctx context.Context, userID int) (*models.TeamMember, error) {
	if m, ok := f.profiles[userID]; ok {
		return m, nil
	}
	return nil, repositories.ErrTeamMemberNotFound
}

func (f *fakeTeamMemberRepo) Create(ctx context.Context, member *models.TeamMember) error {
	if member.Timezone == "" {
		member.Timezone = "UTC"
	}
	member.ID = f.nextID
	f.nextID++
	f.profiles[member.UserID] = member
	return nil
}

func (f *fakeTeamMemberRepo) UpdateTimezone(ctx context.Context, userID int, timezone string) error {
	m, ok := f.profiles[userID]
	if !ok {
		return repositories.ErrTeamMemberNotFound
	}
	m.Timezone = timezone
	return nil
}
