package handlers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// Hand-rolled stubs: each repository method delegates to an optional
// function field, so tests only wire what they exercise.

type stubReportRepo struct {
	upsertPending  func(report *models.Report) (bool, error)
	getByID        func(id uint) (*models.Report, error)
	byUser         func(userID uint) ([]models.Report, error)
	visible        func() ([]models.Report, error)
	pending        func() ([]models.Report, error)
	updateStatus   func(id uint, status string) error
	appendImageURL func(id uint, url string) error
	deleteOwn      func(id, userID uint) error
	upsertCalls    int
}

func (s *stubReportRepo) UpsertPending(report *models.Report) (bool, error) {
	s.upsertCalls++
	if s.upsertPending != nil {
		return s.upsertPending(report)
	}
	report.ID = 1
	return false, nil
}

func (s *stubReportRepo) GetReportByID(id uint) (*models.Report, error) {
	if s.getByID != nil {
		return s.getByID(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReportRepo) GetReportsByUser(userID uint) ([]models.Report, error) {
	if s.byUser != nil {
		return s.byUser(userID)
	}
	return nil, nil
}

func (s *stubReportRepo) GetVisibleReports() ([]models.Report, error) {
	if s.visible != nil {
		return s.visible()
	}
	return nil, nil
}

func (s *stubReportRepo) GetPendingReports() ([]models.Report, error) {
	if s.pending != nil {
		return s.pending()
	}
	return nil, nil
}

func (s *stubReportRepo) UpdateStatus(id uint, status string) error {
	if s.updateStatus != nil {
		return s.updateStatus(id, status)
	}
	return nil
}

func (s *stubReportRepo) AppendImageURL(id uint, url string) error {
	if s.appendImageURL != nil {
		return s.appendImageURL(id, url)
	}
	return nil
}

func (s *stubReportRepo) DeleteOwnReport(id, userID uint) error {
	if s.deleteOwn != nil {
		return s.deleteOwn(id, userID)
	}
	return nil
}

type stubDraftRepo struct {
	saved   *models.ReportDraft
	deletes int
}

func (s *stubDraftRepo) SaveDraft(_ context.Context, draft *models.ReportDraft) error {
	s.saved = draft
	return nil
}

func (s *stubDraftRepo) GetDraft(_ context.Context, userID uint) (*models.ReportDraft, error) {
	if s.saved != nil && s.saved.UserID == userID {
		return s.saved, nil
	}
	return nil, nil
}

func (s *stubDraftRepo) DeleteDraft(_ context.Context, _ uint) error {
	s.deletes++
	s.saved = nil
	return nil
}

type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) CreateUser(user *models.User) error {
	if s.users == nil {
		s.users = make(map[uint]*models.User)
	}
	user.ID = uint(len(s.users) + 1)
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateUser(user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) MarkVerified(email string) error {
	for _, u := range s.users {
		if u.Email == email {
			u.Verified = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubProfileRepo struct {
	profiles map[uint]*models.Profile
	upserts  int
}

func (s *stubProfileRepo) GetProfile(userID uint) (*models.Profile, error) {
	return s.profiles[userID], nil
}

func (s *stubProfileRepo) UpsertProfile(profile *models.Profile) error {
	if s.profiles == nil {
		s.profiles = make(map[uint]*models.Profile)
	}
	s.upserts++
	profile.UpdatedAt = time.Now()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *stubProfileRepo) SetAvatarURL(userID uint, url string) error {
	if s.profiles == nil {
		s.profiles = make(map[uint]*models.Profile)
	}
	p := s.profiles[userID]
	if p == nil {
		p = &models.Profile{UserID: userID}
		s.profiles[userID] = p
	}
	p.AvatarURL = url
	return nil
}

type stubAnnouncementRepo struct {
	anns []models.Announcement
}

func (s *stubAnnouncementRepo) CreateAnnouncement(a *models.Announcement) error {
	a.ID = uint(len(s.anns) + 1)
	a.UpdatedAt = time.Now()
	s.anns = append(s.anns, *a)
	return nil
}

func (s *stubAnnouncementRepo) UpdateAnnouncement(a *models.Announcement) error {
	a.UpdatedAt = time.Now()
	for i := range s.anns {
		if s.anns[i].ID == a.ID {
			s.anns[i] = *a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubAnnouncementRepo) DeleteAnnouncement(id uint) error {
	for i := range s.anns {
		if s.anns[i].ID == id {
			s.anns = append(s.anns[:i], s.anns[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubAnnouncementRepo) GetAnnouncementByID(id uint) (*models.Announcement, error) {
	for i := range s.anns {
		if s.anns[i].ID == id {
			return &s.anns[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAnnouncementRepo) ListAnnouncements(f models.AnnouncementFilter) ([]models.Announcement, error) {
	var out []models.Announcement
	for _, a := range s.anns {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Status == "" && !f.IncludeCompleted && a.Status == models.AnnouncementStatusCompleted {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAnnouncementRepo) ListLocated() ([]models.Announcement, error) {
	return s.anns, nil
}

type stubStateRepo struct {
	state models.NotificationState
}

func (s *stubStateRepo) GetState(_ context.Context, userID uint) (*models.NotificationState, error) {
	st := s.state
	st.UserID = userID
	return &st, nil
}

func (s *stubStateRepo) AddReadKeys(_ context.Context, _ uint, keys []string) error {
	s.state.ReadKeys = append(s.state.ReadKeys, keys...)
	return nil
}

func (s *stubStateRepo) AddPushedKey(_ context.Context, _ uint, key string) error {
	s.state.PushedKeys = append(s.state.PushedKeys, key)
	return nil
}

func (s *stubStateRepo) SetPreferences(_ context.Context, _ uint, prefs models.PushPreferences) error {
	s.state.Prefs = prefs
	return nil
}

type stubTokenRepo struct {
	tokens []models.DeviceToken
}

func (s *stubTokenRepo) RegisterToken(token *models.DeviceToken) error {
	s.tokens = append(s.tokens, *token)
	return nil
}

func (s *stubTokenRepo) GetTokensByUser(userID uint) ([]models.DeviceToken, error) {
	var out []models.DeviceToken
	for _, t := range s.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTokenRepo) ListAllTokens() ([]models.DeviceToken, error) {
	return s.tokens, nil
}

func (s *stubTokenRepo) DeleteToken(token string) error {
	for i, t := range s.tokens {
		if t.Token == token {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return nil
		}
	}
	return nil
}
