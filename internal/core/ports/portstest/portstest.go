// Package portstest provides in-memory implementations of the core ports for
// use in tests. Uniqueness is enforced at insert time, the way the real
// stores enforce it with constraints.
package portstest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

// CredentialStore is an in-memory ports.CredentialStore. Set Err to make
// every call fail with it.
type CredentialStore struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	companies map[int64]*domain.Company
	nextUser  int64
	nextComp  int64

	Err error
	// FailCompanyInsert makes InsertCompany fail, leaving the user behind.
	FailCompanyInsert error
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		users:     make(map[int64]*domain.User),
		companies: make(map[int64]*domain.Company),
	}
}

func (s *CredentialStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.findUser(func(u *domain.User) bool { return u.Username == username })
}

func (s *CredentialStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u *domain.User) bool { return u.Email == email })
}

func (s *CredentialStore) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	return s.findUser(func(u *domain.User) bool { return u.ID == id })
}

func (s *CredentialStore) findUser(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *CredentialStore) InsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUserLocked(user)
}

func (s *CredentialStore) insertUserLocked(user *domain.User) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	s.nextUser++
	cp := *user
	cp.ID = s.nextUser
	s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *CredentialStore) InsertCompany(_ context.Context, company *domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.FailCompanyInsert != nil {
		return nil, s.FailCompanyInsert
	}
	return s.insertCompanyLocked(company)
}

func (s *CredentialStore) insertCompanyLocked(company *domain.Company) (*domain.Company, error) {
	if _, ok := s.users[company.UserID]; !ok {
		return nil, fmt.Errorf("company references unknown user %d", company.UserID)
	}
	s.nextComp++
	cp := *company
	cp.ID = s.nextComp
	s.companies[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *CredentialStore) FindCompanyByUserID(_ context.Context, userID int64) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.companies {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *CredentialStore) UpdateUserProfile(_ context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	update.Apply(u)
	cp := *u
	return &cp, nil
}

// Users returns a snapshot of every stored user ordered by id.
func (s *CredentialStore) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Companies returns the number of stored companies.
func (s *CredentialStore) Companies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies)
}

// AtomicCredentialStore adds ports.AtomicCompanyRegistrar to CredentialStore.
type AtomicCredentialStore struct {
	*CredentialStore
}

var _ ports.AtomicCompanyRegistrar = AtomicCredentialStore{}

func NewAtomicCredentialStore() AtomicCredentialStore {
	return AtomicCredentialStore{NewCredentialStore()}
}

func (s AtomicCredentialStore) InsertUserWithCompany(_ context.Context, user *domain.User, company *domain.Company) (*domain.User, *domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.insertUserLocked(user)
	if err != nil {
		return nil, nil, err
	}
	if s.FailCompanyInsert != nil {
		delete(s.users, u.ID)
		return nil, nil, s.FailCompanyInsert
	}
	c := *company
	c.UserID = u.ID
	created, err := s.insertCompanyLocked(&c)
	if err != nil {
		delete(s.users, u.ID)
		return nil, nil, err
	}
	return u, created, nil
}

// SessionStore is an in-memory ports.SessionStore that honours ExpiresAt
// against Now.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session

	Now func() time.Time
	Err error
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session), Now: time.Now}
}

func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if sess.ExpiredAt(s.Now()) {
		delete(s.sessions, id)
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live entries.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// AuditSink records events in memory.
type AuditSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

var _ ports.AuditSink = (*AuditSink)(nil)

func (a *AuditSink) Record(ev domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

// Events returns a copy of the recorded events.
func (a *AuditSink) Events() []domain.AuthEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuthEvent(nil), a.events...)
}

// Types returns the recorded event types in order.
func (a *AuditSink) Types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, len(a.events))
	for i, ev := range a.events {
		out[i] = ev.Type
	}
	return out
}

// InternshipRepository is an in-memory ports.InternshipRepository.
type InternshipRepository struct {
	mu    sync.Mutex
	items []*domain.Internship
	next  int
}

var _ ports.InternshipRepository = (*InternshipRepository)(nil)

func (r *InternshipRepository) Create(_ context.Context, i *domain.Internship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	i.ID = fmt.Sprintf("int-%d", r.next)
	cp := *i
	r.items = append(r.items, &cp)
	return nil
}

func (r *InternshipRepository) FindByID(_ context.Context, id string) (*domain.Internship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.ID == id {
			cp := *i
			return &cp, nil
		}
	}
	return nil, domain.ErrInternshipNotFound
}

func (r *InternshipRepository) List(_ context.Context, f ports.ListInternshipsFilter) ([]*domain.Internship, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Internship
	for i := len(r.items) - 1; i >= 0; i-- {
		it := r.items[i]
		if f.CompanyID != 0 && it.CompanyID != f.CompanyID {
			continue
		}
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.Location != "" && !containsFold(it.Location, f.Location) {
			continue
		}
		if f.Search != "" && !containsFold(it.Title, f.Search) && !containsFold(it.Description, f.Search) {
			continue
		}
		cp := *it
		matched = append(matched, &cp)
	}

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return []*domain.Internship{}, total, nil
	}
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

// ApplicationRepository is an in-memory ports.ApplicationRepository.
type ApplicationRepository struct {
	mu    sync.Mutex
	items map[string]*domain.Application
	order []string
	next  int
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) Create(_ context.Context, a *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = make(map[string]*domain.Application)
	}
	for _, existing := range r.items {
		if existing.InternshipID == a.InternshipID && existing.InternID == a.InternID {
			return domain.ErrAlreadyApplied
		}
	}
	r.next++
	a.ID = fmt.Sprintf("app-%d", r.next)
	cp := *a
	r.items[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *ApplicationRepository) ListByIntern(_ context.Context, internID int64) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.InternID == internID }), nil
}

func (r *ApplicationRepository) ListByCompany(_ context.Context, companyID int64) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.CompanyID == companyID }), nil
}

func (r *ApplicationRepository) list(match func(*domain.Application) bool) []*domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Application{}
	for i := len(r.order) - 1; i >= 0; i-- {
		a := r.items[r.order[i]]
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.Status != from {
		return nil, domain.ErrApplicationNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
