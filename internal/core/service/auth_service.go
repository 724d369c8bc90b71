package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const (
	// DefaultSessionTTL is the absolute lifetime of a session.
	DefaultSessionTTL = 30 * 24 * time.Hour

	sessionIDBytes = 32
)

// AuthService implements login, registration, logout and session lookup.
type AuthService struct {
	store    ports.CredentialStore
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	audit    ports.AuditSink
	log      zerolog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithAuditSink sends auth events to sink.
func WithAuditSink(sink ports.AuditSink) AuthOption {
	return func(s *AuthService) {
		if sink != nil {
			s.audit = sink
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	store ports.CredentialStore,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		store:    store,
		sessions: sessions,
		hasher:   hasher,
		audit:    nopAuditSink{},
		log:      log,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks username and password and opens a session. Unknown usernames
// and wrong passwords fail with the same error after the same KDF work.
func (s *AuthService) Login(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.User, *domain.Session, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	var ok bool
	if user == nil {
		ok = s.hasher.VerifyDummy(password)
	} else {
		ok = s.hasher.Verify(password, user.Password)
	}
	if !ok {
		ev := s.event(domain.EventLoginFailed, meta)
		ev.Username = username
		s.audit.Record(ev)
		s.log.Info().Str("username", username).Msg("login failed")
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.recordFor(domain.EventLoginSucceeded, user, meta)
	s.log.Info().Int64("user_id", user.ID).Msg("login succeeded")
	return user, sess, nil
}

// RegisterIntern creates an intern account and opens a session for it.
func (s *AuthService) RegisterIntern(ctx context.Context, in ports.RegisterUserInput, meta domain.ClientMeta) (*domain.User, *domain.Session, error) {
	user, err := s.prepareUser(ctx, in, domain.RoleIntern)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.store.InsertUser(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.openSession(ctx, created)
	if err != nil {
		return nil, nil, err
	}

	s.recordFor(domain.EventRegistered, created, meta)
	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, sess, nil
}

// RegisterCompany creates a company account plus its company record. The
// company name is checked after password confirmation and the required user
// fields, in the same order RegisterIntern uses. Stores that implement
// ports.AtomicCompanyRegistrar insert both in one step; on other stores a
// failed company insert leaves the user without a company.
func (s *AuthService) RegisterCompany(ctx context.Context, in ports.RegisterUserInput, cin ports.RegisterCompanyInput, meta domain.ClientMeta) (*domain.User, *domain.Company, *domain.Session, error) {
	if err := checkUserInput(in); err != nil {
		return nil, nil, nil, err
	}
	if strings.TrimSpace(cin.Name) == "" {
		return nil, nil, nil, domain.Validation("company name is required")
	}

	user, err := s.prepareUser(ctx, in, domain.RoleCompany)
	if err != nil {
		return nil, nil, nil, err
	}

	company := &domain.Company{
		Name:        cin.Name,
		Industry:    cin.Industry,
		Location:    cin.Location,
		Website:     cin.Website,
		Description: cin.Description,
		CreatedAt:   user.CreatedAt,
	}

	var createdUser *domain.User
	var createdCompany *domain.Company
	if reg, ok := s.store.(ports.AtomicCompanyRegistrar); ok {
		createdUser, createdCompany, err = reg.InsertUserWithCompany(ctx, user, company)
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		createdUser, err = s.store.InsertUser(ctx, user)
		if err != nil {
			return nil, nil, nil, err
		}
		company.UserID = createdUser.ID
		createdCompany, err = s.store.InsertCompany(ctx, company)
		if err != nil {
			s.log.Error().Err(err).
				Int64("user_id", createdUser.ID).
				Str("username", createdUser.Username).
				Msg("company insert failed after user insert, user has no company")
			return nil, nil, nil, err
		}
	}

	sess, err := s.openSession(ctx, createdUser)
	if err != nil {
		return nil, nil, nil, err
	}

	s.recordFor(domain.EventRegistered, createdUser, meta)
	s.log.Info().
		Int64("user_id", createdUser.ID).
		Int64("company_id", createdCompany.ID).
		Msg("company registered")
	return createdUser, createdCompany, sess, nil
}

// Logout destroys the session. Unknown or already destroyed ids are fine.
func (s *AuthService) Logout(ctx context.Context, sessionID string, meta domain.ClientMeta) error {
	if sessionID == "" {
		return nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	if sess != nil {
		ev := s.event(domain.EventLoggedOut, meta)
		ev.UserID = sess.UserID
		ev.Username = sess.Username
		s.audit.Record(ev)
	}
	return nil
}

// CurrentUser resolves the session and re-reads the user it points at.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	sess, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Authenticate resolves the session into a principal without loading the user.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Principal, error) {
	sess, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{UserID: sess.UserID, Role: sess.Role, SessionID: sessionID}, nil
}

// UpdateProfile changes the mutable profile fields of the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, principal domain.Principal, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return nil, domain.Validation("no profile fields to update")
	}

	user, err := s.store.UpdateUserProfile(ctx, principal.UserID, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// prepareUser runs the registration checks in order: confirmation, username,
// email. The pre-checks give the common case a precise message; the store's
// unique constraints catch what slips through concurrently.
func (s *AuthService) prepareUser(ctx context.Context, in ports.RegisterUserInput, role domain.Role) (*domain.User, error) {
	if err := checkUserInput(in); err != nil {
		return nil, err
	}

	existing, err := s.store.FindUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	existing, err = s.store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &domain.User{
		Username:       in.Username,
		Password:       hash,
		Email:          in.Email,
		Name:           in.Name,
		Role:           role,
		Phone:          in.Phone,
		Location:       in.Location,
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
		CVURL:          in.CVURL,
		CreatedAt:      s.now().UTC(),
	}, nil
}

// checkUserInput runs the checks that need no store round trip.
func checkUserInput(in ports.RegisterUserInput) error {
	if in.Password != in.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return domain.Validation("username, password and email are required")
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) activeSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.ExpiredAt(s.now()) {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

func (s *AuthService) event(t domain.AuthEventType, meta domain.ClientMeta) domain.AuthEvent {
	return domain.AuthEvent{
		ID:        ulid.Make().String(),
		Type:      t,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		At:        s.now().UTC(),
	}
}

func (s *AuthService) recordFor(t domain.AuthEventType, user *domain.User, meta domain.ClientMeta) {
	ev := s.event(t, meta)
	ev.UserID = user.ID
	ev.Username = user.Username
	s.audit.Record(ev)
}

// newSessionID returns 32 random bytes, hex encoded.
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type nopAuditSink struct{}

func (nopAuditSink) Record(domain.AuthEvent) {}
