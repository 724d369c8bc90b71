package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/internquest/internquest-api/internal/api/metrics"
	"github.com/internquest/internquest-api/internal/api/middleware"
	"github.com/internquest/internquest-api/internal/api/session"
	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn           func(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.User, *domain.Session, error)
	registerInternFn  func(ctx context.Context, in ports.RegisterUserInput, meta domain.ClientMeta) (*domain.User, *domain.Session, error)
	registerCompanyFn func(ctx context.Context, in ports.RegisterUserInput, cin ports.RegisterCompanyInput, meta domain.ClientMeta) (*domain.User, *domain.Company, *domain.Session, error)
	logoutFn          func(ctx context.Context, sessionID string, meta domain.ClientMeta) error
	currentUserFn     func(ctx context.Context, sessionID string) (*domain.User, error)
	updateProfileFn   func(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string, meta domain.ClientMeta) (*domain.User, *domain.Session, error) {
	return s.loginFn(ctx, username, password, meta)
}

func (s *stubAuthService) RegisterIntern(ctx context.Context, in ports.RegisterUserInput, meta domain.ClientMeta) (*domain.User, *domain.Session, error) {
	return s.registerInternFn(ctx, in, meta)
}

func (s *stubAuthService) RegisterCompany(ctx context.Context, in ports.RegisterUserInput, cin ports.RegisterCompanyInput, meta domain.ClientMeta) (*domain.User, *domain.Company, *domain.Session, error) {
	return s.registerCompanyFn(ctx, in, cin, meta)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string, meta domain.ClientMeta) error {
	return s.logoutFn(ctx, sessionID, meta)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	return s.currentUserFn(ctx, sessionID)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.User, error) {
	return s.updateProfileFn(ctx, p, u)
}

const testCookieName = "internquest.sid"

func newTestCookie() *session.Cookie {
	return session.NewCookie(session.Options{Name: testCookieName, Secret: "handler-test-secret"})
}

func newSession(id string, userID int64, role domain.Role) *domain.Session {
	now := time.Now()
	return &domain.Session{ID: id, UserID: userID, Role: role, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_RegisterStudent_Success(t *testing.T) {
	e := newEcho()
	m := metrics.New(prometheus.NewRegistry())
	stub := &stubAuthService{
		registerInternFn: func(_ context.Context, in ports.RegisterUserInput, meta domain.ClientMeta) (*domain.User, *domain.Session, error) {
			if in.Username != "alice" || in.Password != "secret1" || in.ConfirmPassword != "secret1" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if meta.UserAgent != "test-agent" {
				t.Fatalf("expected user agent in meta, got %+v", meta)
			}
			user := &domain.User{ID: 1, Username: in.Username, Password: "hash.salt", Email: in.Email, Role: domain.RoleIntern}
			return user, newSession("sess-1", 1, domain.RoleIntern), nil
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), m)

	req := jsonRequest(http.MethodPost, "/api/register/student",
		`{"username":"alice","password":"secret1","confirmPassword":"secret1","email":"alice@example.com","name":"Alice"}`)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	if err := handler.RegisterStudent(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if responseCookie(rec, testCookieName) == nil {
		t.Fatalf("expected session cookie")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "intern" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not be serialized")
	}
	if got := testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("intern")); got != 1 {
		t.Fatalf("expected 1 registration, got %v", got)
	}
}

func TestAuthHandler_RegisterStudent_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"mismatch", domain.ErrPasswordMismatch},
		{"username taken", domain.ErrUsernameTaken},
		{"email taken", domain.ErrEmailTaken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				registerInternFn: func(context.Context, ports.RegisterUserInput, domain.ClientMeta) (*domain.User, *domain.Session, error) {
					return nil, nil, tc.err
				},
			}
			handler := NewAuthHandler(stub, newTestCookie(), nil)

			req := jsonRequest(http.MethodPost, "/api/register/student",
				`{"username":"bob","password":"a","confirmPassword":"b","email":"bob@example.com"}`)
			rec := httptest.NewRecorder()

			err := handler.RegisterStudent(e.NewContext(req, rec))
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if responseCookie(rec, testCookieName) != nil {
				t.Fatalf("no cookie may be set on failure")
			}
		})
	}
}

func TestAuthHandler_RegisterStudent_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerInternFn: func(context.Context, ports.RegisterUserInput, domain.ClientMeta) (*domain.User, *domain.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), nil)

	for name, body := range map[string]string{
		"not json":  "not-json",
		"bad email": `{"username":"bob","password":"a","confirmPassword":"a","email":"nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/register/student", body)
			err := handler.RegisterStudent(e.NewContext(req, httptest.NewRecorder()))
			if code := httpErrorCode(t, err); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func TestAuthHandler_RegisterCompany_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerCompanyFn: func(_ context.Context, in ports.RegisterUserInput, cin ports.RegisterCompanyInput, _ domain.ClientMeta) (*domain.User, *domain.Company, *domain.Session, error) {
			if in.Username != "acme" || cin.Name != "Acme Corp" || cin.Industry != "Software" {
				t.Fatalf("unexpected input: %+v %+v", in, cin)
			}
			user := &domain.User{ID: 4, Username: "acme", Role: domain.RoleCompany}
			company := &domain.Company{ID: 9, UserID: 4, Name: cin.Name}
			return user, company, newSession("sess-2", 4, domain.RoleCompany), nil
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), nil)

	req := jsonRequest(http.MethodPost, "/api/register/company",
		`{"user":{"username":"acme","password":"pw","confirmPassword":"pw","email":"hr@acme.io"},"company":{"name":"Acme Corp","industry":"Software"}}`)
	rec := httptest.NewRecorder()

	if err := handler.RegisterCompany(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp registerCompanyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.Role != "company" || resp.Company.UserID != resp.User.ID {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if responseCookie(rec, testCookieName) == nil {
		t.Fatalf("expected session cookie")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newEcho()
	m := metrics.New(prometheus.NewRegistry())
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string, _ domain.ClientMeta) (*domain.User, *domain.Session, error) {
			if username == "alice" && password == "secret1" {
				return &domain.User{ID: 1, Username: "alice", Role: domain.RoleIntern}, newSession("sess-1", 1, domain.RoleIntern), nil
			}
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), m)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/api/login", `{"username":"alice","password":"secret1"}`)
	if err := handler.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || responseCookie(rec, testCookieName) == nil {
		t.Fatalf("expected 200 with cookie, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = jsonRequest(http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`)
	err := handler.Login(e.NewContext(req, rec))
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if responseCookie(rec, testCookieName) != nil {
		t.Fatalf("no cookie may be set on failed login")
	}

	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.LoginSucceeded)); got != 1 {
		t.Fatalf("expected 1 successful login, got %v", got)
	}
	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.LoginFailed)); got != 1 {
		t.Fatalf("expected 1 failed login, got %v", got)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, newTestCookie(), nil)

	req := jsonRequest(http.MethodPost, "/api/login", `{"username":"alice"}`)
	err := handler.Login(e.NewContext(req, httptest.NewRecorder()))
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	cookie := newTestCookie()

	var loggedOut []string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, id string, _ domain.ClientMeta) error {
			loggedOut = append(loggedOut, id)
			return nil
		},
	}
	handler := NewAuthHandler(stub, cookie, nil)

	issueRec := httptest.NewRecorder()
	if err := cookie.Issue(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), issueRec), newSession("sess-9", 1, domain.RoleIntern)); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(responseCookie(issueRec, testCookieName))
	rec := httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cleared := responseCookie(rec, testCookieName)
	if cleared == nil || cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", cleared)
	}

	// Without a cookie logout still succeeds and touches no session.
	rec = httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(loggedOut) != 1 || loggedOut[0] != "sess-9" {
		t.Fatalf("unexpected logout calls: %v", loggedOut)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		currentUserFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "sess-1" {
				return nil, domain.ErrUnauthenticated
			}
			return &domain.User{ID: 1, Username: "alice", Role: domain.RoleIntern}, nil
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), nil)

	// Anonymous.
	err := handler.Me(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/user", nil), httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/user", nil), rec)
	middleware.SetPrincipal(c, domain.Principal{UserID: 1, Role: domain.RoleIntern, SessionID: "sess-1"})
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		updateProfileFn: func(_ context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.User, error) {
			if p.UserID != 1 {
				t.Fatalf("unexpected principal: %+v", p)
			}
			if u.Bio == nil || *u.Bio != "Go developer" || u.Phone != nil {
				t.Fatalf("unexpected update: %+v", u)
			}
			return &domain.User{ID: 1, Username: "alice", Role: domain.RoleIntern, Bio: *u.Bio}, nil
		},
	}
	handler := NewAuthHandler(stub, newTestCookie(), nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/user", `{"bio":"Go developer"}`), rec)
	middleware.SetPrincipal(c, domain.Principal{UserID: 1, Role: domain.RoleIntern, SessionID: "sess-1"})
	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"bio":"Go developer"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c = e.NewContext(jsonRequest(http.MethodPatch, "/api/user", `{"cvUrl":"not a url"}`), httptest.NewRecorder())
	middleware.SetPrincipal(c, domain.Principal{UserID: 1, Role: domain.RoleIntern, SessionID: "sess-1"})
	if code := httpErrorCode(t, handler.UpdateProfile(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
