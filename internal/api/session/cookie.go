// Package session carries the session id between the browser and the API in
// a signed cookie.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/internquest/internquest-api/internal/core/domain"
)

// Claims is the typed payload of the cookie token. ID holds the session id
// and Subject the user id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Options configures a Cookie.
type Options struct {
	Name   string
	Secret string
	Secure bool
}

// Cookie issues, reads and clears the session cookie.
type Cookie struct {
	name   string
	secret []byte
	secure bool
	now    func() time.Time
}

func NewCookie(opts Options) *Cookie {
	return &Cookie{
		name:   opts.Name,
		secret: []byte(opts.Secret),
		secure: opts.Secure,
		now:    time.Now,
	}
}

// Name returns the cookie name.
func (c *Cookie) Name() string { return c.name }

// Issue signs sess into a token and sets it as the response cookie. The
// cookie and the token expire together with the session.
func (c *Cookie) Issue(ctx echo.Context, sess *domain.Session) error {
	claims := Claims{
		Role: sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatInt(sess.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}

	maxAge := int(sess.ExpiresAt.Sub(c.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	ctx.SetCookie(c.cookie(token, maxAge, sess.ExpiresAt))
	return nil
}

// Read returns the session id carried by the request cookie. A missing,
// tampered or expired cookie yields domain.ErrUnauthenticated.
func (c *Cookie) Read(ctx echo.Context) (string, error) {
	ck, err := ctx.Cookie(c.name)
	if err != nil || ck.Value == "" {
		return "", domain.ErrUnauthenticated
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(ck.Value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindUnauthenticated, Message: domain.ErrUnauthenticated.Message, Err: err}
	}
	if claims.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.ID, nil
}

// Clear expires the cookie in the browser.
func (c *Cookie) Clear(ctx echo.Context) {
	ctx.SetCookie(c.cookie("", -1, time.Unix(0, 0)))
}

func (c *Cookie) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IsUnauthenticated reports whether err came from a missing or invalid cookie.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated)
}
