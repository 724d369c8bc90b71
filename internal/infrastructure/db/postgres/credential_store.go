package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const userColumns = `id, username, password, email, name, role, phone, location, bio, profile_picture, cv_url, created_at`

const companyColumns = `id, user_id, name, industry, location, website, description, created_at`

// Constraint names from migrations/000001_create_users_companies.up.sql.
const (
	constraintUsername      = "users_username_key"
	constraintEmail         = "users_email_key"
	constraintCompanyByUser = "companies_user_id_key"
)

// CredentialStore implements ports.CredentialStore and
// ports.AtomicCompanyRegistrar on PostgreSQL.
type CredentialStore struct {
	pool    poolIface
	timeout time.Duration
}

var (
	_ ports.CredentialStore        = (*CredentialStore)(nil)
	_ ports.AtomicCompanyRegistrar = (*CredentialStore)(nil)
)

func NewCredentialStore(pool poolIface, timeout time.Duration) *CredentialStore {
	return &CredentialStore{pool: pool, timeout: timeout}
}

func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *CredentialStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *CredentialStore) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *CredentialStore) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreUnavailable("find user", err)
	}
	return u, nil
}

func (s *CredentialStore) InsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return insertUser(ctx, s.pool, user)
}

func (s *CredentialStore) InsertCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return insertCompany(ctx, s.pool, company)
}

// InsertUserWithCompany inserts both records in one transaction, so a failed
// company insert never leaves a company account without its company.
func (s *CredentialStore) InsertUserWithCompany(ctx context.Context, user *domain.User, company *domain.Company) (*domain.User, *domain.Company, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, domain.StoreUnavailable("begin registration", err)
	}

	createdUser, err := insertUser(ctx, tx, user)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, err
	}

	c := *company
	c.UserID = createdUser.ID
	createdCompany, err := insertCompany(ctx, tx, &c)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, domain.StoreUnavailable("commit registration", err)
	}
	return createdUser, createdCompany, nil
}

func (s *CredentialStore) FindCompanyByUserID(ctx context.Context, userID int64) (*domain.Company, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	c, err := scanCompany(s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreUnavailable("find company", err)
	}
	return c, nil
}

// UpdateUserProfile leaves columns whose update field is nil untouched.
func (s *CredentialStore) UpdateUserProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			phone           = COALESCE($2, phone),
			location        = COALESCE($3, location),
			bio             = COALESCE($4, bio),
			profile_picture = COALESCE($5, profile_picture),
			cv_url          = COALESCE($6, cv_url)
		WHERE id = $1
		RETURNING `+userColumns,
		id, update.Phone, update.Location, update.Bio, update.ProfilePicture, update.CVURL,
	)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreUnavailable("update user profile", err)
	}
	return u, nil
}

func insertUser(ctx context.Context, q querier, user *domain.User) (*domain.User, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := q.QueryRow(ctx, `
		INSERT INTO users (username, password, email, name, role, phone, location, bio, profile_picture, cv_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		user.Username, user.Password, user.Email, user.Name, string(user.Role),
		user.Phone, user.Location, user.Bio, user.ProfilePicture, user.CVURL, createdAt,
	)

	created := *user
	created.CreatedAt = createdAt
	if err := row.Scan(&created.ID); err != nil {
		return nil, insertError("insert user", err)
	}
	return &created, nil
}

func insertCompany(ctx context.Context, q querier, company *domain.Company) (*domain.Company, error) {
	createdAt := company.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := q.QueryRow(ctx, `
		INSERT INTO companies (user_id, name, industry, location, website, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		company.UserID, company.Name, company.Industry, company.Location,
		company.Website, company.Description, createdAt,
	)

	created := *company
	created.CreatedAt = createdAt
	if err := row.Scan(&created.ID); err != nil {
		return nil, insertError("insert company", err)
	}
	return &created, nil
}

// insertError maps unique violations to the typed errors by constraint name.
func insertError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case constraintUsername:
			return domain.ErrUsernameTaken
		case constraintEmail:
			return domain.ErrEmailTaken
		case constraintCompanyByUser:
			return &domain.Error{Kind: domain.KindConflict, Message: "company already exists for user", Err: err}
		}
	}
	return domain.StoreUnavailable(op, err)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(
		&u.ID, &u.Username, &u.Password, &u.Email, &u.Name, &role,
		&u.Phone, &u.Location, &u.Bio, &u.ProfilePicture, &u.CVURL, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Industry, &c.Location, &c.Website, &c.Description, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
