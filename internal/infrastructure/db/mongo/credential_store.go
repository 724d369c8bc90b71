package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

type userDoc struct {
	ID             int64     `bson:"_id"`
	Username       string    `bson:"username"`
	Password       string    `bson:"password"`
	Email          string    `bson:"email"`
	Name           string    `bson:"name"`
	Role           string    `bson:"role"`
	Phone          string    `bson:"phone,omitempty"`
	Location       string    `bson:"location,omitempty"`
	Bio            string    `bson:"bio,omitempty"`
	ProfilePicture string    `bson:"profile_picture,omitempty"`
	CVURL          string    `bson:"cv_url,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID,
		Username:       d.Username,
		Password:       d.Password,
		Email:          d.Email,
		Name:           d.Name,
		Role:           domain.Role(d.Role),
		Phone:          d.Phone,
		Location:       d.Location,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		CVURL:          d.CVURL,
		CreatedAt:      d.CreatedAt,
	}
}

type companyDoc struct {
	ID          int64     `bson:"_id"`
	UserID      int64     `bson:"user_id"`
	Name        string    `bson:"name"`
	Industry    string    `bson:"industry,omitempty"`
	Location    string    `bson:"location,omitempty"`
	Website     string    `bson:"website,omitempty"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d *companyDoc) toDomain() *domain.Company {
	return &domain.Company{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Industry:    d.Industry,
		Location:    d.Location,
		Website:     d.Website,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// CredentialStore implements ports.CredentialStore on the users, companies
// and counters collections. Numeric ids come from per-collection sequences
// in counters.
type CredentialStore struct {
	users     *mongo.Collection
	companies *mongo.Collection
	counters  *mongo.Collection
	timeout   time.Duration
	log       zerolog.Logger
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(db *mongo.Database, timeout time.Duration, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{
		users:     db.Collection(collUsers),
		companies: db.Collection(collCompanies),
		counters:  db.Collection(collCounters),
		timeout:   timeout,
		log:       log,
	}
}

func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *CredentialStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *CredentialStore) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *CredentialStore) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find user", err)
	}
	return doc.toDomain(), nil
}

// InsertUser assigns the next user id and inserts the record. A duplicate
// key error is resolved to the field that collided.
func (s *CredentialStore) InsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := s.nextID(ctx, collUsers)
	if err != nil {
		return nil, err
	}

	doc := userDoc{
		ID:             id,
		Username:       user.Username,
		Password:       user.Password,
		Email:          user.Email,
		Name:           user.Name,
		Role:           string(user.Role),
		Phone:          user.Phone,
		Location:       user.Location,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CVURL:          user.CVURL,
		CreatedAt:      user.CreatedAt,
	}

	insertCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.users.InsertOne(insertCtx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.log.Debug().Str("username", user.Username).Msg("duplicate key on user insert")
			return nil, s.duplicateUserError(ctx, user.Username)
		}
		return nil, unavailable("insert user", err)
	}
	return doc.toDomain(), nil
}

// duplicateUserError decides which unique index an insert hit. The username
// wins when both collide, matching the order of the registration pre-checks.
func (s *CredentialStore) duplicateUserError(ctx context.Context, username string) error {
	existing, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

func (s *CredentialStore) InsertCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	id, err := s.nextID(ctx, collCompanies)
	if err != nil {
		return nil, err
	}

	doc := companyDoc{
		ID:          id,
		UserID:      company.UserID,
		Name:        company.Name,
		Industry:    company.Industry,
		Location:    company.Location,
		Website:     company.Website,
		Description: company.Description,
		CreatedAt:   company.CreatedAt,
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.companies.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.Error{Kind: domain.KindConflict, Message: "company already exists for user", Err: err}
		}
		return nil, unavailable("insert company", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) FindCompanyByUserID(ctx context.Context, userID int64) (*domain.Company, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc companyDoc
	if err := s.companies.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find company", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) UpdateUserProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePicture != nil {
		set["profile_picture"] = *update.ProfilePicture
	}
	if update.CVURL != nil {
		set["cv_url"] = *update.CVURL
	}
	if len(set) == 0 {
		return s.FindUserByID(ctx, id)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("update user profile", err)
	}
	return doc.toDomain(), nil
}

// nextID increments and returns the sequence named name.
func (s *CredentialStore) nextID(ctx context.Context, name string) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, unavailable("next "+name+" id", err)
	}
	return counter.Seq, nil
}
