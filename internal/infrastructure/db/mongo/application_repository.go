package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

type applicationDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	InternshipID string             `bson:"internship_id"`
	InternID     int64              `bson:"intern_id"`
	CompanyID    int64              `bson:"company_id"`
	CoverLetter  string             `bson:"cover_letter,omitempty"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *applicationDoc) toDomain() *domain.Application {
	return &domain.Application{
		ID:           d.ID.Hex(),
		InternshipID: d.InternshipID,
		InternID:     d.InternID,
		CompanyID:    d.CompanyID,
		CoverLetter:  d.CoverLetter,
		Status:       domain.ApplicationStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type ApplicationRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db *mongo.Database, timeout time.Duration) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collApplications), timeout: timeout}
}

// Create inserts an application. The unique (internship_id, intern_id)
// index turns a second application into domain.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := applicationDoc{
		ID:           primitive.NewObjectID(),
		InternshipID: a.InternshipID,
		InternID:     a.InternID,
		CompanyID:    a.CompanyID,
		CoverLetter:  a.CoverLetter,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyApplied
		}
		return unavailable("insert application", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrApplicationNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc applicationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, unavailable("find application", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicationRepository) ListByIntern(ctx context.Context, internID int64) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"intern_id": internID})
}

func (r *ApplicationRepository) ListByCompany(ctx context.Context, companyID int64) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"company_id": companyID})
}

func (r *ApplicationRepository) list(ctx context.Context, filter bson.M) ([]*domain.Application, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, unavailable("list applications", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("list applications", err)
	}

	out := make([]*domain.Application, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// UpdateStatus sets the status only if it still equals from, so two
// reviewers racing on the same application cannot both win.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) (*domain.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrApplicationNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc applicationDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, unavailable("update application status", err)
	}
	return doc.toDomain(), nil
}
