package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

type internshipDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID    int64              `bson:"company_id"`
	CompanyName  string             `bson:"company_name"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Location     string             `bson:"location"`
	Type         string             `bson:"type"`
	Duration     string             `bson:"duration,omitempty"`
	Stipend      string             `bson:"stipend,omitempty"`
	Requirements []string           `bson:"requirements,omitempty"`
	Deadline     *time.Time         `bson:"deadline,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *internshipDoc) toDomain() *domain.Internship {
	return &domain.Internship{
		ID:           d.ID.Hex(),
		CompanyID:    d.CompanyID,
		CompanyName:  d.CompanyName,
		Title:        d.Title,
		Description:  d.Description,
		Location:     d.Location,
		Type:         domain.InternshipType(d.Type),
		Duration:     d.Duration,
		Stipend:      d.Stipend,
		Requirements: d.Requirements,
		Deadline:     d.Deadline,
		CreatedAt:    d.CreatedAt,
	}
}

type InternshipRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

var _ ports.InternshipRepository = (*InternshipRepository)(nil)

func NewInternshipRepository(db *mongo.Database, timeout time.Duration) *InternshipRepository {
	return &InternshipRepository{col: db.Collection(collInternships), timeout: timeout}
}

// Create inserts a listing and sets its id.
func (r *InternshipRepository) Create(ctx context.Context, i *domain.Internship) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := internshipDoc{
		ID:           primitive.NewObjectID(),
		CompanyID:    i.CompanyID,
		CompanyName:  i.CompanyName,
		Title:        i.Title,
		Description:  i.Description,
		Location:     i.Location,
		Type:         string(i.Type),
		Duration:     i.Duration,
		Stipend:      i.Stipend,
		Requirements: i.Requirements,
		Deadline:     i.Deadline,
		CreatedAt:    i.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return unavailable("insert internship", err)
	}
	i.ID = doc.ID.Hex()
	return nil
}

func (r *InternshipRepository) FindByID(ctx context.Context, id string) (*domain.Internship, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInternshipNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc internshipDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInternshipNotFound
		}
		return nil, unavailable("find internship", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of listings, newest first, and the number of
// listings matching the filter.
func (r *InternshipRepository) List(ctx context.Context, f ports.ListInternshipsFilter) ([]*domain.Internship, int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := internshipFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, unavailable("count internships", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, unavailable("list internships", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Internship, 0, f.Limit)
	for cur.Next(ctx) {
		var doc internshipDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, unavailable("decode internship", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, unavailable("list internships", err)
	}
	return items, total, nil
}

func internshipFilter(f ports.ListInternshipsFilter) bson.M {
	filter := bson.M{}
	if f.CompanyID != 0 {
		filter["company_id"] = f.CompanyID
	}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.Location != "" {
		filter["location"] = containsPattern(f.Location)
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": p},
			bson.M{"description": p},
		}
	}
	return filter
}

// containsPattern matches s literally anywhere, ignoring case.
func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
