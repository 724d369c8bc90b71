package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

func internshipBSON(id primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "company_id", Value: int64(3)},
		{Key: "company_name", Value: "Acme"},
		{Key: "title", Value: title},
		{Key: "description", Value: "Write Go services"},
		{Key: "location", Value: "Berlin"},
		{Key: "type", Value: "remote"},
		{Key: "created_at", Value: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestInternshipFilter(t *testing.T) {
	f := internshipFilter(ports.ListInternshipsFilter{
		CompanyID: 3,
		Location:  "new york (ny)",
		Type:      domain.InternshipHybrid,
		Search:    "go",
	})

	assert.Equal(t, int64(3), f["company_id"])
	assert.Equal(t, "hybrid", f["type"])
	assert.Equal(t, primitive.Regex{Pattern: `new york \(ny\)`, Options: "i"}, f["location"])
	assert.Len(t, f["$or"], 2)

	assert.Empty(t, internshipFilter(ports.ListInternshipsFilter{}))
}

func TestInternshipRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create sets id", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		i := &domain.Internship{Title: "Backend", Type: domain.InternshipRemote}
		require.NoError(mt, repo.Create(context.Background(), i))
		_, err := primitive.ObjectIDFromHex(i.ID)
		assert.NoError(mt, err)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.internships", mtest.FirstBatch, internshipBSON(id, "Backend")))

		i, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), i.ID)
		assert.Equal(mt, domain.InternshipRemote, i.Type)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.True(mt, errors.Is(err, domain.ErrInternshipNotFound))
	})

	mt.Run("missing is not found", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.internships", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, domain.ErrInternshipNotFound))
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "internquest.internships", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, "internquest.internships", mtest.FirstBatch,
				internshipBSON(primitive.NewObjectID(), "Backend"),
				internshipBSON(primitive.NewObjectID(), "Frontend"),
			),
		)

		items, total, err := repo.List(context.Background(), ports.ListInternshipsFilter{Page: 2, Limit: 10})
		require.NoError(mt, err)
		assert.Equal(mt, int64(12), total)
		require.Len(mt, items, 2)
		assert.Equal(mt, "Frontend", items[1].Title)
	})

	mt.Run("list failure", func(mt *mtest.T) {
		repo := NewInternshipRepository(mt.DB, time.Second)
		mt.AddMockResponses(commandFailure())

		_, _, err := repo.List(context.Background(), ports.ListInternshipsFilter{Page: 1, Limit: 10})
		assert.True(mt, errors.Is(err, domain.ErrStoreUnavailable))
	})
}

func TestApplicationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	appBSON := func(id primitive.ObjectID, status string) bson.D {
		return bson.D{
			{Key: "_id", Value: id},
			{Key: "internship_id", Value: "abc"},
			{Key: "intern_id", Value: int64(1)},
			{Key: "company_id", Value: int64(3)},
			{Key: "status", Value: status},
		}
	}

	mt.Run("duplicate application", func(mt *mtest.T) {
		repo := NewApplicationRepository(mt.DB, time.Second)
		mt.AddMockResponses(duplicateKeyReply())

		err := repo.Create(context.Background(), &domain.Application{InternshipID: "abc", InternID: 1})
		assert.True(mt, errors.Is(err, domain.ErrAlreadyApplied))
	})

	mt.Run("list by intern", func(mt *mtest.T) {
		repo := NewApplicationRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.applications", mtest.FirstBatch,
			appBSON(primitive.NewObjectID(), "pending"),
			appBSON(primitive.NewObjectID(), "rejected"),
		))

		apps, err := repo.ListByIntern(context.Background(), 1)
		require.NoError(mt, err)
		require.Len(mt, apps, 2)
		assert.Equal(mt, domain.ApplicationRejected, apps[1].Status)
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewApplicationRepository(mt.DB, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: appBSON(id, "reviewed")}})

		a, err := repo.UpdateStatus(context.Background(), id.Hex(), domain.ApplicationPending, domain.ApplicationReviewed)
		require.NoError(mt, err)
		assert.Equal(mt, domain.ApplicationReviewed, a.Status)
	})

	mt.Run("update status lost race", func(mt *mtest.T) {
		repo := NewApplicationRepository(mt.DB, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.ApplicationPending, domain.ApplicationReviewed)
		assert.True(mt, errors.Is(err, domain.ErrApplicationNotFound))
	})
}

func TestAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.InsertAuthEvent(context.Background(), &domain.AuthEvent{ID: "01J0000000000000000000000", Type: domain.EventLoginFailed, At: time.Now()})
		assert.NoError(mt, err)
	})

	mt.Run("failure", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB, time.Second)
		mt.AddMockResponses(commandFailure())

		err := repo.InsertAuthEvent(context.Background(), &domain.AuthEvent{ID: "x", Type: domain.EventLoggedOut})
		assert.True(mt, errors.Is(err, domain.ErrStoreUnavailable))
	})
}
