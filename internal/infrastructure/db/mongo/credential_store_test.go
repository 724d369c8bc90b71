package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/internquest/internquest-api/internal/core/domain"
)

func counterReply(seq int64) bson.D {
	return bson.D{
		{Key: "ok", Value: 1},
		{Key: "value", Value: bson.D{{Key: "_id", Value: "seq"}, {Key: "seq", Value: seq}}},
	}
}

func userBSON(id int64, username, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "password", Value: "hash.salt"},
		{Key: "email", Value: email},
		{Key: "name", Value: "Alice"},
		{Key: "role", Value: "intern"},
		{Key: "created_at", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func duplicateKeyReply() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func commandFailure() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"})
}

func TestCredentialStore_FindUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.users", mtest.FirstBatch, userBSON(1, "alice", "alice@example.com")))

		u, err := store.FindUserByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		require.NotNil(mt, u)
		assert.Equal(mt, int64(1), u.ID)
		assert.Equal(mt, "alice@example.com", u.Email)
		assert.Equal(mt, domain.RoleIntern, u.Role)
		assert.Equal(mt, "hash.salt", u.Password)
	})

	mt.Run("absent is nil without error", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.users", mtest.FirstBatch))

		u, err := store.FindUserByEmail(context.Background(), "ghost@example.com")
		require.NoError(mt, err)
		assert.Nil(mt, u)
	})

	mt.Run("driver failure is store unavailable", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(commandFailure())

		_, err := store.FindUserByID(context.Background(), 1)
		assert.True(mt, errors.Is(err, domain.ErrStoreUnavailable), "got %v", err)
	})
}

func TestCredentialStore_InsertUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	user := &domain.User{Username: "alice", Email: "alice@example.com", Password: "hash.salt", Role: domain.RoleIntern}

	mt.Run("assigns sequence id", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(counterReply(7), mtest.CreateSuccessResponse())

		created, err := store.InsertUser(context.Background(), user)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), created.ID)
		assert.Equal(mt, "alice", created.Username)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(
			counterReply(8),
			duplicateKeyReply(),
			mtest.CreateCursorResponse(0, "internquest.users", mtest.FirstBatch, userBSON(1, "alice", "other@example.com")),
		)

		_, err := store.InsertUser(context.Background(), user)
		assert.True(mt, errors.Is(err, domain.ErrUsernameTaken), "got %v", err)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(
			counterReply(9),
			duplicateKeyReply(),
			mtest.CreateCursorResponse(0, "internquest.users", mtest.FirstBatch),
		)

		_, err := store.InsertUser(context.Background(), user)
		assert.True(mt, errors.Is(err, domain.ErrEmailTaken), "got %v", err)
	})

	mt.Run("counter failure", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(commandFailure())

		_, err := store.InsertUser(context.Background(), user)
		assert.True(mt, errors.Is(err, domain.ErrStoreUnavailable), "got %v", err)
	})
}

func TestCredentialStore_Companies(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(counterReply(3), mtest.CreateSuccessResponse())

		c, err := store.InsertCompany(context.Background(), &domain.Company{UserID: 7, Name: "Acme"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), c.ID)
		assert.Equal(mt, int64(7), c.UserID)
	})

	mt.Run("second company for user conflicts", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(counterReply(4), duplicateKeyReply())

		_, err := store.InsertCompany(context.Background(), &domain.Company{UserID: 7, Name: "Acme"})
		assert.Equal(mt, domain.KindConflict, domain.KindOf(err))
	})

	mt.Run("find by user", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "internquest.companies", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(3)},
			{Key: "user_id", Value: int64(7)},
			{Key: "name", Value: "Acme"},
		}))

		c, err := store.FindCompanyByUserID(context.Background(), 7)
		require.NoError(mt, err)
		require.NotNil(mt, c)
		assert.Equal(mt, "Acme", c.Name)
	})
}

func TestCredentialStore_UpdateUserProfile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	bio := "Go enthusiast"

	mt.Run("returns updated document", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		doc := append(userBSON(1, "alice", "alice@example.com"), bson.E{Key: "bio", Value: bio})
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}})

		u, err := store.UpdateUserProfile(context.Background(), 1, domain.ProfileUpdate{Bio: &bio})
		require.NoError(mt, err)
		assert.Equal(mt, bio, u.Bio)
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		store := NewCredentialStore(mt.DB, time.Second, zerolog.Nop())
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		u, err := store.UpdateUserProfile(context.Background(), 404, domain.ProfileUpdate{Bio: &bio})
		require.NoError(mt, err)
		assert.Nil(mt, u)
	})
}
