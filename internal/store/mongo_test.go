package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	f := idFilter(oid.Hex())
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": oid}, or[0])
	assert.Equal(t, bson.M{"id": oid.Hex()}, or[1])

	assert.Equal(t, bson.M{"id": "legacy-1"}, idFilter("legacy-1"))
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create user assigns id", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Name: "alice", Email: "a@example.com"}
		require.NoError(mt, s.CreateUser(ctx, u))
		assert.False(mt, u.OID.IsZero())
	})

	mt.Run("duplicate email is a conflict", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		err := s.CreateUser(ctx, &models.User{Email: "a@example.com"})
		require.ErrorIs(mt, err, errs.ErrConflict)
	})

	mt.Run("get user by email", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db."+Users, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "alice"},
			{Key: "email", Value: "a@example.com"},
		}))

		u, err := s.GetUserByEmail(ctx, "a@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), models.NormalizeID(u))
		assert.Equal(mt, "alice", u.Name)
	})

	mt.Run("missing user is not found", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db."+Users, mtest.FirstBatch))

		_, err := s.GetUserByID(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("playlist with string id and song snapshots", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db."+PlayLists, mtest.FirstBatch, bson.D{
			{Key: "id", Value: "pl-1"},
			{Key: "name", Value: "mix"},
			{Key: "songArr", Value: bson.A{
				bson.D{{Key: "id", Value: "s-1"}, {Key: "name", Value: "A"}, {Key: "URI", Value: "a.mp3"}},
			}},
		}))

		p, err := s.GetPlayList(ctx, "pl-1")
		require.NoError(mt, err)
		assert.Equal(mt, "pl-1", models.NormalizeID(p))
		require.Len(mt, p.SongArr, 1)
		assert.Equal(mt, "s-1", models.NormalizeID(p.SongArr[0]))
		assert.Equal(mt, "a.mp3", p.SongArr[0].URI)
	})

	mt.Run("append song reports whether it pushed", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		song := models.Song{Ident: models.Ident{OID: primitive.NewObjectID()}, Name: "A"}

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1},
		))
		added, err := s.AppendSong(ctx, primitive.NewObjectID().Hex(), song)
		require.NoError(mt, err)
		assert.True(mt, added)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		update := started.Command.Lookup("updates", "0")
		require.Equal(mt, bson.TypeEmbeddedDocument, update.Type)
		absent := update.Document().Lookup("q", "$and", "1")
		require.Equal(mt, bson.TypeEmbeddedDocument, absent.Type)
		assert.Equal(mt, song.OID.Hex(), absent.Document().Lookup("songArr.id", "$ne").StringValue())
		assert.Equal(mt, song.OID, absent.Document().Lookup("songArr._id", "$ne").ObjectID())
		assert.Equal(mt, bson.TypeArray, update.Document().Lookup("q", "$and", "0", "$or").Type)
		assert.Equal(mt, "A", update.Document().Lookup("u", "$push", "songArr", "name").StringValue())

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0},
		))
		added, err = s.AppendSong(ctx, primitive.NewObjectID().Hex(), song)
		require.NoError(mt, err)
		assert.False(mt, added)
	})

	mt.Run("set avatar key on missing user", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0},
		))

		err := s.SetUserAvatarKey(ctx, primitive.NewObjectID().Hex(), "avatars/x")
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("search songs", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db."+Songs, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Hey Jude"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Jude's Song"}},
		))

		songs, err := s.SearchSongs(ctx, "jude")
		require.NoError(mt, err)
		assert.Len(mt, songs, 2)
	})

	mt.Run("empty todo patch is a no-op", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		require.NoError(mt, s.UpdateToDo(ctx, "td-1", models.ToDoPatch{}))
	})
}
