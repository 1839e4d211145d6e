package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

// Collection names.
const (
	Users     = "Users"
	Songs     = "Songs"
	PlayLists = "PlayLists"
	TaskLists = "TaskLists"
	ToDos     = "ToDos"
)

// searchLimit caps songSearch results.
const searchLimit = 50

// MongoStore keeps every entity in its own MongoDB collection.
type MongoStore struct {
	users     *mongo.Collection
	songs     *mongo.Collection
	playLists *mongo.Collection
	taskLists *mongo.Collection
	toDos     *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:     db.Collection(Users),
		songs:     db.Collection(Songs),
		playLists: db.Collection(PlayLists),
		taskLists: db.Collection(TaskLists),
		toDos:     db.Collection(ToDos),
	}
}

// EnsureIndexes creates the unique email index and the lookup indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongo index Users.email: %w", err)
	}
	lookups := []struct {
		col   *mongo.Collection
		field string
	}{
		{s.playLists, "authorId"},
		{s.taskLists, "userIds"},
		{s.toDos, "taskListId"},
	}
	for _, l := range lookups {
		if _, err := l.col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: l.field, Value: 1}},
		}); err != nil {
			return fmt.Errorf("mongo index %s.%s: %w", l.col.Name(), l.field, err)
		}
	}
	return nil
}

// idFilter matches a document by its external id: the native _id when id is
// an ObjectID hex string, or a pre-set string id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"id": id}}}
	}
	return bson.M{"id": id}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var out T
	err := col.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", col.Name(), err)
	}
	return &out, nil
}

func findByID[T any](ctx context.Context, col *mongo.Collection, id string) (*T, error) {
	if id == "" {
		return nil, errs.ErrNotFound
	}
	return findOne[T](ctx, col, idFilter(id))
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", col.Name(), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func insertOne(ctx context.Context, col *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, errs.ErrConflict
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("mongo insert %s: %w", col.Name(), err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("mongo insert %s: unexpected id %T", col.Name(), res.InsertedID)
	}
	return oid, nil
}

// setByID applies a $set to one document and reports ErrNotFound when no
// document matched.
func setByID(ctx context.Context, col *mongo.Collection, id string, set bson.M) error {
	res, err := col.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

// ── Users ────────────────────────────────────────────────

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	oid, err := insertOne(ctx, s.users, u)
	if err != nil {
		return err
	}
	u.OID = oid
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return findByID[models.User](ctx, s.users, id)
}

func (s *MongoStore) ListUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"id": bson.M{"$in": ids}},
	}}
	return findAll[models.User](ctx, s.users, filter)
}

func (s *MongoStore) SetUserAvatarKey(ctx context.Context, id, key string) error {
	return setByID(ctx, s.users, id, bson.M{"avatarKey": key})
}

// ── Songs ────────────────────────────────────────────────

func (s *MongoStore) CreateSong(ctx context.Context, song *models.Song) error {
	oid, err := insertOne(ctx, s.songs, song)
	if err != nil {
		return err
	}
	song.OID = oid
	return nil
}

func (s *MongoStore) GetSong(ctx context.Context, id string) (*models.Song, error) {
	return findByID[models.Song](ctx, s.songs, id)
}

// SearchSongs matches name as a case-insensitive substring.
func (s *MongoStore) SearchSongs(ctx context.Context, name string) ([]models.Song, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(searchLimit)
	return findAll[models.Song](ctx, s.songs, filter, opts)
}

func (s *MongoStore) SetSongObjectKey(ctx context.Context, id, key string) error {
	return setByID(ctx, s.songs, id, bson.M{"objectKey": key})
}

// ── PlayLists ────────────────────────────────────────────

func (s *MongoStore) CreatePlayList(ctx context.Context, p *models.PlayList) error {
	oid, err := insertOne(ctx, s.playLists, p)
	if err != nil {
		return err
	}
	p.OID = oid
	return nil
}

func (s *MongoStore) GetPlayList(ctx context.Context, id string) (*models.PlayList, error) {
	return findByID[models.PlayList](ctx, s.playLists, id)
}

func (s *MongoStore) ListPlayListsByAuthor(ctx context.Context, authorID string) ([]models.PlayList, error) {
	return findAll[models.PlayList](ctx, s.playLists, bson.M{"authorId": authorID}, newestFirst)
}

// AppendSong pushes song in a single conditional update whose filter skips
// playlists already holding an entry with the song's id, in either
// representation.
func (s *MongoStore) AppendSong(ctx context.Context, playListID string, song models.Song) (bool, error) {
	absent := bson.M{"songArr.id": bson.M{"$ne": models.NormalizeID(song)}}
	if !song.OID.IsZero() {
		absent["songArr._id"] = bson.M{"$ne": song.OID}
	}
	filter := bson.M{"$and": bson.A{idFilter(playListID), absent}}
	res, err := s.playLists.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"songArr": song}})
	if err != nil {
		return false, fmt.Errorf("mongo append song: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// ── TaskLists / ToDos ────────────────────────────────────

func (s *MongoStore) CreateTaskList(ctx context.Context, tl *models.TaskList) error {
	oid, err := insertOne(ctx, s.taskLists, tl)
	if err != nil {
		return err
	}
	tl.OID = oid
	return nil
}

func (s *MongoStore) GetTaskList(ctx context.Context, id string) (*models.TaskList, error) {
	return findByID[models.TaskList](ctx, s.taskLists, id)
}

func (s *MongoStore) ListTaskListsByUser(ctx context.Context, userID string) ([]models.TaskList, error) {
	return findAll[models.TaskList](ctx, s.taskLists, bson.M{"userIds": userID}, newestFirst)
}

func (s *MongoStore) AddTaskListMember(ctx context.Context, taskListID, userID string) (bool, error) {
	res, err := s.taskLists.UpdateOne(ctx, idFilter(taskListID), bson.M{"$addToSet": bson.M{"userIds": userID}})
	if err != nil {
		return false, fmt.Errorf("mongo add member: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStore) CreateToDo(ctx context.Context, td *models.ToDo) error {
	oid, err := insertOne(ctx, s.toDos, td)
	if err != nil {
		return err
	}
	td.OID = oid
	return nil
}

func (s *MongoStore) GetToDo(ctx context.Context, id string) (*models.ToDo, error) {
	return findByID[models.ToDo](ctx, s.toDos, id)
}

func (s *MongoStore) ListToDos(ctx context.Context, taskListID string) ([]models.ToDo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.ToDo](ctx, s.toDos, bson.M{"taskListId": taskListID}, opts)
}

func (s *MongoStore) UpdateToDo(ctx context.Context, id string, patch models.ToDoPatch) error {
	set := bson.M{}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.IsCompleted != nil {
		set["isCompleted"] = *patch.IsCompleted
	}
	if len(set) == 0 {
		return nil
	}
	return setByID(ctx, s.toDos, id, set)
}
