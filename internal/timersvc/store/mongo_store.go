package store

import (
	"context"
	"errors"
	"time"

	"github.com/avvvet/timer-service/internal/timersvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// the whole collection holds one document under this _id
const slotKey = "current"

type timerDocument struct {
	Slot       string    `bson:"_id"`
	TimerID    string    `bson:"timerId"`
	Name       string    `bson:"name"`
	TargetDate time.Time `bson:"targetDate"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func (d *timerDocument) toModel() *models.Timer {
	return &models.Timer{
		ID:         d.TimerID,
		Name:       d.Name,
		TargetDate: d.TargetDate.UTC(),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{coll: db.Collection(collection)}
}

func (s *MongoStore) Find(ctx context.Context) (*models.Timer, error) {
	var doc timerDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": slotKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find timer", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Replace(ctx context.Context, t *models.Timer) (*models.Timer, error) {
	doc := timerDocument{
		Slot:       slotKey,
		TimerID:    primitive.NewObjectID().Hex(),
		Name:       t.Name,
		TargetDate: t.TargetDate,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": slotKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, unavailable("replace timer", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Swap(ctx context.Context, id string, t *models.Timer) (*models.Timer, error) {
	filter := bson.M{"_id": slotKey, "timerId": id}
	update := bson.M{"$set": bson.M{
		"name":       t.Name,
		"targetDate": t.TargetDate,
		"updatedAt":  t.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc timerDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("update timer", err)
	}
	return doc.toModel(), nil
}

// Clear also removes stray documents left by older deployments.
func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return unavailable("clear timers", err)
	}
	return nil
}
