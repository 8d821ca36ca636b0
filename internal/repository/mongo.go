package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chucky-1/budget-jobs/internal/model"
)

// mongoDocument is how a node is stored: all nodes live in one collection keyed by path
type mongoDocument struct {
	Path     string   `bson:"_id"`
	Parent   string   `bson:"parent"`
	Position int64    `bson:"position"`
	Data     bson.Raw `bson:"data"`
}

type Mongo struct {
	coll *mongo.Collection
	seq  atomic.Int64
}

func NewMongo(cli *mongo.Client, database, collection string) *Mongo {
	m := &Mongo{
		coll: cli.Database(database).Collection(collection),
	}
	m.seq.Store(time.Now().UnixNano())
	return m
}

// EnsureIndexes creates the index used by List
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent", Value: 1}, {Key: "position", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo couldn't create parent index: %v", err)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, path string) (*model.Document, error) {
	var doc mongoDocument
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: path}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", path, ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo couldn't FindOne in Get method: %v", err)
	}
	return model.NewDocument(doc.Path, doc.Data), nil
}

func (m *Mongo) List(ctx context.Context, collection string) ([]*model.Document, error) {
	cursor, err := m.coll.Find(ctx,
		bson.D{{Key: "parent", Value: collection}},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo couldn't Find in List method: %v", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logrus.Errorf("mongo couldn't close cursor in List method: %v", err)
		}
	}(cursor, ctx)

	var docs []*model.Document
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo couldn't Decode in List method: %v", err)
		}
		docs = append(docs, model.NewDocument(doc.Path, doc.Data))
	}
	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor err in List method: %v", err)
	}
	return docs, nil
}

func (m *Mongo) Delete(ctx context.Context, path string) error {
	_, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: path}})
	if err != nil {
		return fmt.Errorf("mongo couldn't DeleteOne in Delete method: %v", err)
	}
	return nil
}

// Put creates or replaces the document at path, keeping its original position
func (m *Mongo) Put(ctx context.Context, path string, data interface{}) error {
	raw, err := bson.Marshal(data)
	if err != nil {
		return fmt.Errorf("mongo couldn't marshal document %s: %v", path, err)
	}
	_, err = m.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: path}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "parent", Value: model.ParentCollection(path)}, {Key: "data", Value: bson.Raw(raw)}}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "position", Value: m.seq.Add(1)}}},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo couldn't UpdateOne in Put method: %v", err)
	}
	return nil
}
