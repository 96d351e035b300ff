package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // defaults to "patterns"
}

// MongoStore implements Store on a MongoDB collection. IDs are ObjectID hex
// strings; a unique index on (owner, name) enforces one name per owner.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the stored form of a Document.
type mongoRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Document `bson:",inline"`
}

func (r mongoRecord) document() *Document {
	d := r.Document.Clone()
	d.ID = r.ID.Hex()
	return d
}

// NewMongoStore connects to MongoDB and ensures the collection's indexes.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "patterns"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Create(ctx context.Context, doc *Document) (*Document, error) {
	d := prepareNew(doc, time.Now().UTC().Truncate(time.Millisecond))
	if err := d.Validate(); err != nil {
		return nil, err
	}

	res, err := s.coll.InsertOne(ctx, mongoRecord{Document: *d})
	if mongo.IsDuplicateKeyError(err) {
		return nil, duplicateName(d.Owner, d.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("insert pattern: %w", err)
	}
	d.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return d, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var rec mongoRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find pattern: %w", err)
	}
	return rec.document(), nil
}

func (s *MongoStore) Update(ctx context.Context, doc *Document) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	old, err := s.Get(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	oid, _ := objectID(doc.ID)

	d := doc.Clone()
	d.CreatedAt = old.CreatedAt
	d.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, mongoRecord{ID: oid, Document: *d})
	if mongo.IsDuplicateKeyError(err) {
		return nil, duplicateName(d.Owner, d.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("replace pattern: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, notFound(doc.ID)
	}
	return d, nil
}

func (s *MongoStore) SaveVisualization(ctx context.Context, id, instructions string, image []byte) (*Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if instructions != "" {
		set["generated_instructions"] = instructions
	}
	if len(image) > 0 {
		set["visualization"] = image
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update pattern: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, notFound(id)
	}
	return s.Get(ctx, id)
}

func (s *MongoStore) List(ctx context.Context, owner string) ([]*Document, error) {
	cur, err := s.coll.Find(ctx, bson.M{"owner": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode patterns: %w", err)
	}

	out := make([]*Document, len(recs))
	for i, r := range recs {
		out[i] = r.document()
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// objectID parses a document ID. IDs that are not ObjectIDs cannot exist in
// the collection and are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound(id)
	}
	return oid, nil
}

var _ Store = (*MongoStore)(nil)
