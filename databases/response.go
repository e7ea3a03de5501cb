package databases

// go generate: mockery --name ResponseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eris-ems/eris-api/models"
)

const responseName = "responses"

// ResponseDatabase contains the methods to use with the response database.
// Writes for a given response id must be serialized by callers; the
// lifecycle engine itself never talks to this layer directly.
type ResponseDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Response, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Response, error)
	FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Response, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	ReplaceDetails(ctx context.Context, id string, details models.ResponseDetails) (*models.Response, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*models.Response, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type responseDatabase struct {
	db DatabaseHelper
}

// NewResponseDatabase initializes a new instance of response database with the provided db connection
func NewResponseDatabase(db DatabaseHelper) ResponseDatabase {
	return &responseDatabase{
		db: db,
	}
}

func (r *responseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Response, error) {
	response := &models.Response{}
	err := r.db.Collection(responseName).FindOne(ctx, filter, opts...).Decode(&response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Response, error) {
	var responses []models.Response
	cur, err := r.db.Collection(responseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// FindPage returns one page of responses using limit/page semantics.
func (r *responseDatabase) FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Response, error) {
	return r.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}

func (r *responseDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := r.db.Collection(responseName).InsertOne(ctx, document, opts...)
	return res, err
}

// ReplaceDetails swaps the whole inner response document in one write.
// Lifecycle transitions produce a complete updated copy, so a full
// replace keeps the stored document and the returned value identical.
func (r *responseDatabase) ReplaceDetails(ctx context.Context, id string, details models.ResponseDetails) (*models.Response, error) {
	filter := map[string]interface{}{"_id": id}
	update := map[string]interface{}{"$set": map[string]interface{}{"response": details}}
	return r.UpdateOne(ctx, filter, update)
}

func (r *responseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*models.Response, error) {
	_, err := r.db.Collection(responseName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	response := &models.Response{}
	err = r.db.Collection(responseName).FindOne(ctx, filter).Decode(&response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return r.db.Collection(responseName).DeleteOne(ctx, filter, opts...)
}

func (r *responseDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(responseName).CountDocuments(ctx, filter, opts...)
}
