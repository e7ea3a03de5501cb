package databases

// go generate: mockery --name ShiftDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eris-ems/eris-api/models"
)

const shiftName = "shifts"

// ShiftDatabase contains the methods to use with the work shift database
type ShiftDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Shift, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Shift, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*models.Shift, error)
}

type shiftDatabase struct {
	db DatabaseHelper
}

// NewShiftDatabase initializes a new instance of shift database with the provided db connection
func NewShiftDatabase(db DatabaseHelper) ShiftDatabase {
	return &shiftDatabase{
		db: db,
	}
}

func (s *shiftDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Shift, error) {
	shift := &models.Shift{}
	err := s.db.Collection(shiftName).FindOne(ctx, filter, opts...).Decode(&shift)
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *shiftDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Shift, error) {
	var shifts []models.Shift
	cur, err := s.db.Collection(shiftName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&shifts)
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (s *shiftDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := s.db.Collection(shiftName).InsertOne(ctx, document, opts...)
	return res, err
}

func (s *shiftDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*models.Shift, error) {
	_, err := s.db.Collection(shiftName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	shift := &models.Shift{}
	err = s.db.Collection(shiftName).FindOne(ctx, filter).Decode(&shift)
	if err != nil {
		return nil, err
	}
	return shift, nil
}
