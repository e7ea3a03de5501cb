package databases

// go generate: mockery --name TeamDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eris-ems/eris-api/models"
)

const teamName = "teams"

// TeamDatabase contains the methods to use with the team database
type TeamDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Team, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Team, error)
	FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Team, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*models.Team, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type teamDatabase struct {
	db DatabaseHelper
}

// NewTeamDatabase initializes a new instance of team database with the provided db connection
func NewTeamDatabase(db DatabaseHelper) TeamDatabase {
	return &teamDatabase{
		db: db,
	}
}

func (t *teamDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Team, error) {
	team := &models.Team{}
	err := t.db.Collection(teamName).FindOne(ctx, filter, opts...).Decode(&team)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (t *teamDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Team, error) {
	var teams []models.Team
	cur, err := t.db.Collection(teamName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&teams)
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// FindPage returns one page of teams using limit/page semantics.
func (t *teamDatabase) FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Team, error) {
	return t.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}

func (t *teamDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := t.db.Collection(teamName).InsertOne(ctx, document, opts...)
	return res, err
}

func (t *teamDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*models.Team, error) {
	_, err := t.db.Collection(teamName).UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	team := &models.Team{}
	err = t.db.Collection(teamName).FindOne(ctx, filter).Decode(&team)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (t *teamDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return t.db.Collection(teamName).DeleteOne(ctx, filter, opts...)
}

func (t *teamDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(teamName).CountDocuments(ctx, filter, opts...)
}
