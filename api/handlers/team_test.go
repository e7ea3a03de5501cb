package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gorilla/mux"

	"github.com/eris-ems/eris-api/api/handlers"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/databases/mocks"
	"github.com/eris-ems/eris-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func TestTeam_TeamByIDHandlerNotFound(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/team/team-1", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"team_id": "team-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "teams").Return(conn)

	teamDatabase := databases.NewTeamDatabase(db)
	h := handlers.Team{DB: teamDatabase}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get team by ID")
}

func TestTeam_TeamByIDHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/team/team-1", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"team_id": "team-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = "team-1"
		(*arg).Details.Name = "Medic 7"
		(*arg).Details.Status = models.TeamStatusAvailable
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "teams").Return(conn)

	teamDatabase := databases.NewTeamDatabase(db)
	h := handlers.Team{DB: teamDatabase}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Medic 7")
}

func TestTeam_TeamHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "teams").Return(conn)

	teamDatabase := databases.NewTeamDatabase(db)
	h := handlers.Team{DB: teamDatabase}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestTeam_TeamHandlerBadStatusFilter(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams?status=bogus", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := handlers.Team{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unrecognized team status")
}

func TestTeam_CreateTeamHandlerBadStatus(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Medic 7", "grade": 3, "status": "bogus"}`)
	req, err := http.NewRequest("POST", "/api/v1/team", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := handlers.Team{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unrecognized team status")
}

func TestTeam_CreateTeamHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Medic 7", "grade": 3}`)
	req, err := http.NewRequest("POST", "/api/v1/team", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "teams").Return(conn)

	teamDatabase := databases.NewTeamDatabase(db)
	h := handlers.Team{DB: teamDatabase}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	// status defaults to available when omitted
	assert.Contains(t, rr.Body.String(), `"status":"available"`)
	conn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestTeam_DeleteTeamByIDHandlerActiveResponses(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/team/team-1", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"team_id": "team-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	respConn := &mocks.CollectionHelper{}

	respConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil)
	db.On("Collection", "responses").Return(respConn)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		RDB: databases.NewResponseDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTeamByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "team has active responses")
}

func TestTeam_TeamAvailabilityHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams/availability", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Team)
		*arg = []models.Team{
			{ID: "a", Details: models.TeamDetails{Status: models.TeamStatusAvailable}},
			{ID: "b", Details: models.TeamDetails{Status: models.TeamStatusAvailable}},
			{ID: "c", Details: models.TeamDetails{Status: models.TeamStatusOnScene}},
			{ID: "d", Details: models.TeamDetails{Status: models.TeamStatusUnavailable}},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "teams").Return(conn)

	h := handlers.Team{DB: databases.NewTeamDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamAvailabilityHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total":4,"available":2,"onCall":0,"onScene":1,"unavailable":1}`, rr.Body.String())
}
