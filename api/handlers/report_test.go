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

func TestReport_CreateReportHandlerMissingResponseID(t *testing.T) {
	body := bytes.NewBufferString(`{"title": "Cardiac arrest at transit center"}`)
	req, err := http.NewRequest("POST", "/api/v1/report", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := handlers.Report{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "responseId is required")
}

func TestReport_CreateReportHandlerResponseNotFound(t *testing.T) {
	body := bytes.NewBufferString(`{"responseId": "missing", "title": "Cardiac arrest at transit center"}`)
	req, err := http.NewRequest("POST", "/api/v1/report", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	respConn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	respConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "responses").Return(respConn)

	h := handlers.Report{
		DB:  databases.NewReportDatabase(db),
		RDB: databases.NewResponseDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get response by ID")
}

func TestReport_CreateReportHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"responseId": "resp-1", "title": "Cardiac arrest at transit center", "emtName": "R. Alvarez"}`)
	req, err := http.NewRequest("POST", "/api/v1/report", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	respConn := &mocks.CollectionHelper{}
	reportConn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Response)
		(*arg).ID = "resp-1"
	})
	respConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	reportConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "responses").Return(respConn)
	db.On("Collection", "reports").Return(reportConn)

	h := handlers.Report{
		DB:  databases.NewReportDatabase(db),
		RDB: databases.NewResponseDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "R. Alvarez")
	reportConn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestReport_ReportsByResponseIDHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/reports/response/resp-1", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"response_id": "resp-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "reports").Return(conn)

	h := handlers.Report{DB: databases.NewReportDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ReportsByResponseIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
