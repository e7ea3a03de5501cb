package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gorilla/mux"

	"github.com/eris-ems/eris-api/api/handlers"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/databases/mocks"
	"github.com/eris-ems/eris-api/models"
)

func TestShift_ClockInHandlerMissingMember(t *testing.T) {
	body := bytes.NewBufferString(`{"teamId": "team-1"}`)
	req, err := http.NewRequest("POST", "/api/v1/shift/clock-in", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := handlers.Shift{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ClockInHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "memberId is required")
}

func TestShift_ClockInHandlerAlreadyClockedIn(t *testing.T) {
	body := bytes.NewBufferString(`{"memberId": "m1", "teamId": "team-1"}`)
	req, err := http.NewRequest("POST", "/api/v1/shift/clock-in", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Shift)
		(*arg).ID = "shift-1"
		(*arg).Details.MemberID = "m1"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "shifts").Return(conn)

	h := handlers.Shift{DB: databases.NewShiftDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ClockInHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "member already clocked in")
}

func TestShift_ClockInHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"memberId": "m1", "teamId": "team-1"}`)
	req, err := http.NewRequest("POST", "/api/v1/shift/clock-in", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "shifts").Return(conn)

	h := handlers.Shift{DB: databases.NewShiftDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ClockInHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"memberId":"m1"`)
	conn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestShift_ClockOutHandlerAlreadyClosed(t *testing.T) {
	req, err := http.NewRequest("PUT", "/api/v1/shift/shift-1/clock-out", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"shift_id": "shift-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	closed := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Shift)
		(*arg).ID = "shift-1"
		(*arg).Details.ClockIn = closed.Add(-8 * time.Hour)
		(*arg).Details.ClockOut = &closed
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "shifts").Return(conn)

	h := handlers.Shift{DB: databases.NewShiftDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ClockOutHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "shift already closed")
}

func TestShift_ClockOutHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("PUT", "/api/v1/shift/shift-1/clock-out", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"shift_id": "shift-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Shift)
		(*arg).ID = "shift-1"
		(*arg).Details.MemberID = "m1"
		(*arg).Details.ClockIn = time.Now().UTC().Add(-8 * time.Hour)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "shifts").Return(conn)

	h := handlers.Shift{DB: databases.NewShiftDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ClockOutHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	conn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestShift_ShiftsByMemberIDHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/shifts/member/m1", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"member_id": "m1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "shifts").Return(conn)

	h := handlers.Shift{DB: databases.NewShiftDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ShiftsByMemberIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
