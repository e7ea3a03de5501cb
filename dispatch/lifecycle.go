package dispatch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eris-ems/eris-api/models"
)

// timeNow is swapped out in tests for deterministic timestamps.
var timeNow = time.Now

// InvalidTransitionError is returned when Transition receives a status
// outside the recognized set. The caller must reject the action and
// keep the prior response state.
type InvalidTransitionError struct {
	Status models.ResponseStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid response status %q", e.Status)
}

// TerminalStateError is returned when an operation is attempted on a
// completed response.
type TerminalStateError struct {
	ResponseID string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("response %s is completed and can no longer be modified", e.ResponseID)
}

// TeamStatusUpdate is an instruction for the team store emitted by a
// lifecycle transition. The lifecycle never reaches into team storage
// itself; the caller applies the update so ownership stays with the
// persistence layer.
type TeamStatusUpdate struct {
	TeamID string            `json:"teamId"`
	Status models.TeamStatus `json:"status"`
}

// NewResponse constructs a freshly dispatched response: new uuid,
// status dispatched, dispatch time stamped now, arrival and completion
// unset. Priority is taken as given; callers validate the 1-4 range.
func NewResponse(teamID string, priority int, location string, patient *models.Patient) models.Response {
	now := timeNow().UTC()
	return models.Response{
		ID: uuid.New().String(),
		Details: models.ResponseDetails{
			TeamID:       teamID,
			Priority:     priority,
			Status:       models.ResponseStatusDispatched,
			Location:     location,
			DispatchTime: now,
			Patient:      patient,
		},
	}
}

// Transition moves a response to newStatus and returns the updated
// copy along with any team-status instruction. The input response is
// not mutated, so prior versions stay safe for concurrent readers.
//
// The machine is deliberately permissive: any recognized status can be
// set from any state, including skipping on-scene straight to
// completed (operators may close an incident without a recorded scene
// arrival). What it does guarantee is that each timestamp is stamped
// at most once -- entering on-scene stamps ArrivalTime only if unset,
// entering completed stamps CompletionTime only if unset, and neither
// is ever rewritten.
func Transition(resp models.Response, newStatus models.ResponseStatus) (models.Response, *TeamStatusUpdate, error) {
	if !newStatus.Valid() {
		return resp, nil, &InvalidTransitionError{Status: newStatus}
	}

	updated := resp
	var teamUpdate *TeamStatusUpdate

	switch newStatus {
	case models.ResponseStatusOnScene:
		if updated.Details.ArrivalTime == nil {
			now := timeNow().UTC()
			updated.Details.ArrivalTime = &now
		}
		teamUpdate = &TeamStatusUpdate{TeamID: updated.Details.TeamID, Status: models.TeamStatusOnScene}
	case models.ResponseStatusCompleted:
		if updated.Details.CompletionTime == nil {
			now := timeNow().UTC()
			updated.Details.CompletionTime = &now
		}
		teamUpdate = &TeamStatusUpdate{TeamID: updated.Details.TeamID, Status: models.TeamStatusAvailable}
	}

	updated.Details.Status = newStatus
	return updated, teamUpdate, nil
}

// ReassignTeam points a response at a different team. Reassignment is
// only allowed while the response is pre-terminal; timestamps are left
// untouched.
func ReassignTeam(resp models.Response, newTeamID string) (models.Response, error) {
	if resp.Details.Status == models.ResponseStatusCompleted {
		return resp, &TerminalStateError{ResponseID: resp.ID}
	}
	updated := resp
	updated.Details.TeamID = newTeamID
	return updated, nil
}
