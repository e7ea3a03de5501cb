package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eris-ems/eris-api/models"
)

func criticalCareTeam() models.Team {
	return models.Team{
		ID: "team-1",
		Details: models.TeamDetails{
			Name:   "Alpha Team",
			Grade:  3,
			Status: models.TeamStatusAvailable,
			Members: []models.TeamMember{
				{ID: "emp-1", Name: "John Medic", Role: "Team Lead", Qualification: "Critical Care"},
			},
		},
	}
}

func TestScoreTeamSevereFullMarks(t *testing.T) {
	team := criticalCareTeam()
	score := ScoreTeam(&team, SituationSevere)

	assert.Equal(t, 50.0, score.GradeScore)
	assert.Equal(t, 40.0, score.QualificationScore)
	assert.Equal(t, 10.0, score.AvailabilityScore)
	assert.Equal(t, 100.0, score.Total)
	assert.True(t, score.MeetsMinimum)
	assert.Equal(t, []string{
		"Team grade (3) meets or exceeds required grade (3)",
		"Team has member(s) with Critical Care qualification",
		"Team is currently available",
	}, score.Explanation)
}

func TestScoreTeamMinorNoQualificationMatch(t *testing.T) {
	team := criticalCareTeam()
	score := ScoreTeam(&team, SituationMinor)

	// Grade 3 clears minGrade 1 but nobody holds Basic Life Support.
	assert.Equal(t, 50.0, score.GradeScore)
	assert.Equal(t, 0.0, score.QualificationScore)
	assert.Equal(t, 10.0, score.AvailabilityScore)
	assert.Equal(t, 60.0, score.Total)
	assert.True(t, score.MeetsMinimum)
}

func TestScoreTeamBelowMinimumGrade(t *testing.T) {
	team := criticalCareTeam()
	team.Details.Grade = 1
	score := ScoreTeam(&team, SituationSevere)

	assert.Equal(t, 0.0, score.GradeScore)
	assert.False(t, score.MeetsMinimum)
	assert.Contains(t, score.Explanation, "Team grade (1) is below required grade (3)")
}

func TestScoreTeamPartialQualificationMatch(t *testing.T) {
	team := models.Team{
		ID: "team-2",
		Details: models.TeamDetails{
			Grade:  2,
			Status: models.TeamStatusOnCall,
			Members: []models.TeamMember{
				{ID: "emp-4", Qualification: "Advanced Life Support"},
				{ID: "emp-5", Qualification: "Basic Life Support"},
			},
		},
	}
	score := ScoreTeam(&team, SituationTrauma)

	// One of two preferred qualifications held -> half the weight.
	assert.Equal(t, 20.0, score.QualificationScore)
	assert.Equal(t, 0.0, score.AvailabilityScore)
	assert.Equal(t, 70.0, score.Total)
	assert.Contains(t, score.Explanation, "Team is currently on-call")
}

func TestScoreTeamDuplicateQualificationCountsOnce(t *testing.T) {
	team := criticalCareTeam()
	team.Details.Members = append(team.Details.Members,
		models.TeamMember{ID: "emp-9", Qualification: "Critical Care"})
	score := ScoreTeam(&team, SituationSevere)

	assert.Equal(t, 40.0, score.QualificationScore)
}

func TestScoreTeamUnknownSituation(t *testing.T) {
	team := criticalCareTeam()
	score := ScoreTeam(&team, SituationType("earthquake"))

	assert.Equal(t, 0.0, score.Total)
	assert.False(t, score.MeetsMinimum)
	assert.Equal(t, []string{"Unknown situation type or team"}, score.Explanation)
}

func TestScoreTeamNilTeam(t *testing.T) {
	score := ScoreTeam(nil, SituationMinor)

	assert.Equal(t, 0.0, score.Total)
	assert.False(t, score.MeetsMinimum)
	assert.Equal(t, []string{"Unknown situation type or team"}, score.Explanation)
}

func TestScoreTeamTotalWithinBounds(t *testing.T) {
	teams := []models.Team{
		criticalCareTeam(),
		{ID: "team-3", Details: models.TeamDetails{Grade: 1, Status: models.TeamStatusUnavailable}},
		{ID: "team-4", Details: models.TeamDetails{Grade: 2, Status: models.TeamStatusAvailable,
			Members: []models.TeamMember{{Qualification: "Pediatric Care"}}}},
	}
	for situation := range SituationRequirements {
		for i := range teams {
			score := ScoreTeam(&teams[i], situation)
			assert.GreaterOrEqual(t, score.Total, 0.0)
			assert.LessOrEqual(t, score.Total, 100.0)
		}
	}
}

func TestRankTeamsOrdering(t *testing.T) {
	teams := []models.Team{
		{ID: "low", Details: models.TeamDetails{Grade: 1, Status: models.TeamStatusUnavailable}},
		{ID: "high", Details: models.TeamDetails{Grade: 3, Status: models.TeamStatusAvailable,
			Members: []models.TeamMember{{Qualification: "Critical Care"}}}},
		{ID: "mid", Details: models.TeamDetails{Grade: 3, Status: models.TeamStatusOnScene,
			Members: []models.TeamMember{{Qualification: "Critical Care"}}}},
	}
	ranked := RankTeams(teams, SituationSevere)

	assert.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Team.ID)
	assert.Equal(t, "mid", ranked[1].Team.ID)
	assert.Equal(t, "low", ranked[2].Team.ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score.Total, ranked[i].Score.Total)
	}
}

func TestRankTeamsStableOnTies(t *testing.T) {
	// Identical teams score identically; input order must survive.
	mk := func(id string) models.Team {
		return models.Team{ID: id, Details: models.TeamDetails{
			Grade:  2,
			Status: models.TeamStatusAvailable,
			Members: []models.TeamMember{
				{Qualification: "Advanced Life Support"},
			},
		}}
	}
	ranked := RankTeams([]models.Team{mk("first"), mk("second"), mk("third")}, SituationModerate)

	assert.Equal(t, "first", ranked[0].Team.ID)
	assert.Equal(t, "second", ranked[1].Team.ID)
	assert.Equal(t, "third", ranked[2].Team.ID)
}

func TestRankTeamsIncludesUnavailableTeams(t *testing.T) {
	teams := []models.Team{
		{ID: "busy", Details: models.TeamDetails{Grade: 3, Status: models.TeamStatusOnScene}},
	}
	ranked := RankTeams(teams, SituationSevere)

	assert.Len(t, ranked, 1)
	assert.Equal(t, "busy", ranked[0].Team.ID)
}

func TestRankTeamsEmptyAndUnknown(t *testing.T) {
	assert.Empty(t, RankTeams(nil, SituationSevere))
	assert.Empty(t, RankTeams([]models.Team{}, SituationSevere))
	assert.Empty(t, RankTeams([]models.Team{criticalCareTeam()}, SituationType("unknown")))
}
