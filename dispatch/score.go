package dispatch

import (
	"fmt"
	"sort"

	"github.com/eris-ems/eris-api/models"
)

// Component weights. Grade dominates because a team below the minimum
// grade cannot safely take the call regardless of other factors.
const (
	gradeWeight         = 50.0
	qualificationWeight = 40.0
	availabilityWeight  = 10.0
)

// Score is the suitability of one team for one situation type. It is
// derived and never persisted; callers recompute it whenever the team
// roster or situation changes.
//
// Explanation lines are displayed verbatim to dispatch operators, so
// their content and order are part of the observable contract.
type Score struct {
	GradeScore         float64  `json:"gradeScore"`
	QualificationScore float64  `json:"qualificationScore"`
	AvailabilityScore  float64  `json:"availabilityScore"`
	Total              float64  `json:"total"`
	MeetsMinimum       bool     `json:"meetsMinimum"`
	Explanation        []string `json:"explanation"`
}

// RankedTeam pairs a team with its score in a ranking.
type RankedTeam struct {
	Team  models.Team `json:"team"`
	Score Score       `json:"score"`
}

// ScoreTeam computes the suitability score of a team for a situation
// type. An unknown situation type or a nil team yields a zero score
// with an explanatory note rather than an error, so ranking never
// blocks dispatch rendering. ScoreTeam only reads its inputs and is
// safe to call concurrently.
func ScoreTeam(team *models.Team, situation SituationType) Score {
	req, ok := SituationRequirements[situation]
	if team == nil || !ok {
		return Score{Explanation: []string{"Unknown situation type or team"}}
	}

	var score Score

	if team.Details.Grade >= req.MinGrade {
		score.GradeScore = gradeWeight
		score.MeetsMinimum = true
		score.Explanation = append(score.Explanation,
			fmt.Sprintf("Team grade (%d) meets or exceeds required grade (%d)", team.Details.Grade, req.MinGrade))
	} else {
		score.Explanation = append(score.Explanation,
			fmt.Sprintf("Team grade (%d) is below required grade (%d)", team.Details.Grade, req.MinGrade))
	}

	// A qualification counts once no matter how many members hold it.
	held := make(map[string]bool, len(team.Details.Members))
	for _, m := range team.Details.Members {
		held[m.Qualification] = true
	}
	matches := 0
	for _, qual := range req.PreferredQualifications {
		if held[qual] {
			matches++
			score.Explanation = append(score.Explanation,
				fmt.Sprintf("Team has member(s) with %s qualification", qual))
		}
	}
	if n := len(req.PreferredQualifications); n > 0 {
		score.QualificationScore = float64(matches) / float64(n) * qualificationWeight
		if score.QualificationScore > qualificationWeight {
			score.QualificationScore = qualificationWeight
		}
	}

	if team.Details.Status == models.TeamStatusAvailable {
		score.AvailabilityScore = availabilityWeight
		score.Explanation = append(score.Explanation, "Team is currently available")
	} else {
		score.Explanation = append(score.Explanation,
			fmt.Sprintf("Team is currently %s", team.Details.Status))
	}

	score.Total = score.GradeScore + score.QualificationScore + score.AvailabilityScore
	return score
}

// RankTeams scores every team against the situation type and returns
// them sorted descending by total score. Teams with equal totals keep
// their relative input order; the sort is explicitly stable so the UI
// ordering is reproducible. Unavailable teams are not filtered out --
// operators see the full roster and the caller disables selection.
//
// An empty roster or an unknown situation type yields an empty slice.
func RankTeams(teams []models.Team, situation SituationType) []RankedTeam {
	if len(teams) == 0 || !situation.Valid() {
		return []RankedTeam{}
	}

	ranked := make([]RankedTeam, 0, len(teams))
	for i := range teams {
		ranked = append(ranked, RankedTeam{
			Team:  teams[i],
			Score: ScoreTeam(&teams[i], situation),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})
	return ranked
}
