// Package dispatch implements the team-situation matching engine and
// the response lifecycle state machine. Both are pure over their
// inputs: scoring reads team snapshots supplied by the caller, and
// lifecycle operations return updated response copies plus explicit
// team-status instructions instead of touching storage.
package dispatch

// SituationType categorizes an emergency incident and determines the
// required team capability.
type SituationType string

// The recognized situation types.
const (
	SituationMinor     SituationType = "minor"
	SituationModerate  SituationType = "moderate"
	SituationSevere    SituationType = "severe"
	SituationTrauma    SituationType = "trauma"
	SituationCardiac   SituationType = "cardiac"
	SituationPediatric SituationType = "pediatric"
)

// Requirement is the capability a situation type demands of a team:
// a minimum ordinal grade plus the member qualifications that make a
// team a better match.
type Requirement struct {
	MinGrade                int      `json:"minGrade"`
	PreferredQualifications []string `json:"preferredQualifications"`
}

// SituationRequirements maps each situation type to its requirement.
// This table is static configuration; it is never mutated at runtime.
var SituationRequirements = map[SituationType]Requirement{
	SituationMinor: {
		MinGrade:                1,
		PreferredQualifications: []string{"Basic Life Support"},
	},
	SituationModerate: {
		MinGrade:                2,
		PreferredQualifications: []string{"Advanced Life Support"},
	},
	SituationSevere: {
		MinGrade:                3,
		PreferredQualifications: []string{"Critical Care"},
	},
	SituationTrauma: {
		MinGrade:                2,
		PreferredQualifications: []string{"Trauma Care", "Advanced Life Support"},
	},
	SituationCardiac: {
		MinGrade:                3,
		PreferredQualifications: []string{"Critical Care", "Advanced Cardiac Life Support"},
	},
	SituationPediatric: {
		MinGrade:                2,
		PreferredQualifications: []string{"Pediatric Care", "Advanced Life Support"},
	},
}

// Valid reports whether s has an entry in the requirement table.
func (s SituationType) Valid() bool {
	_, ok := SituationRequirements[s]
	return ok
}
