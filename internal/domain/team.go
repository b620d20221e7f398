package domain

// Team identifies one of the fixed roster of field crews.
// Teams carry no state of their own; they are a grouping key for jobs.
type Team string

const (
	TeamAmandine  Team = "Amandine"
	TeamBrioche   Team = "Brioche"
	TeamCanele    Team = "Canele"
	TeamDacquoise Team = "Dacquoise"
	TeamEclair    Team = "Eclair"
)

// Roster returns the fixed set of dispatchable teams in priority order.
// The order is used as the deterministic tie-break when scoring assignments.
func Roster() []Team {
	return []Team{TeamAmandine, TeamBrioche, TeamCanele, TeamDacquoise, TeamEclair}
}

func (t Team) Valid() bool {
	switch t {
	case TeamAmandine, TeamBrioche, TeamCanele, TeamDacquoise, TeamEclair:
		return true
	}
	return false
}
