package dispatch

// WarningCode identifies an operational warning raised during assignment.
// Warnings are always non-fatal: they accompany a completed (if imperfect)
// placement and are surfaced to the operator.
type WarningCode string

const (
	// WarnCapacityOverflow: no placement inside normal working hours exists
	// for the date, whether because every team is booked out or because the
	// customer's window itself falls outside them; the job runs as overtime.
	WarnCapacityOverflow WarningCode = "capacity_overflow"
	// WarnTeamOverloaded: the chosen team exceeds the per-day job ceiling.
	WarnTeamOverloaded WarningCode = "team_overloaded"
	// WarnLongTravel: the chosen leg exceeds the long-travel threshold.
	WarnLongTravel WarningCode = "long_travel"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func newWarning(code WarningCode, message string) Warning {
	return Warning{Code: code, Message: message}
}
