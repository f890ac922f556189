package session

// State represents session state
type State int

const (
	Anonymous State = iota
	Authenticated
	RefreshInFlight
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case RefreshInFlight:
		return "refreshing"
	}
	return "unknown"
}

// IsAuthenticated returns true while credentials are usable or being renewed
func (s State) IsAuthenticated() bool {
	return s == Authenticated || s == RefreshInFlight
}
