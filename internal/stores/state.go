package stores

// FetchState tracks one collection fetch: idle, loading, then populated,
// empty or error.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateError
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	}
	return "unknown"
}

func loadedState(n int) FetchState {
	if n == 0 {
		return StateEmpty
	}
	return StatePopulated
}
