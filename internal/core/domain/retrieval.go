package domain

// RetrievalStatus identifies which variant a RetrievalState holds.
type RetrievalStatus int

const (
	// StatusIdle means no term has been committed yet.
	StatusIdle RetrievalStatus = iota
	// StatusPending means a lookup for the term is in flight.
	StatusPending
	// StatusFailed means the lookup ended with an error.
	StatusFailed
	// StatusSucceeded means the lookup produced a result.
	StatusSucceeded
)

// String returns the string representation of the status.
func (s RetrievalStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	case StatusSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for Failed and Succeeded.
func (s RetrievalStatus) IsTerminal() bool {
	return s == StatusFailed || s == StatusSucceeded
}

// RetrievalState is the tagged variant over Pending, Failed(reason) and
// Succeeded(result) for a single search term. Values are built with the
// constructors below; the zero value is Idle.
type RetrievalState struct {
	status RetrievalStatus
	term   string
	result *Pokemon
	reason string
}

// Idle returns the state before any commit.
func Idle() RetrievalState {
	return RetrievalState{status: StatusIdle}
}

// Pending returns the in-flight state for term.
func Pending(term string) RetrievalState {
	return RetrievalState{status: StatusPending, term: term}
}

// Failed returns the failed state for term with a user-facing reason.
func Failed(term, reason string) RetrievalState {
	return RetrievalState{status: StatusFailed, term: term, reason: reason}
}

// Succeeded returns the successful state for term.
func Succeeded(term string, p Pokemon) RetrievalState {
	return RetrievalState{status: StatusSucceeded, term: term, result: &p}
}

// Status returns the variant tag.
func (s RetrievalState) Status() RetrievalStatus {
	return s.status
}

// Term returns the search term this state belongs to.
func (s RetrievalState) Term() string {
	return s.term
}

// Result returns the creature for a Succeeded state and nil otherwise.
func (s RetrievalState) Result() *Pokemon {
	if s.status != StatusSucceeded || s.result == nil {
		return nil
	}
	p := *s.result
	return &p
}

// Reason returns the failure message for a Failed state.
func (s RetrievalState) Reason() string {
	if s.status != StatusFailed {
		return ""
	}
	return s.reason
}

// IsPending reports whether the state is Pending.
func (s RetrievalState) IsPending() bool { return s.status == StatusPending }

// IsError reports whether the state is Failed.
func (s RetrievalState) IsError() bool { return s.status == StatusFailed }

// IsSuccess reports whether the state is Succeeded.
func (s RetrievalState) IsSuccess() bool { return s.status == StatusSucceeded }
