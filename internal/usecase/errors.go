package usecase

// Domain error taxonomy. Handlers map these onto HTTP statuses in one
// place; anything else surfaces as a generic internal error.

type ErrUnauthenticated struct {
	Message string
}

func (e ErrUnauthenticated) Error() string {
	if e.Message == "" {
		return "not authenticated"
	}
	return e.Message
}

type ErrForbidden struct {
	Message string
}

func (e ErrForbidden) Error() string {
	if e.Message == "" {
		return "insufficient permissions"
	}
	return e.Message
}

type ErrNotFound struct {
	Message string
}

func (e ErrNotFound) Error() string { return e.Message }

type ErrValidation struct {
	Message string
}

func (e ErrValidation) Error() string { return e.Message }

// ErrConflict covers unique-key collisions and state-machine
// violations, including the losing side of a concurrent assign.
type ErrConflict struct {
	Message string
}

func (e ErrConflict) Error() string { return e.Message }
