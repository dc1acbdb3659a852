package service

// Kind classifies expected, caller-recoverable failures. Errors without a
// Kind are infrastructure failures.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
)

// Error is an expected failure whose message is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	ErrMissingCredentials = &Error{Kind: KindValidation, Msg: "Username and password are required"}
	ErrPasswordTooShort   = &Error{Kind: KindValidation, Msg: "Password must be at least 6 characters"}
	ErrMissingDates       = &Error{Kind: KindValidation, Msg: "Either expected delivery date or last menstrual period is required"}
	ErrInvalidDate        = &Error{Kind: KindValidation, Msg: "Dates must be formatted as YYYY-MM-DD"}

	ErrUsernameTaken = &Error{Kind: KindConflict, Msg: "Username already exists"}

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = &Error{Kind: KindAuth, Msg: "Invalid credentials"}
	ErrNotAuthenticated   = &Error{Kind: KindAuth, Msg: "Not authenticated"}

	ErrPregnancyNotFound = &Error{Kind: KindNotFound, Msg: "No pregnancy found"}
)
