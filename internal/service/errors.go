package service

import "errors"

// Sentinel errors surfaced to controllers, which map them to HTTP statuses
// with errors.Is. Wrapping with fmt.Errorf("...: %w", ...) is fine.
var (
	// ErrInsufficientQuestions means a subject has fewer active questions
	// than a test needs. Test creation aborts rather than producing a short
	// test.
	ErrInsufficientQuestions = errors.New("not enough active questions for subject")

	// ErrNoReplacementAvailable means the exclusion set already covers every
	// active question for the subject.
	ErrNoReplacementAvailable = errors.New("no replacement question available for subject")

	// ErrNotFound covers unknown tests, attempts, questions and subjects.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadySubmitted rejects a second submission of the same attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrTimeExpired rejects a submission arriving after the attempt's
	// server-side deadline.
	ErrTimeExpired = errors.New("time limit for this attempt has expired")

	// ErrUsernameTaken rejects account creation with a username that is
	// already in use.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrNoSubjects aborts an archival run: with an empty subject catalog
	// completion cannot be determined, and archiving everyone would be the
	// failure mode.
	ErrNoSubjects = errors.New("no subjects in catalog")
)
