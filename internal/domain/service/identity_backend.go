// Package service defines interfaces for core, stateless domain logic and
// for the external collaborators the application depends on.
package service

import (
	"context"
	"fmt"

	"academy/internal/domain/entity"
	"academy/internal/errors"

	"github.com/google/uuid"
)

// ErrorKind is the closed set of failure categories an identity backend call
// may report. Adapters convert their transport-specific errors into one of
// these kinds before any decision logic runs; the session core never inspects
// backend-specific error shapes or message text.
type ErrorKind string

const (
	// KindUnavailable covers network and backend failures.
	KindUnavailable ErrorKind = "unavailable"
	// KindAborted marks a request superseded by a newer one. It is a
	// legitimate outcome, not an error the user should see.
	KindAborted ErrorKind = "aborted"
	// KindIntegrity marks a response that contradicts the request, such as a
	// profile record whose ID differs from the one asked for.
	KindIntegrity ErrorKind = "integrity"
	// KindInvalidCredentials marks a failed password check.
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	// KindConflict marks an attempt to register an email that already exists.
	KindConflict ErrorKind = "conflict"
	// KindNotFound marks a missing record.
	KindNotFound ErrorKind = "not_found"
)

// BackendError is the tagged error type returned across the identity backend
// boundary.
type BackendError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("identity backend: %s: %s", e.Kind, e.Msg)
	}

	return fmt.Sprintf("identity backend: %s", e.Kind)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError builds a tagged backend error.
func NewBackendError(kind ErrorKind, msg string, cause error) *BackendError {
	return &BackendError{Kind: kind, Msg: msg, Err: cause}
}

// KindOf extracts the error kind from err, defaulting to KindUnavailable for
// anything that is not a tagged backend error.
func KindOf(err error) ErrorKind {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Kind
	}

	return KindUnavailable
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Kind == kind
	}

	return false
}

// EventKind identifies what a session-change event reports.
type EventKind string

const (
	// EventInitialSession is the synthetic event some backends emit to replay
	// the session that existed before the subscription was created. The
	// session manager handles initial state through its one-shot snapshot and
	// must ignore this kind.
	EventInitialSession EventKind = "initial_session"
	// EventSignedIn reports a newly granted session.
	EventSignedIn EventKind = "signed_in"
	// EventTokenRefreshed reports a refreshed session for the same identity.
	EventTokenRefreshed EventKind = "token_refreshed"
	// EventSignedOut reports that the backend-held session ended.
	EventSignedOut EventKind = "signed_out"
	// EventUserUpdated reports a change to the signed-in account's data.
	EventUserUpdated EventKind = "user_updated"
)

// SessionEvent is one backend-pushed notification about the current session.
// Identity is nil when the event reports that no session exists.
type SessionEvent struct {
	Kind     EventKind
	Identity *entity.Identity
}

// SignUpMetadata carries the registration attributes the backend stores on
// the new account's profile.
type SignUpMetadata struct {
	Role        entity.Role
	FirstName   string
	LastName    string
	FullName    string
	Phone       string
	StudentCode string // For parents: the code of the student to link to.
}

// IdentityBackend is the contract the session manager and the approval
// workflow consume. Implementations own authentication, the profile record
// store and the session-change event stream.
type IdentityBackend interface {
	// CurrentSession returns the identity holding the current backend-side
	// session, or nil when there is none.
	CurrentSession(ctx context.Context) (*entity.Identity, error)

	// SignInWithPassword checks credentials and grants a session.
	SignInWithPassword(ctx context.Context, email, password string) (*entity.Identity, error)

	// SignUp creates credentials plus the associated profile record. The new
	// account starts pending unless backend-side policy says otherwise.
	SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*entity.Identity, error)

	// SignOut invalidates the backend-held session. Best effort.
	SignOut(ctx context.Context) error

	// SessionEvents subscribes to session-change notifications. The returned
	// cancel function releases the subscription; after it returns no further
	// events are delivered and the channel is closed.
	SessionEvents(buffer int) (<-chan SessionEvent, func())

	// FetchProfile reads the profile record for the given identity ID.
	FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// UpdateProfileStatus patches a profile's approval status. Used by the
	// owner's approval workflow, which shares the record-store contract.
	UpdateProfileStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error
}
