// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"academy/internal/domain/entity"
)

// --- Input DTOs ---

// SignInInput defines the data required to sign in.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpInput defines the data required to register a new account.
type SignUpInput struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8"`
	Role      entity.Role `json:"role" validate:"required"`
	FirstName string      `json:"first_name" validate:"required"`
	LastName  string      `json:"last_name" validate:"required"`
	Phone     string      `json:"phone"`

	// StudentCode links a registering parent to an existing student.
	StudentCode string `json:"student_code"`
}

// --- Output DTOs ---

// SignInOutput carries everything the login screen needs to route the user
// to their role's landing view.
type SignInOutput struct {
	Role         entity.Role            `json:"role"`
	Status       entity.ApprovalStatus  `json:"status"`
	DisplayName  string                 `json:"display_name"`
	Session      *entity.EnrichedSession `json:"-"`
	AccessToken  string                 `json:"access_token,omitempty"`
	RefreshToken string                 `json:"refresh_token,omitempty"`
}

// SignUpOutput returns the newly registered identity's basic information.
type SignUpOutput struct {
	Identity *entity.Identity `json:"identity"`
}

// SessionUsecase is the contract the delivery layer depends on for
// authentication and session state.
type SessionUsecase interface {
	// SignIn checks credentials, enriches the granted identity with its
	// profile and applies the approval gate.
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)

	// SignUp registers a new account. The account starts pending and cannot
	// sign in until an owner approves it.
	SignUp(ctx context.Context, input *SignUpInput) (*SignUpOutput, error)

	// SignOut ends the current session. It never fails from the caller's
	// perspective; backend errors are logged and swallowed.
	SignOut(ctx context.Context) error

	// Current returns the current enriched session, or nil when signed out.
	Current() *entity.EnrichedSession

	// Initializing reports whether the initial session snapshot is still
	// being resolved. The UI shows a loading indicator while true.
	Initializing() bool
}

// SessionManager is the process-lifetime session component. Start runs the
// initialization protocol once; Close tears down the event subscription and
// forbids further state mutation.
type SessionManager interface {
	SessionUsecase

	Start(ctx context.Context) error
	Close() error
}
