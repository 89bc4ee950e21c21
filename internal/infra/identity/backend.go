// Package identity implements the identity backend over the local credential
// and profile stores. It owns authentication, the session-change event hub
// and the profile record reads the session core consumes.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"academy/config"
	"academy/internal/domain/entity"
	"academy/internal/domain/repository"
	"academy/internal/domain/service"
	"academy/internal/errors"

	"github.com/google/uuid"
)

// Backend implements service.IdentityBackend.
type Backend struct {
	txManager  repository.TransactionManager
	hasher     service.PasswordHasher
	ownerEmail string
	logger     *slog.Logger

	mu      sync.Mutex
	current *entity.Identity
	subs    map[int]chan service.SessionEvent
	nextSub int
}

// NewBackend is the constructor for Backend.
func NewBackend(
	cfg *config.Config,
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) service.IdentityBackend {
	ownerEmail := ""
	if cfg.Auth != nil {
		ownerEmail = strings.ToLower(cfg.Auth.OwnerEmail)
	}

	return &Backend{
		txManager:  txManager,
		hasher:     hasher,
		ownerEmail: ownerEmail,
		logger:     logger,
		subs:       make(map[int]chan service.SessionEvent),
	}
}

// wrap converts infrastructure errors into the tagged taxonomy. Context
// cancellation becomes KindAborted so the session core can tell a superseded
// request from a genuine failure.
func wrap(err error, kind service.ErrorKind, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return service.NewBackendError(service.KindAborted, "request cancelled", err)
	}

	return service.NewBackendError(kind, msg, err)
}

// CurrentSession returns the identity holding the current backend-side
// session, or nil when there is none.
func (b *Backend) CurrentSession(ctx context.Context) (*entity.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(err, service.KindAborted, "request cancelled")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil, nil
	}
	identity := *b.current

	return &identity, nil
}

// SignInWithPassword checks credentials and grants a session. A missing
// credential and a wrong password are indistinguishable to the caller.
func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (*entity.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var identity *entity.Identity

	err := b.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credential, err := repoFactory.CredentialRepo().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				return service.NewBackendError(service.KindInvalidCredentials, "unknown email or wrong password", err)
			}

			return wrap(err, service.KindUnavailable, "failed to read credential")
		}

		if !b.hasher.Check(password, credential.PasswordHash) {
			return service.NewBackendError(service.KindInvalidCredentials, "unknown email or wrong password", nil)
		}

		roleHint := entity.Role("")
		if profile, err := repoFactory.ProfileRepo().FindByID(ctx, credential.ProfileID); err == nil {
			roleHint = profile.Role
		}

		identity = &entity.Identity{ID: credential.ProfileID, Email: email, RoleHint: roleHint}

		return nil
	})
	if err != nil {
		var backendErr *service.BackendError
		if errors.As(err, &backendErr) {
			return nil, backendErr
		}

		return nil, wrap(err, service.KindUnavailable, "sign-in transaction failed")
	}

	b.mu.Lock()
	b.current = identity
	b.mu.Unlock()

	b.emit(service.SessionEvent{Kind: service.EventSignedIn, Identity: identity})

	return identity, nil
}

// SignUp creates the credential plus the associated profile record. Accounts
// start pending unless the configured owner email registers itself.
func (b *Backend) SignUp(ctx context.Context, email, password string, meta service.SignUpMetadata) (*entity.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var identity *entity.Identity

	err := b.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.CredentialRepo()

		if _, err := credentialRepo.FindByEmail(ctx, email); err == nil {
			return service.NewBackendError(service.KindConflict, "email is already registered", nil)
		} else if !errors.Is(err, repository.ErrCredentialNotFound) {
			return wrap(err, service.KindUnavailable, "failed to check email")
		}

		hash, err := b.hasher.Hash(password)
		if err != nil {
			return wrap(err, service.KindUnavailable, "failed to hash password")
		}

		profile := &entity.Profile{
			ID:        uuid.New(),
			Email:     email,
			Role:      meta.Role,
			Status:    entity.StatusPending,
			FirstName: meta.FirstName,
			LastName:  meta.LastName,
			FullName:  meta.FullName,
			Phone:     meta.Phone,
		}
		if email != "" && email == b.ownerEmail {
			profile.Role = entity.RoleOwner
			profile.Status = entity.StatusApproved
		}
		if profile.Role == entity.RoleStudent {
			profile.StudentCode = newStudentCode(profile.ID)
		}

		if err := repoFactory.ProfileRepo().Create(ctx, profile); err != nil {
			return wrap(err, service.KindUnavailable, "failed to create profile")
		}

		credential := &entity.Credential{
			ID:           uuid.New(),
			ProfileID:    profile.ID,
			Email:        email,
			PasswordHash: hash,
		}
		if err := credentialRepo.Create(ctx, credential); err != nil {
			return wrap(err, service.KindUnavailable, "failed to create credential")
		}

		// Registering parents may link to their student immediately.
		if profile.Role == entity.RoleParent && meta.StudentCode != "" {
			student, err := repoFactory.ProfileRepo().FindByStudentCode(ctx, meta.StudentCode)
			if err != nil {
				if errors.Is(err, repository.ErrProfileNotFound) {
					return service.NewBackendError(service.KindNotFound, "no student carries this code", err)
				}

				return wrap(err, service.KindUnavailable, "failed to resolve student code")
			}

			link := &entity.GuardianLink{ParentID: profile.ID, StudentID: student.ID}
			if err := repoFactory.GuardianRepo().CreateLink(ctx, link); err != nil {
				return wrap(err, service.KindUnavailable, "failed to link guardian")
			}
		}

		identity = &entity.Identity{ID: profile.ID, Email: email, RoleHint: profile.Role}

		return nil
	})
	if err != nil {
		var backendErr *service.BackendError
		if errors.As(err, &backendErr) {
			return nil, backendErr
		}

		return nil, wrap(err, service.KindUnavailable, "sign-up transaction failed")
	}

	b.logger.Info("Account created", slog.Any("profile_id", identity.ID), slog.String("role", identity.RoleHint.String()))

	return identity, nil
}

// SignOut ends the backend-held session and notifies subscribers.
func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	hadSession := b.current != nil
	b.current = nil
	b.mu.Unlock()

	if hadSession {
		b.emit(service.SessionEvent{Kind: service.EventSignedOut})
	}

	return nil
}

// SessionEvents subscribes to session-change notifications.
func (b *Backend) SessionEvents(buffer int) (<-chan service.SessionEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	ch := make(chan service.SessionEvent, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// emit fans an event out to every subscriber. A subscriber that cannot keep
// up drops events rather than blocking the emitter.
func (b *Backend) emit(event service.SessionEvent) {
	b.mu.Lock()
	channels := make([]chan service.SessionEvent, 0, len(b.subs))
	for _, ch := range b.subs {
		channels = append(channels, ch)
	}
	b.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping session event for slow subscriber", slog.String("kind", string(event.Kind)))
		}
	}
}

// FetchProfile reads the profile record for the given identity ID.
func (b *Backend) FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile *entity.Profile

	err := b.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProfileRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return service.NewBackendError(service.KindNotFound, "profile not found", err)
			}

			return wrap(err, service.KindUnavailable, "failed to read profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		var backendErr *service.BackendError
		if errors.As(err, &backendErr) {
			return nil, backendErr
		}

		return nil, wrap(err, service.KindUnavailable, "profile transaction failed")
	}

	return profile, nil
}

// UpdateProfileStatus patches a profile's approval status.
func (b *Backend) UpdateProfileStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	err := b.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ProfileRepo().UpdateStatus(ctx, id, status); err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return service.NewBackendError(service.KindNotFound, "profile not found", err)
			}

			return wrap(err, service.KindUnavailable, "failed to update status")
		}

		return nil
	})
	if err != nil {
		var backendErr *service.BackendError
		if errors.As(err, &backendErr) {
			return err
		}

		return wrap(err, service.KindUnavailable, "status transaction failed")
	}

	return nil
}

// newStudentCode derives the shareable code parents use to link to a
// student. Short enough to read over the phone, unique enough in practice.
func newStudentCode(id uuid.UUID) string {
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))

	return fmt.Sprintf("STU-%s", raw[:8])
}
