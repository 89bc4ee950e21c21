// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"academy/config"
	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/lifecycle"
	"academy/internal/domain/service"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// eventBuffer sizes the session-change subscription so a short burst of
// backend events never blocks the emitter.
const eventBuffer = 16

// profileFetch is one in-flight enrichment. Waiters block on done; profile
// and err are written exactly once, before done is closed.
type profileFetch struct {
	done    chan struct{}
	profile *entity.Profile
	err     error
}

// sessionManager implements the SessionManager interface.
//
// All session state lives behind one mutex: the current enriched session, the
// initializing flag, the pending-fetch map and the closed flag. Sessions are
// replaced wholesale, never mutated in place, so a caller holding a
// *EnrichedSession always sees a consistent snapshot. The epoch counter
// invalidates enrichments that were in flight when a sign-out cleared the
// state, so a late settlement cannot resurrect a stale session.
type sessionManager struct {
	backend     service.IdentityBackend
	tokens      service.TokenService
	logger      *slog.Logger
	initTimeout time.Duration

	// baseCtx outlives individual requests; shared fetches and the event
	// loop run under it so Close can abort them.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu           sync.Mutex
	current      *entity.EnrichedSession
	initializing bool
	pending      map[uuid.UUID]*profileFetch
	epoch        uint64
	closed       bool

	started      bool
	cancelEvents func()
	loopDone     chan struct{}

	initOnce sync.Once
	initDone chan struct{}
}

// NewSessionManager is the constructor for sessionManager.
func NewSessionManager(
	cfg *config.Config,
	backend service.IdentityBackend,
	tokens service.TokenService,
	logger *slog.Logger,
) usecase.SessionManager {
	baseCtx, cancel := context.WithCancel(context.Background())

	return &sessionManager{
		backend:      backend,
		tokens:       tokens,
		logger:       logger,
		initTimeout:  cfg.SessionInitTimeoutOrDefault(),
		baseCtx:      baseCtx,
		cancel:       cancel,
		initializing: true,
		pending:      make(map[uuid.UUID]*profileFetch),
		loopDone:     make(chan struct{}),
		initDone:     make(chan struct{}),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionManager) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Start subscribes to session-change events and resolves the one-shot session
// snapshot in the background. It runs once per process lifetime.
func (srv *sessionManager) Start(ctx context.Context) error {
	srv.mu.Lock()
	if srv.closed {
		srv.mu.Unlock()

		return errors.New("session manager already closed")
	}
	if srv.started {
		srv.mu.Unlock()

		return errors.New("session manager already started")
	}
	srv.started = true
	srv.mu.Unlock()

	events, cancel := srv.backend.SessionEvents(eventBuffer)
	srv.cancelEvents = cancel

	go srv.consumeEvents(events)
	go srv.watchInitTimeout()
	go srv.loadInitialSession()

	return nil
}

// loadInitialSession resolves the one-shot snapshot and applies it. The
// initializing flag clears when the snapshot settles, whatever the outcome.
func (srv *sessionManager) loadInitialSession() {
	defer srv.finishInitializing()

	ctx, cancel := context.WithTimeout(srv.baseCtx, srv.initTimeout)
	defer cancel()

	identity, err := srv.backend.CurrentSession(ctx)
	if err != nil {
		srv.logger.Warn("Failed to resolve initial session snapshot", slog.Any("error", err))

		return
	}
	if identity == nil {
		return
	}

	srv.applySessionChange(ctx, *identity)
}

// watchInitTimeout forces the initializing flag off after the configured
// ceiling so a hung snapshot call cannot leave callers in a loading state.
func (srv *sessionManager) watchInitTimeout() {
	timer := time.NewTimer(srv.initTimeout)
	defer timer.Stop()

	select {
	case <-srv.initDone:
	case <-srv.baseCtx.Done():
	case <-timer.C:
		srv.logger.Warn("Initial session snapshot timed out, clearing loading state",
			slog.Duration("timeout", srv.initTimeout))
		srv.finishInitializing()
	}
}

func (srv *sessionManager) finishInitializing() {
	srv.initOnce.Do(func() {
		srv.mu.Lock()
		srv.initializing = false
		srv.mu.Unlock()
		close(srv.initDone)
	})
}

// consumeEvents applies backend-pushed session changes in order. The
// synthetic initial-session kind is skipped because the snapshot already
// covered the state that existed before the subscription.
func (srv *sessionManager) consumeEvents(events <-chan service.SessionEvent) {
	defer close(srv.loopDone)

	for event := range events {
		if event.Kind == service.EventInitialSession {
			continue
		}
		if event.Identity == nil {
			srv.clearAllState()

			continue
		}

		srv.applySessionChange(srv.baseCtx, *event.Identity)
	}
}

// clearAllState handles a no-session notification: the current session goes
// away and the whole pending-fetch cache is purged, so a late settlement for
// the previous identity cannot serve a different subsequent identity.
func (srv *sessionManager) clearAllState() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.closed {
		return
	}
	srv.current = nil
	srv.pending = make(map[uuid.UUID]*profileFetch)
	srv.epoch++
}

// applySessionChange enriches an identity and installs the result as the
// current session, unless a sign-out invalidated the attempt while the fetch
// was in flight.
func (srv *sessionManager) applySessionChange(ctx context.Context, identity entity.Identity) {
	srv.mu.Lock()
	if srv.closed {
		srv.mu.Unlock()

		return
	}
	startEpoch := srv.epoch
	srv.mu.Unlock()

	session, err := srv.enrich(ctx, identity)
	if err != nil {
		if service.IsKind(err, service.KindIntegrity) {
			srv.logger.Error("Profile record id mismatch, refusing session",
				slog.Any("identity_id", identity.ID), slog.Any("error", err))
		} else {
			srv.logger.Warn("Failed to enrich session from event", slog.Any("error", err))
		}

		return
	}
	if session == nil {
		// Fetch superseded; a newer event owns the state now.
		return
	}

	if !session.Approved() {
		// Approval revoked while signed in. Clear silently.
		if err := srv.backend.SignOut(ctx); err != nil {
			srv.logger.Warn("Backend sign-out failed after gate rejection", slog.Any("error", err))
		}
		srv.mu.Lock()
		if !srv.closed {
			delete(srv.pending, identity.ID)
			srv.current = nil
		}
		srv.mu.Unlock()

		return
	}

	srv.mu.Lock()
	if !srv.closed && srv.epoch == startEpoch {
		srv.current = session
	}
	srv.mu.Unlock()
}

// enrich merges an identity with its profile record.
//
// Concurrent calls for the same identity id collapse into one backend query
// through the pending-fetch map; every caller observes the same settlement.
// An aborted fetch resolves to a nil session with no error. Any other fetch
// failure degrades to a fallback session built from the identity itself, so
// a transient read failure does not strand an authenticated user. An id
// mismatch between request and record is a hard failure, never a fallback.
func (srv *sessionManager) enrich(ctx context.Context, identity entity.Identity) (*entity.EnrichedSession, error) {
	fetch, owner := srv.fetchFor(identity.ID)
	if fetch == nil {
		return nil, nil
	}
	if owner {
		go srv.runFetch(fetch, identity.ID)
	}

	select {
	case <-fetch.done:
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}

	if fetch.err != nil {
		switch service.KindOf(fetch.err) {
		case service.KindAborted:
			return nil, nil
		case service.KindIntegrity:
			return nil, errors.WithStack(fetch.err)
		default:
			return fallbackSession(identity), nil
		}
	}

	return sessionFromProfile(identity, fetch.profile), nil
}

// fetchFor returns the in-flight fetch for the given id, registering a new
// one when none exists. The second result reports whether the caller owns the
// backend query. Returns nil after Close.
func (srv *sessionManager) fetchFor(id uuid.UUID) (*profileFetch, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.closed {
		return nil, false
	}
	if fetch, ok := srv.pending[id]; ok {
		return fetch, false
	}

	fetch := &profileFetch{done: make(chan struct{})}
	srv.pending[id] = fetch

	return fetch, true
}

// runFetch executes the single backend query behind a pending-fetch entry.
// On settlement the entry is removed only if it is still the one registered
// for this id, so an older settlement never clobbers a newer fetch.
func (srv *sessionManager) runFetch(fetch *profileFetch, id uuid.UUID) {
	profile, err := srv.backend.FetchProfile(srv.baseCtx, id)
	if err == nil && profile != nil && profile.ID != id {
		err = service.NewBackendError(service.KindIntegrity,
			"fetched profile id does not match requested identity id", nil)
	}

	fetch.profile = profile
	fetch.err = err
	close(fetch.done)

	srv.mu.Lock()
	if srv.pending[id] == fetch {
		delete(srv.pending, id)
	}
	srv.mu.Unlock()
}

// sessionFromProfile builds the enriched session for a successfully fetched
// record, resolving each attribute through its fallback chain.
func sessionFromProfile(identity entity.Identity, profile *entity.Profile) *entity.EnrichedSession {
	role := entity.Role("")
	status := entity.ApprovalStatus("")
	if profile != nil {
		role = profile.Role
		status = profile.Status
	}
	if !role.IsValid() {
		role = identity.RoleHint
	}
	if !role.IsValid() {
		role = entity.DefaultRole
	}
	if !status.IsValid() {
		status = entity.StatusApproved
	}

	return &entity.EnrichedSession{
		Identity:    identity,
		Role:        role,
		Status:      status,
		DisplayName: profile.DisplayName(identity.Email),
		Profile:     profile,
	}
}

// fallbackSession covers a failed profile read for an authenticated identity:
// role from the backend's hint when present, else student; status approved;
// display name from the email.
func fallbackSession(identity entity.Identity) *entity.EnrichedSession {
	role := identity.RoleHint
	if !role.IsValid() {
		role = entity.DefaultRole
	}

	return &entity.EnrichedSession{
		Identity:    identity,
		Role:        role,
		Status:      entity.StatusApproved,
		DisplayName: identity.Email,
	}
}

// SignIn checks credentials, enriches the granted identity and applies the
// approval gate before installing the session and minting tokens.
func (srv *sessionManager) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.SignInOutput, error) {
	srv.log(ctx).Debug("Signing in", slog.String("email", input.Email))

	identity, err := srv.backend.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindInvalidCredentials, service.KindNotFound:
			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		default:
			srv.log(ctx).Error("Sign-in backend call failed", slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrIdentityUnavailable, err.Error())
		}
	}

	session, err := srv.enrich(ctx, *identity)
	if err != nil {
		if service.IsKind(err, service.KindIntegrity) {
			srv.log(ctx).Error("Profile record id mismatch during sign-in",
				slog.Any("identity_id", identity.ID), slog.Any("error", err))

			return nil, errors.WithStack(domainerrors.ErrProfileMismatch)
		}

		return nil, errors.WithStack(err)
	}
	if session == nil {
		// Superseded by a concurrent sign-out.
		return nil, errors.WithStack(domainerrors.ErrIdentityUnavailable)
	}

	if !session.Approved() {
		if err := srv.backend.SignOut(ctx); err != nil {
			srv.log(ctx).Warn("Backend sign-out failed after gate rejection", slog.Any("error", err))
		}
		srv.mu.Lock()
		if !srv.closed {
			delete(srv.pending, identity.ID)
			srv.current = nil
		}
		srv.mu.Unlock()

		if session.Status == entity.StatusRejected {
			return nil, errors.WithStack(domainerrors.ErrAccountRejected)
		}

		return nil, errors.WithStack(domainerrors.ErrAccountPending)
	}

	srv.mu.Lock()
	if !srv.closed {
		srv.current = session
	}
	srv.mu.Unlock()

	accessToken, refreshToken, err := srv.tokens.GenerateTokens(session.Identity.ID, session.Role, session.Status)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "failed to generate tokens")
	}

	srv.log(ctx).Info("Signed in",
		slog.Any("identity_id", session.Identity.ID), slog.String("role", session.Role.String()))

	return &usecase.SignInOutput{
		Role:         session.Role,
		Status:       session.Status,
		DisplayName:  session.DisplayName,
		Session:      session,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// SignUp registers a new account. The account starts pending, so no
// enrichment or gating happens here.
func (srv *sessionManager) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	srv.log(ctx).Debug("Registering account", slog.String("email", input.Email), slog.String("role", input.Role.String()))

	if !input.Role.IsValid() || input.Role == entity.RoleOwner {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "role must be teacher, student or parent")
	}

	meta := service.SignUpMetadata{
		Role:        input.Role,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		FullName:    strings.TrimSpace(input.FirstName + " " + input.LastName),
		Phone:       input.Phone,
		StudentCode: input.StudentCode,
	}

	identity, err := srv.backend.SignUp(ctx, input.Email, input.Password, meta)
	if err != nil {
		switch service.KindOf(err) {
		case service.KindConflict:
			return nil, errors.WithStack(domainerrors.ErrEmailTaken)
		case service.KindNotFound:
			return nil, errors.WithStack(domainerrors.ErrStudentCodeUnknown)
		default:
			srv.log(ctx).Error("Sign-up backend call failed", slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrIdentityUnavailable, err.Error())
		}
	}

	srv.log(ctx).Info("Account registered, awaiting approval", slog.Any("identity_id", identity.ID))

	return &usecase.SignUpOutput{Identity: identity}, nil
}

// SignOut ends the session unconditionally from the caller's perspective.
// Backend failures are logged and swallowed; local state always clears.
func (srv *sessionManager) SignOut(ctx context.Context) error {
	if err := srv.backend.SignOut(ctx); err != nil {
		srv.log(ctx).Warn("Backend sign-out failed, clearing local session anyway", slog.Any("error", err))
	}

	srv.clearAllState()

	return nil
}

// Current returns the current enriched session, or nil when signed out.
func (srv *sessionManager) Current() *entity.EnrichedSession {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.current
}

// Initializing reports whether the snapshot step is still unresolved.
func (srv *sessionManager) Initializing() bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.initializing
}

// Close tears the manager down: no state mutation may happen after it
// returns. Safe to call more than once.
func (srv *sessionManager) Close() error {
	srv.mu.Lock()
	if srv.closed {
		srv.mu.Unlock()

		return nil
	}
	srv.closed = true
	srv.current = nil
	srv.pending = make(map[uuid.UUID]*profileFetch)
	started := srv.started
	srv.mu.Unlock()

	srv.cancel()
	if srv.cancelEvents != nil {
		srv.cancelEvents()
	}
	srv.finishInitializing()

	if started {
		select {
		case <-srv.loopDone:
		case <-time.After(lifecycle.DefaultTimeout):
			srv.logger.Warn("Timed out waiting for session event loop to stop")
		}
	}

	return nil
}
