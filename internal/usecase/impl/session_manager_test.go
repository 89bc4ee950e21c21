package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"academy/config"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/service"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a scripted IdentityBackend. Fields configure the outcome of
// each call; gates let a test hold a call in flight.
type fakeBackend struct {
	mu sync.Mutex

	signInIdentity *entity.Identity
	signInErr      error

	signUpIdentity *entity.Identity
	signUpErr      error

	snapshot     *entity.Identity
	snapshotErr  error
	snapshotGate chan struct{} // when non-nil, CurrentSession blocks until closed

	profiles   map[uuid.UUID]*entity.Profile
	fetchErr   error
	fetchGate  chan struct{} // when non-nil, FetchProfile blocks until closed
	fetchCalls int

	signOutCalls int
	signOutErr   error

	events chan service.SessionEvent
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{profiles: make(map[uuid.UUID]*entity.Profile)}
}

func (f *fakeBackend) CurrentSession(ctx context.Context) (*entity.Identity, error) {
	f.mu.Lock()
	gate := f.snapshotGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshot, f.snapshotErr
}

func (f *fakeBackend) SignInWithPassword(ctx context.Context, email, password string) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.signInIdentity, f.signInErr
}

func (f *fakeBackend) SignUp(ctx context.Context, email, password string, meta service.SignUpMetadata) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.signUpIdentity, f.signUpErr
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.signOutCalls++

	return f.signOutErr
}

func (f *fakeBackend) SessionEvents(buffer int) (<-chan service.SessionEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = make(chan service.SessionEvent, buffer)
	ch := f.events

	var once sync.Once

	return ch, func() { once.Do(func() { close(ch) }) }
}

func (f *fakeBackend) push(event service.SessionEvent) {
	f.mu.Lock()
	ch := f.events
	f.mu.Unlock()

	ch <- event
}

func (f *fakeBackend) FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	f.mu.Lock()
	f.fetchCalls++
	gate := f.fetchGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, service.NewBackendError(service.KindAborted, "fetch cancelled", ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	profile, ok := f.profiles[id]
	if !ok {
		return nil, service.NewBackendError(service.KindNotFound, "profile not found", nil)
	}

	return profile, nil
}

func (f *fakeBackend) UpdateProfileStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if profile, ok := f.profiles[id]; ok {
		profile.Status = status
	}

	return nil
}

func (f *fakeBackend) totalFetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetchCalls
}

func (f *fakeBackend) totalSignOutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.signOutCalls
}

type stubTokenService struct {
	err error
}

func (s *stubTokenService) GenerateTokens(profileID uuid.UUID, role entity.Role, status entity.ApprovalStatus) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}

	return "access-token", "refresh-token", nil
}

func (s *stubTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return nil, service.NewBackendError(service.KindNotFound, "not implemented", nil)
}

func (s *stubTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

func newSessionManagerForTest(t *testing.T, backend *fakeBackend) *sessionManager {
	t.Helper()

	cfg := &config.Config{Auth: &config.AuthConfig{SessionInitTimeout: 40 * time.Millisecond}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr, ok := NewSessionManager(cfg, backend, &stubTokenService{}, logger).(*sessionManager)
	require.True(t, ok)
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr
}

func seedProfile(backend *fakeBackend, role entity.Role, status entity.ApprovalStatus, fullName string) *entity.Identity {
	id := uuid.New()
	backend.profiles[id] = &entity.Profile{
		ID:       id,
		Email:    "user@academy.test",
		Role:     role,
		Status:   status,
		FullName: fullName,
	}

	return &entity.Identity{ID: id, Email: "user@academy.test"}
}

func TestSessionManager_SignIn_ApprovedTeacher(t *testing.T) {
	backend := newFakeBackend()
	backend.signInIdentity = seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "A B")
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleTeacher, out.Role)
	assert.Equal(t, "A B", out.DisplayName)
	assert.Equal(t, "access-token", out.AccessToken)
	require.NotNil(t, mgr.Current())
	assert.Equal(t, "A B", mgr.Current().DisplayName)
}

func TestSessionManager_SignIn_UnapprovedStatusesAreDistinguished(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.ApprovalStatus
		wantErr error
	}{
		{name: "pending", status: entity.StatusPending, wantErr: domainerrors.ErrAccountPending},
		{name: "rejected", status: entity.StatusRejected, wantErr: domainerrors.ErrAccountRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.signInIdentity = seedProfile(backend, entity.RoleStudent, tt.status, "")
			mgr := newSessionManagerForTest(t, backend)

			out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "secret"})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
			assert.Nil(t, mgr.Current())
			assert.Equal(t, 1, backend.totalSignOutCalls())
		})
	}
}

func TestSessionManager_SignIn_OwnerBypassesStatus(t *testing.T) {
	backend := newFakeBackend()
	backend.signInIdentity = seedProfile(backend, entity.RoleOwner, entity.StatusPending, "The Owner")
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, out.Role)
	assert.Zero(t, backend.totalSignOutCalls())
	require.NotNil(t, mgr.Current())
}

func TestSessionManager_SignIn_InvalidCredentials(t *testing.T) {
	backend := newFakeBackend()
	backend.signInErr = service.NewBackendError(service.KindInvalidCredentials, "bad password", nil)
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "wrong"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Nil(t, out)
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_SignIn_FallbackOnGenericFetchFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.signInIdentity = &entity.Identity{ID: uuid.New(), Email: "noprofile@academy.test"}
	backend.fetchErr = service.NewBackendError(service.KindUnavailable, "read timed out", nil)
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "noprofile@academy.test", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, out.Role)
	assert.Equal(t, entity.StatusApproved, out.Status)
	assert.Equal(t, "noprofile@academy.test", out.DisplayName)
	require.NotNil(t, mgr.Current())
	assert.Nil(t, mgr.Current().Profile)
}

func TestSessionManager_SignIn_FallbackUsesRoleHint(t *testing.T) {
	backend := newFakeBackend()
	backend.signInIdentity = &entity.Identity{ID: uuid.New(), Email: "hinted@academy.test", RoleHint: entity.RoleTeacher}
	backend.fetchErr = service.NewBackendError(service.KindUnavailable, "read timed out", nil)
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "hinted@academy.test", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleTeacher, out.Role)
}

func TestSessionManager_SignIn_ProfileIDMismatchIsHardFailure(t *testing.T) {
	backend := newFakeBackend()
	identity := &entity.Identity{ID: uuid.New(), Email: "user@academy.test"}
	backend.signInIdentity = identity
	backend.profiles[identity.ID] = &entity.Profile{
		ID:     uuid.New(), // wrong record
		Role:   entity.RoleTeacher,
		Status: entity.StatusApproved,
	}
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "secret"})

	require.ErrorIs(t, err, domainerrors.ErrProfileMismatch)
	assert.Nil(t, out)
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_Enrich_CollapsesConcurrentFetches(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleStudent, entity.StatusApproved, "C D")
	backend.fetchGate = make(chan struct{})
	mgr := newSessionManagerForTest(t, backend)

	results := make(chan *entity.EnrichedSession, 2)
	for range 2 {
		go func() {
			session, err := mgr.enrich(context.Background(), *identity)
			assert.NoError(t, err)
			results <- session
		}()
	}

	require.Eventually(t, func() bool { return backend.totalFetchCalls() == 1 },
		time.Second, 5*time.Millisecond)
	close(backend.fetchGate)

	first := <-results
	second := <-results
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.DisplayName, second.DisplayName)
	assert.Equal(t, 1, backend.totalFetchCalls())
}

func TestSessionManager_Enrich_AbortedResolvesToNil(t *testing.T) {
	backend := newFakeBackend()
	identity := &entity.Identity{ID: uuid.New(), Email: "user@academy.test", RoleHint: entity.RoleTeacher}
	backend.fetchErr = service.NewBackendError(service.KindAborted, "superseded", context.Canceled)
	mgr := newSessionManagerForTest(t, backend)

	session, err := mgr.enrich(context.Background(), *identity)

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionManager_NoSessionPurgesPendingFetches(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleStudent, entity.StatusApproved, "E F")
	backend.fetchGate = make(chan struct{})
	mgr := newSessionManagerForTest(t, backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		session, err := mgr.enrich(context.Background(), *identity)
		assert.NoError(t, err)
		assert.NotNil(t, session)
	}()

	require.Eventually(t, func() bool { return backend.totalFetchCalls() == 1 },
		time.Second, 5*time.Millisecond)

	// Logout elsewhere while the fetch is still in flight.
	mgr.clearAllState()

	mgr.mu.Lock()
	pendingLen := len(mgr.pending)
	mgr.mu.Unlock()
	assert.Zero(t, pendingLen)

	close(backend.fetchGate)
	<-done

	// A fresh enrichment must issue a new backend query.
	session, err := mgr.enrich(context.Background(), *identity)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 2, backend.totalFetchCalls())
}

func TestSessionManager_InFlightFetchCannotResurrectSession(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleStudent, entity.StatusApproved, "G H")
	backend.fetchGate = make(chan struct{})
	mgr := newSessionManagerForTest(t, backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		mgr.applySessionChange(context.Background(), *identity)
	}()

	require.Eventually(t, func() bool { return backend.totalFetchCalls() == 1 },
		time.Second, 5*time.Millisecond)

	// A no-session event wins over the in-flight enrichment.
	mgr.clearAllState()
	close(backend.fetchGate)
	<-done

	assert.Nil(t, mgr.Current())
}

func TestSessionManager_Start_AppliesSnapshot(t *testing.T) {
	backend := newFakeBackend()
	backend.snapshot = seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "I J")
	mgr := newSessionManagerForTest(t, backend)

	require.True(t, mgr.Initializing())
	require.NoError(t, mgr.Start(context.Background()))

	require.Eventually(t, func() bool { return mgr.Current() != nil },
		time.Second, 5*time.Millisecond)
	assert.False(t, mgr.Initializing())
	assert.Equal(t, "I J", mgr.Current().DisplayName)
}

func TestSessionManager_Start_NoSnapshotClearsLoading(t *testing.T) {
	backend := newFakeBackend()
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))

	require.Eventually(t, func() bool { return !mgr.Initializing() },
		time.Second, 5*time.Millisecond)
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_InitTimeoutForcesLoadingOff(t *testing.T) {
	backend := newFakeBackend()
	backend.snapshotGate = make(chan struct{})
	t.Cleanup(func() { close(backend.snapshotGate) })
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))

	require.Eventually(t, func() bool { return !mgr.Initializing() },
		time.Second, 5*time.Millisecond)
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_EventStream_IgnoresInitialSessionKind(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "K L")
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))
	require.Eventually(t, func() bool { return !mgr.Initializing() },
		time.Second, 5*time.Millisecond)

	backend.push(service.SessionEvent{Kind: service.EventInitialSession, Identity: identity})
	backend.push(service.SessionEvent{Kind: service.EventSignedIn, Identity: identity})

	require.Eventually(t, func() bool { return mgr.Current() != nil },
		time.Second, 5*time.Millisecond)
	// Only the signed-in event triggered a profile query.
	assert.Equal(t, 1, backend.totalFetchCalls())
}

func TestSessionManager_EventStream_NoSessionClearsCurrent(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "M N")
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))
	backend.push(service.SessionEvent{Kind: service.EventSignedIn, Identity: identity})
	require.Eventually(t, func() bool { return mgr.Current() != nil },
		time.Second, 5*time.Millisecond)

	backend.push(service.SessionEvent{Kind: service.EventSignedOut})
	require.Eventually(t, func() bool { return mgr.Current() == nil },
		time.Second, 5*time.Millisecond)
}

func TestSessionManager_EventStream_RevokedApprovalClearsSilently(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleTeacher, entity.StatusPending, "O P")
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))
	backend.push(service.SessionEvent{Kind: service.EventSignedIn, Identity: identity})

	require.Eventually(t, func() bool { return backend.totalSignOutCalls() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_SignOut_SwallowsBackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.signInIdentity = seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "Q R")
	backend.signOutErr = service.NewBackendError(service.KindUnavailable, "backend down", nil)
	mgr := newSessionManagerForTest(t, backend)

	_, err := mgr.SignIn(context.Background(), &usecase.SignInInput{Email: "user@academy.test", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, mgr.Current())

	require.NoError(t, mgr.SignOut(context.Background()))
	assert.Nil(t, mgr.Current())
}

func TestSessionManager_SignUp_RejectsOwnerRole(t *testing.T) {
	backend := newFakeBackend()
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignUp(context.Background(), &usecase.SignUpInput{
		Email:    "boss@academy.test",
		Password: "password",
		Role:     entity.RoleOwner,
	})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Nil(t, out)
}

func TestSessionManager_SignUp_MapsConflictToEmailTaken(t *testing.T) {
	backend := newFakeBackend()
	backend.signUpErr = service.NewBackendError(service.KindConflict, "email exists", nil)
	mgr := newSessionManagerForTest(t, backend)

	out, err := mgr.SignUp(context.Background(), &usecase.SignUpInput{
		Email:     "dup@academy.test",
		Password:  "password",
		Role:      entity.RoleStudent,
		FirstName: "S",
		LastName:  "T",
	})

	require.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	assert.Nil(t, out)
}

func TestSessionManager_Close_ForbidsFurtherMutation(t *testing.T) {
	backend := newFakeBackend()
	identity := seedProfile(backend, entity.RoleTeacher, entity.StatusApproved, "U V")
	mgr := newSessionManagerForTest(t, backend)

	require.NoError(t, mgr.Start(context.Background()))
	require.NoError(t, mgr.Close())

	mgr.applySessionChange(context.Background(), *identity)
	assert.Nil(t, mgr.Current())

	session, err := mgr.enrich(context.Background(), *identity)
	require.NoError(t, err)
	assert.Nil(t, session)
}
