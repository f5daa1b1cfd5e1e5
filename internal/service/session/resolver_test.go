package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

type fakeAdmins struct {
	byID map[uuid.UUID]*model.Admin
	err  error
	gate chan struct{}
}

func (f *fakeAdmins) GetByID(_ context.Context, id uuid.UUID) (*model.Admin, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	if admin, ok := f.byID[id]; ok {
		return admin, nil
	}
	return nil, repository.ErrNotFound
}

type fakeLogins struct {
	byID map[uuid.UUID]*model.DoctorLogin
	err  error
}

func (f *fakeLogins) GetByID(_ context.Context, id uuid.UUID) (*model.DoctorLogin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if login, ok := f.byID[id]; ok {
		return login, nil
	}
	return nil, repository.ErrNotFound
}

type fakeProfiles struct {
	byDoctor map[uuid.UUID]*model.DoctorProfile
	err      error
	calls    int
}

func (f *fakeProfiles) GetProfile(_ context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if profile, ok := f.byDoctor[id]; ok {
		return profile, nil
	}
	return nil, repository.ErrNotFound
}

type fakeTerminator struct {
	mu       sync.Mutex
	sessions []uuid.UUID
}

func (f *fakeTerminator) SignOut(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session.ID)
	return nil
}

func (f *fakeTerminator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newSession(identityID uuid.UUID) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:         uuid.New(),
		IdentityID: identityID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	}
}

func TestResolveAdminWinsOverDoctorLogin(t *testing.T) {
	identityID := uuid.New()
	doctorID := uuid.New()

	admins := &fakeAdmins{byID: map[uuid.UUID]*model.Admin{
		identityID: {ID: identityID, Username: "yonetici"},
	}}
	logins := &fakeLogins{byID: map[uuid.UUID]*model.DoctorLogin{
		identityID: {ID: identityID, DoctorID: doctorID},
	}}
	terminator := &fakeTerminator{}
	resolver := NewResolver(admins, logins, &fakeProfiles{}, terminator, testLogger())

	outcome, err := resolver.Resolve(context.Background(), newSession(identityID))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, outcome.Role)
	assert.Nil(t, outcome.DoctorID)
	assert.Zero(t, terminator.count())
}

func TestResolveDoctorLogin(t *testing.T) {
	identityID := uuid.New()
	doctorID := uuid.New()

	logins := &fakeLogins{byID: map[uuid.UUID]*model.DoctorLogin{
		identityID: {ID: identityID, DoctorID: doctorID, Username: "ayse.yilmaz"},
	}}
	profiles := &fakeProfiles{byDoctor: map[uuid.UUID]*model.DoctorProfile{
		doctorID: {FirstName: "Ayşe", LastName: "Yılmaz", Email: "ayse@klinik.example"},
	}}
	resolver := NewResolver(&fakeAdmins{}, logins, profiles, &fakeTerminator{}, testLogger())

	outcome, err := resolver.Resolve(context.Background(), newSession(identityID))
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, outcome.Role)
	require.NotNil(t, outcome.DoctorID)
	assert.Equal(t, doctorID, *outcome.DoctorID)
	require.NotNil(t, outcome.Profile)
	assert.Equal(t, "Ayşe", outcome.Profile.FirstName)
	assert.Equal(t, "Yılmaz", outcome.Profile.LastName)
	assert.Equal(t, "appointments", DefaultRoute(outcome.Role))
}

func TestResolveProfileFailureDegradesToNil(t *testing.T) {
	identityID := uuid.New()
	doctorID := uuid.New()

	logins := &fakeLogins{byID: map[uuid.UUID]*model.DoctorLogin{
		identityID: {ID: identityID, DoctorID: doctorID},
	}}
	profiles := &fakeProfiles{err: errors.New("connection refused")}
	resolver := NewResolver(&fakeAdmins{}, logins, profiles, &fakeTerminator{}, testLogger())

	outcome, err := resolver.Resolve(context.Background(), newSession(identityID))
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, outcome.Role)
	assert.Nil(t, outcome.Profile)
}

func TestResolveProfileServedFromCache(t *testing.T) {
	identityID := uuid.New()
	doctorID := uuid.New()

	logins := &fakeLogins{byID: map[uuid.UUID]*model.DoctorLogin{
		identityID: {ID: identityID, DoctorID: doctorID},
	}}
	profiles := &fakeProfiles{byDoctor: map[uuid.UUID]*model.DoctorProfile{
		doctorID: {FirstName: "Ayşe", LastName: "Yılmaz"},
	}}
	resolver := NewResolver(&fakeAdmins{}, logins, profiles, &fakeTerminator{}, testLogger())

	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(context.Background(), newSession(identityID))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, profiles.calls)
}

func TestResolveUnknownIdentitySignsOutOnce(t *testing.T) {
	terminator := &fakeTerminator{}
	resolver := NewResolver(&fakeAdmins{}, &fakeLogins{}, &fakeProfiles{}, terminator, testLogger())

	session := newSession(uuid.New())
	outcome, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, model.RoleNone, outcome.Role)

	require.Equal(t, 1, terminator.count())
	assert.Equal(t, session.ID, terminator.sessions[0])
}

func TestResolveTransientErrorDoesNotSignOut(t *testing.T) {
	transient := errors.New("dial tcp: connection refused")

	cases := []struct {
		name   string
		admins *fakeAdmins
		logins *fakeLogins
	}{
		{name: "admin lookup fails", admins: &fakeAdmins{err: transient}, logins: &fakeLogins{}},
		{name: "doctor lookup fails", admins: &fakeAdmins{}, logins: &fakeLogins{err: transient}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terminator := &fakeTerminator{}
			resolver := NewResolver(tc.admins, tc.logins, &fakeProfiles{}, terminator, testLogger())

			_, err := resolver.Resolve(context.Background(), newSession(uuid.New()))
			require.Error(t, err)
			assert.Zero(t, terminator.count())
		})
	}
}

func TestWatchSessionEndResetsImmediately(t *testing.T) {
	identityID := uuid.New()
	admins := &fakeAdmins{byID: map[uuid.UUID]*model.Admin{
		identityID: {ID: identityID},
	}}
	resolver := NewResolver(admins, &fakeLogins{}, &fakeProfiles{}, &fakeTerminator{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan model.SessionEvent)
	done := make(chan struct{})
	go func() {
		resolver.Watch(ctx, events)
		close(done)
	}()

	events <- model.SessionEvent{IdentityID: identityID, Session: newSession(identityID)}
	require.Eventually(t, func() bool {
		return resolver.Current().Role == model.RoleAdmin
	}, time.Second, 10*time.Millisecond)

	events <- model.SessionEvent{IdentityID: identityID, Session: nil}
	require.Eventually(t, func() bool {
		return resolver.Current().Role == model.RoleNone
	}, time.Second, 10*time.Millisecond)

	close(events)
	<-done
}

func TestWatchStaleResolutionNeverOverwritesNewer(t *testing.T) {
	identityID := uuid.New()
	gate := make(chan struct{})
	admins := &fakeAdmins{
		byID: map[uuid.UUID]*model.Admin{identityID: {ID: identityID}},
		gate: gate,
	}
	resolver := NewResolver(admins, &fakeLogins{}, &fakeProfiles{}, &fakeTerminator{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan model.SessionEvent)
	go resolver.Watch(ctx, events)

	// The admin lookup for this event blocks on the gate.
	events <- model.SessionEvent{IdentityID: identityID, Session: newSession(identityID)}
	// The session ends before the lookup completes.
	events <- model.SessionEvent{IdentityID: identityID, Session: nil}
	require.Eventually(t, func() bool {
		return resolver.Current().Role == model.RoleNone
	}, time.Second, 10*time.Millisecond)

	close(gate)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, model.RoleNone, resolver.Current().Role)
}

func TestDefaultRoute(t *testing.T) {
	assert.Equal(t, "dashboard", DefaultRoute(model.RoleAdmin))
	assert.Equal(t, "appointments", DefaultRoute(model.RoleDoctor))
	assert.Equal(t, "login", DefaultRoute(model.RoleNone))
}
