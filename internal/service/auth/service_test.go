package auth

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

type fakeAdmins struct {
	byUsername map[string]*model.Admin
	err        error
}

func (f *fakeAdmins) GetByID(_ context.Context, id uuid.UUID) (*model.Admin, error) {
	for _, admin := range f.byUsername {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if admin, ok := f.byUsername[username]; ok {
		return admin, nil
	}
	return nil, repository.ErrNotFound
}

type fakeLogins struct {
	repository.DoctorLoginRepository

	mu         sync.Mutex
	byUsername map[string]*model.DoctorLogin
	passwords  map[uuid.UUID]string
}

func newFakeLogins() *fakeLogins {
	return &fakeLogins{
		byUsername: make(map[string]*model.DoctorLogin),
		passwords:  make(map[uuid.UUID]string),
	}
}

func (f *fakeLogins) GetByUsername(_ context.Context, username string) (*model.DoctorLogin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if login, ok := f.byUsername[username]; ok {
		return login, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLogins) Create(_ context.Context, login *model.DoctorLogin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byUsername[login.Username] = login
	return nil
}

func (f *fakeLogins) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[id] = passwordHash
	for _, login := range f.byUsername {
		if login.ID == id {
			login.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeDoctors struct {
	repository.DoctorRepository

	byID map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctors) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if doctor, ok := f.byID[id]; ok {
		return doctor, nil
	}
	return nil, repository.ErrNotFound
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: make(map[uuid.UUID]*model.Session)}
}

func (f *fakeSessions) Create(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[session.ID] = session
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id uuid.UUID) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byID[id]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessions) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) ([]*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired []*model.Session
	for id, session := range f.byID {
		if session.ExpiresAt.Before(now) {
			expired = append(expired, session)
			delete(f.byID, id)
		}
	}
	return expired, nil
}

type fakeTokens struct {
	mu      sync.Mutex
	byToken map[string]uuid.UUID
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byToken: make(map[string]uuid.UUID)}
}

func (f *fakeTokens) StoreResetToken(_ context.Context, loginID uuid.UUID, token string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byToken[token] = loginID
	return nil
}

func (f *fakeTokens) ValidateResetToken(_ context.Context, token string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if loginID, ok := f.byToken[token]; ok {
		return loginID, nil
	}
	return uuid.Nil, repository.ErrNotFound
}

func (f *fakeTokens) InvalidateResetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, token)
	return nil
}

type fakeJWT struct{}

func (fakeJWT) GenerateSessionToken(session *model.Session) (string, error) {
	return "token:" + session.ID.String(), nil
}

func (fakeJWT) ValidateSessionToken(token string) (*model.SessionClaims, error) {
	raw, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return nil, errors.New("malformed token")
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &model.SessionClaims{SessionID: sessionID}, nil
}

type fakeEmail struct {
	mu          sync.Mutex
	resets      []string
	credentials []string
}

func (f *fakeEmail) SendPasswordReset(to, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, to+"|"+token)
	return nil
}

func (f *fakeEmail) SendCredentials(to, username, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentials = append(f.credentials, to+"|"+username)
	return nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

type fixture struct {
	svc      *Service
	admins   *fakeAdmins
	logins   *fakeLogins
	doctors  *fakeDoctors
	sessions *fakeSessions
	tokens   *fakeTokens
	email    *fakeEmail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		admins:   &fakeAdmins{byUsername: make(map[string]*model.Admin)},
		logins:   newFakeLogins(),
		doctors:  &fakeDoctors{byID: make(map[uuid.UUID]*model.Doctor)},
		sessions: newFakeSessions(),
		tokens:   newFakeTokens(),
		email:    &fakeEmail{},
	}
	f.svc = NewService(f.admins, f.logins, f.doctors, f.sessions, f.tokens, fakeJWT{}, f.email, testLogger())
	return f
}

func TestLoginAdmin(t *testing.T) {
	f := newFixture(t)
	adminID := uuid.New()
	f.admins.byUsername["yonetici"] = &model.Admin{
		ID: adminID, Username: "yonetici", PasswordHash: mustHash(t, "gizli123"),
	}

	session, token, err := f.svc.Login(context.Background(), "yonetici", "gizli123")
	require.NoError(t, err)
	assert.Equal(t, adminID, session.IdentityID)
	assert.Equal(t, "token:"+session.ID.String(), token)

	stored, err := f.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, adminID, stored.IdentityID)
}

func TestLoginFallsBackToDoctorLogin(t *testing.T) {
	f := newFixture(t)
	loginID := uuid.New()
	require.NoError(t, f.logins.Create(context.Background(), &model.DoctorLogin{
		ID: loginID, DoctorID: uuid.New(), Username: "ayse.yilmaz",
		PasswordHash: mustHash(t, "parola42"),
	}))

	session, _, err := f.svc.Login(context.Background(), "ayse.yilmaz", "parola42")
	require.NoError(t, err)
	assert.Equal(t, loginID, session.IdentityID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.admins.byUsername["yonetici"] = &model.Admin{
		ID: uuid.New(), Username: "yonetici", PasswordHash: mustHash(t, "gizli123"),
	}

	_, _, err := f.svc.Login(context.Background(), "yonetici", "yanlis")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), "bilinmeyen", "gizli123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginTransientLookupErrorIsNotInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.admins.err = errors.New("dial tcp: connection refused")

	_, _, err := f.svc.Login(context.Background(), "yonetici", "gizli123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutBroadcastsSessionEnd(t *testing.T) {
	f := newFixture(t)
	f.admins.byUsername["yonetici"] = &model.Admin{
		ID: uuid.New(), Username: "yonetici", PasswordHash: mustHash(t, "gizli123"),
	}

	events, cancel := f.svc.Subscribe()
	defer cancel()

	session, _, err := f.svc.Login(context.Background(), "yonetici", "gizli123")
	require.NoError(t, err)

	started := <-events
	require.NotNil(t, started.Session)
	assert.Equal(t, session.ID, started.Session.ID)

	require.NoError(t, f.svc.SignOut(context.Background(), session))
	ended := <-events
	assert.Nil(t, ended.Session)
	assert.Equal(t, session.IdentityID, ended.IdentityID)

	_, err = f.svc.GetSession(context.Background(), "token:"+session.ID.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSignOutTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	session := &model.Session{ID: uuid.New(), IdentityID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.sessions.Create(context.Background(), session))

	require.NoError(t, f.svc.SignOut(context.Background(), session))
	require.NoError(t, f.svc.SignOut(context.Background(), session))
}

func TestGetSessionRejectsGarbageToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetSession(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	email := "ayse@klinik.example"
	f.doctors.byID[doctorID] = &model.Doctor{FirstName: "Ayşe", LastName: "Yılmaz", Email: &email}
	loginID := uuid.New()
	require.NoError(t, f.logins.Create(context.Background(), &model.DoctorLogin{
		ID: loginID, DoctorID: doctorID, Username: "ayse.yilmaz",
		PasswordHash: mustHash(t, "eski"),
	}))

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "ayse.yilmaz"))
	require.Len(t, f.email.resets, 1)
	token := strings.SplitN(f.email.resets[0], "|", 2)[1]

	require.NoError(t, f.svc.ResetPassword(context.Background(), token, "yeni-parola"))
	login, err := f.logins.GetByUsername(context.Background(), "ayse.yilmaz")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte("yeni-parola")))

	// The token is single use.
	assert.Error(t, f.svc.ResetPassword(context.Background(), token, "baska"))
}

func TestForgotPasswordUnknownUsernameIsSilent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "bilinmeyen"))
	assert.Empty(t, f.email.resets)
}

func TestCreateLoginMailsCredentials(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()
	email := "mehmet@klinik.example"
	f.doctors.byID[doctorID] = &model.Doctor{FirstName: "Mehmet", Email: &email}

	login, err := f.svc.CreateLogin(context.Background(), &model.CreateDoctorLoginRequest{
		DoctorID: doctorID, Username: "mehmet.kaya", Password: "ilk-parola",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ilk-parola", login.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte("ilk-parola")))
	require.Len(t, f.email.credentials, 1)
	assert.Equal(t, "mehmet@klinik.example|mehmet.kaya", f.email.credentials[0])
}
