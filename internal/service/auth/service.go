package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/klinikvoice/admin-api/internal/email"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/auth"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

const (
	sessionTTL       = 24 * time.Hour
	resetTokenExpiry = 1 * time.Hour
	bcryptCost       = 12

	eventBuffer = 16
)

// Service owns authentication sessions and doctor login credentials.
// Session changes (sign-in, sign-out, expiry) are broadcast to subscribers
// so the role resolver and the notification trackers react to sessions that
// end out-of-band.
type Service struct {
	admins   repository.AdminRepository
	logins   repository.DoctorLoginRepository
	doctors  repository.DoctorRepository
	sessions repository.SessionRepository
	tokens   repository.TokenRepository
	jwtSvc   auth.JWTService
	emailSvc email.Service
	logger   *logger.Logger

	mu        sync.Mutex
	nextSubID int
	subs      map[int]chan model.SessionEvent
}

func NewService(
	admins repository.AdminRepository,
	logins repository.DoctorLoginRepository,
	doctors repository.DoctorRepository,
	sessions repository.SessionRepository,
	tokens repository.TokenRepository,
	jwtSvc auth.JWTService,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		admins:   admins,
		logins:   logins,
		doctors:  doctors,
		sessions: sessions,
		tokens:   tokens,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
		logger:   logger,
		subs:     make(map[int]chan model.SessionEvent),
	}
}

// Login checks the credentials against the admin table first and the
// doktor_giris table second, then opens a session for the matching identity.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, string, error) {
	identityID, passwordHash, err := s.lookupCredentials(ctx, username)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	session := &model.Session{
		ID:         uuid.New(),
		IdentityID: identityID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.jwtSvc.GenerateSessionToken(session)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	s.broadcast(model.SessionEvent{IdentityID: identityID, Session: session})
	return session, token, nil
}

func (s *Service) lookupCredentials(ctx context.Context, username string) (uuid.UUID, string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return admin.ID, admin.PasswordHash, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, "", fmt.Errorf("failed to look up credentials: %w", err)
	}

	login, err := s.logins.GetByUsername(ctx, username)
	if err == nil {
		return login.ID, login.PasswordHash, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, "", fmt.Errorf("failed to look up credentials: %w", err)
	}

	return uuid.Nil, "", ErrInvalidCredentials
}

// GetSession validates a bearer token and loads the backing session row.
func (s *Service) GetSession(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.jwtSvc.ValidateSessionToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// SignOut terminates the session and announces its end. Deleting an already
// deleted session is not an error: two tabs may race to sign out.
func (s *Service) SignOut(ctx context.Context, session *model.Session) error {
	if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.broadcast(model.SessionEvent{IdentityID: session.IdentityID, Session: nil})
	return nil
}

// Subscribe registers for session-change events. The returned cancel func
// must be called when the consumer goes away.
func (s *Service) Subscribe() (<-chan model.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan model.SessionEvent, eventBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Service) broadcast(event model.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// A stalled subscriber must not block sign-in/sign-out.
		}
	}
}

// StartSweeper deletes expired sessions on a fixed cadence and broadcasts
// their end, so badges and trackers stop for sessions that lapse silently.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.sessions.DeleteExpired(ctx, time.Now())
			if err != nil {
				s.logger.Error(err, "failed to sweep expired sessions")
				continue
			}
			for _, session := range expired {
				s.broadcast(model.SessionEvent{IdentityID: session.IdentityID, Session: nil})
			}
		}
	}
}

// ListLogins returns every doctor login credential row.
func (s *Service) ListLogins(ctx context.Context) ([]*model.DoctorLogin, error) {
	return s.logins.List(ctx)
}

// CreateLogin provisions a doctor login and mails the credentials to the
// doctor when an address is on file. The mail is best-effort.
func (s *Service) CreateLogin(ctx context.Context, req *model.CreateDoctorLoginRequest) (*model.DoctorLogin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	login := &model.DoctorLogin{
		ID:           uuid.New(),
		DoctorID:     req.DoctorID,
		Username:     req.Username,
		PasswordHash: string(hashed),
	}
	if err := s.logins.Create(ctx, login); err != nil {
		return nil, fmt.Errorf("failed to create doctor login: %w", err)
	}

	if doctor, err := s.doctors.Get(ctx, req.DoctorID); err == nil && doctor.Email != nil {
		if err := s.emailSvc.SendCredentials(*doctor.Email, req.Username, req.Password); err != nil {
			s.logger.Error(err, "failed to send credentials email", "doctor_id", req.DoctorID.String())
		}
	}

	return login, nil
}

func (s *Service) DeleteLogin(ctx context.Context, id uuid.UUID) error {
	return s.logins.Delete(ctx, id)
}

// ForgotPassword issues a reset token for a doctor login and mails it to
// the doctor's address. Unknown usernames return nil so the endpoint does
// not leak which usernames exist.
func (s *Service) ForgotPassword(ctx context.Context, username string) error {
	login, err := s.logins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up login: %w", err)
	}

	doctor, err := s.doctors.Get(ctx, login.DoctorID)
	if err != nil || doctor.Email == nil {
		return nil
	}

	token := uuid.New().String()
	if err := s.tokens.StoreResetToken(ctx, login.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emailSvc.SendPasswordReset(*doctor.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	loginID, err := s.tokens.ValidateResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.logins.UpdatePassword(ctx, loginID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.tokens.InvalidateResetToken(ctx, token)
}
