package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

const (
	profileCacheTTL     = 5 * time.Minute
	profileCacheCleanup = 10 * time.Minute
)

// Terminator ends a session. Satisfied by the auth service.
type Terminator interface {
	SignOut(ctx context.Context, session *model.Session) error
}

// AdminSource looks up admin rows. Satisfied by repository.AdminRepository.
type AdminSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
}

// LoginSource looks up doctor login rows. Satisfied by
// repository.DoctorLoginRepository.
type LoginSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.DoctorLogin, error)
}

// ProfileSource loads doctor display profiles. Satisfied by
// repository.DoctorRepository.
type ProfileSource interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
}

// Resolver maps an authenticated session to its application role. A session
// identity is an admin if the admin table has its row, a doctor if the
// doktor_giris table has it, and nothing otherwise, in which case the
// session is forcibly terminated. A lookup that fails for transient reasons
// (connectivity, timeouts) resolves to an error instead, so a flaky database
// never signs anyone out.
type Resolver struct {
	admins     AdminSource
	logins     LoginSource
	doctors    ProfileSource
	terminator Terminator
	profiles   *gocache.Cache
	logger     *logger.Logger

	mu      sync.Mutex
	gen     uint64
	current model.RoleOutcome
}

func NewResolver(
	admins AdminSource,
	logins LoginSource,
	doctors ProfileSource,
	terminator Terminator,
	logger *logger.Logger,
) *Resolver {
	return &Resolver{
		admins:     admins,
		logins:     logins,
		doctors:    doctors,
		terminator: terminator,
		profiles:   gocache.New(profileCacheTTL, profileCacheCleanup),
		logger:     logger,
		current:    model.RoleOutcome{Role: model.RoleNone},
	}
}

// Resolve determines the role for a live session. The admin table wins when
// an identity appears in both tables. A RoleNone outcome with a nil error
// means the identity matched neither table and the session was terminated.
func (r *Resolver) Resolve(ctx context.Context, session *model.Session) (model.RoleOutcome, error) {
	_, err := r.admins.GetByID(ctx, session.IdentityID)
	if err == nil {
		return model.RoleOutcome{Role: model.RoleAdmin}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.RoleOutcome{}, fmt.Errorf("failed to resolve admin role: %w", err)
	}

	login, err := r.logins.GetByID(ctx, session.IdentityID)
	if err == nil {
		outcome := model.RoleOutcome{
			Role:     model.RoleDoctor,
			DoctorID: &login.DoctorID,
		}
		outcome.Profile = r.lookupProfile(ctx, login.DoctorID)
		return outcome, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.RoleOutcome{}, fmt.Errorf("failed to resolve doctor role: %w", err)
	}

	// Neither table knows the identity: the backing row was deleted while
	// the session was live. End it rather than leave a roleless session.
	if err := r.terminator.SignOut(ctx, session); err != nil {
		r.logger.Error(err, "failed to terminate orphaned session", "session_id", session.ID.String())
	}
	return model.RoleOutcome{Role: model.RoleNone}, nil
}

// lookupProfile fetches the doctor display profile, serving repeats from
// cache. Profile data only decorates the outcome, so failures degrade to a
// nil profile instead of failing resolution.
func (r *Resolver) lookupProfile(ctx context.Context, doctorID uuid.UUID) *model.DoctorProfile {
	key := doctorID.String()
	if cached, ok := r.profiles.Get(key); ok {
		return cached.(*model.DoctorProfile)
	}

	profile, err := r.doctors.GetProfile(ctx, doctorID)
	if err != nil {
		r.logger.Warn("failed to load doctor profile", "doctor_id", key, "error", err.Error())
		return nil
	}
	r.profiles.Set(key, profile, gocache.DefaultExpiration)
	return profile
}

// Watch consumes session events and keeps Current up to date. A nil
// Session signals the session ended and resets the role immediately with no
// lookups. Resolutions run concurrently and the newest event wins: a slow
// lookup for an older session can never overwrite a fresher outcome.
func (r *Resolver) Watch(ctx context.Context, events <-chan model.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		}
	}
}

func (r *Resolver) handleEvent(ctx context.Context, event model.SessionEvent) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	if event.Session == nil {
		r.store(gen, model.RoleOutcome{Role: model.RoleNone})
		return
	}

	session := event.Session
	go func() {
		outcome, err := r.Resolve(ctx, session)
		if err != nil {
			r.logger.Error(err, "failed to resolve session role", "session_id", session.ID.String())
			return
		}
		r.store(gen, outcome)
	}()
}

func (r *Resolver) store(gen uint64, outcome model.RoleOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen < r.gen {
		return
	}
	r.current = outcome
}

// Current returns the most recently resolved outcome.
func (r *Resolver) Current() model.RoleOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// DefaultRoute names the landing screen for a role.
func DefaultRoute(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "dashboard"
	case model.RoleDoctor:
		return "appointments"
	default:
		return "login"
	}
}
