// Package profile derives the display identity shown by the UI shell by
// trying sources in strict precedence: remote profile record, synthesized
// fallback, guest placeholder. Resolution is best-effort and always ends in
// a renderable value.
package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
	"delicia/internal/session"
)

// Placeholder values shown when no remote profile is usable.
const (
	FallbackName  = "Usuario"
	GuestName     = "Invitado"
	FallbackEmail = "usuario@ejemplo.com"
	GuestEmail    = "Inicia sesión para guardar tus pedidos"
	ErrorEmail    = "Error al cargar perfil"
)

// Guest is the profile rendered when nobody is signed in.
func Guest() domain.Profile {
	return domain.Profile{FullName: GuestName, Email: GuestEmail}
}

type authState interface {
	UserID() string
	UserEmail() string
}

type profileClient interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

type Resolver struct {
	auth   authState
	store  session.Store
	client profileClient
	log    logrus.FieldLogger

	mu      sync.Mutex
	nextGen uint64
	curGen  uint64
	current domain.Profile
}

func NewResolver(auth authState, store session.Store, client profileClient, logger logrus.FieldLogger) *Resolver {
	return &Resolver{
		auth:    auth,
		store:   store,
		client:  client,
		log:     logger,
		current: Guest(),
	}
}

// Current returns the most recently resolved profile, the guest placeholder
// before the first resolution completes.
func (r *Resolver) Current() domain.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Resolve recomputes the profile and publishes it. Concurrent calls are
// allowed; each carries a generation number and a stale resolution never
// overwrites a newer one. Resolve never returns an error: every failure path
// collapses to a placeholder branch.
func (r *Resolver) Resolve(ctx context.Context) domain.Profile {
	r.mu.Lock()
	r.nextGen++
	gen := r.nextGen
	r.mu.Unlock()

	resolved := r.compute(ctx)

	r.mu.Lock()
	if gen > r.curGen {
		r.curGen = gen
		r.current = resolved
	}
	r.mu.Unlock()
	return resolved
}

func (r *Resolver) compute(ctx context.Context) domain.Profile {
	userID := r.auth.UserID()
	if userID == "" {
		stored, err := r.store.Get(session.KeyUserID)
		if err != nil {
			r.log.Debugf("profile: recover user id from storage: %v", err)
		} else {
			userID = stored
		}
	}

	authEmail := r.auth.UserEmail()

	if userID == "" || uuid.Validate(userID) != nil {
		guest := Guest()
		if authEmail != "" {
			guest.Email = authEmail
		}
		return guest
	}

	remote, err := r.client.GetProfile(ctx, userID)
	if err != nil {
		r.log.Warnf("profile: lookup %s failed: %v", userID, err)
		return domain.Profile{FullName: FallbackName, Email: ErrorEmail}
	}
	if remote == nil {
		// Valid id, profile not provisioned yet.
		fallback := domain.Profile{FullName: FallbackName, Email: FallbackEmail}
		if authEmail != "" {
			fallback.Email = authEmail
		}
		return fallback
	}

	resolved := *remote
	if resolved.Email == "" && authEmail != "" {
		resolved.Email = authEmail
	}
	r.log.Debugf("profile: resolved %s (%s)", resolved.FullName, resolved.Email)
	return resolved
}
