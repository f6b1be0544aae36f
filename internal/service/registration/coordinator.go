package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/domain"
)

// Compensation retry policy: 3 attempts with exponential backoff from a
// 200ms base.
const (
	compensationRetries = 2 // retries after the first attempt
	compensationBase    = 200 * time.Millisecond
)

// Request is the transient registration input. It is never persisted
// directly; its fields feed the profile and credential creation steps.
type Request struct {
	Name      string
	Surname   string
	Birthdate time.Time
	Email     string
	Password  string
	Cards     []Card
}

// Card is an optional payment card captured at registration. Cards are
// transient input only: the profile service contract does not take them,
// and nothing persists them.
type Card struct {
	Number      string
	ExpiryMonth int
	ExpiryYear  int
}

// ProfileGateway is the coordinator's view of the profile service.
type ProfileGateway interface {
	// CreateProfile creates a profile and returns it with its generated ID.
	// Returns ErrAlreadyExists if the email is taken.
	CreateProfile(ctx context.Context, name, surname string, birthdate time.Time, email string) (*domain.Profile, error)

	// DeleteProfile removes a profile by ID. This is the compensation call.
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// CredentialGateway is the coordinator's view of the identity service.
type CredentialGateway interface {
	// CreateCredential creates a credential for the handle.
	// Returns ErrAlreadyExists if the handle is taken.
	CreateCredential(ctx context.Context, handle, secret string) error
}

// Coordinator sequences the registration saga. Both remote calls run
// sequentially on the caller's goroutine; compensation is best-effort and
// its failure is logged, never surfaced.
type Coordinator struct {
	profiles    ProfileGateway
	credentials CredentialGateway
	logger      *slog.Logger
}

// NewCoordinator creates a Coordinator with the given collaborator gateways.
func NewCoordinator(profiles ProfileGateway, credentials CredentialGateway, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		profiles:    profiles,
		credentials: credentials,
		logger:      logger.With("component", "registration_coordinator"),
	}
}

// Register runs the saga: profile first, then credential keyed by the email.
// If credential creation fails for any reason the just-created profile is
// deleted before the error is returned. On success the committed profile is
// returned.
//
// The returned error is always ErrAlreadyExists or ErrTransactionFailed;
// callers never see the underlying transport error directly.
func (c *Coordinator) Register(ctx context.Context, req Request) (*domain.Profile, error) {
	profile, err := c.profiles.CreateProfile(ctx, req.Name, req.Surname, req.Birthdate, req.Email)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email taken", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: profile creation: %v", ErrTransactionFailed, err)
	}

	log := c.logger.With("profile_id", profile.ID, "email", profile.Email)

	if err := c.credentials.CreateCredential(ctx, req.Email, req.Password); err != nil {
		c.compensate(ctx, log, profile.ID)

		if errors.Is(err, ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: handle taken", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: credential creation: %v", ErrTransactionFailed, err)
	}

	log.Info("registration completed")
	return profile, nil
}

// compensate deletes the profile created earlier in the same attempt,
// retrying with bounded exponential backoff. A profile that survives all
// attempts is logged as an orphan; the caller still gets the original
// failure, not this one.
func (c *Coordinator) compensate(ctx context.Context, log *slog.Logger, profileID uuid.UUID) {
	log.Warn("credential creation failed, compensating profile")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = compensationBase

	operation := func() error {
		return c.profiles.DeleteProfile(ctx, profileID)
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, compensationRetries), ctx))
	if err != nil {
		log.Error("compensation failed, profile orphaned", "error", err)
		return
	}

	log.Info("profile compensation completed")
}
