package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nordvik/sagapay/internal/config"
	"github.com/nordvik/sagapay/internal/domain"
)

// InternalSecretHeader authenticates service-to-service calls on the
// profile and credential endpoints.
const InternalSecretHeader = "X-Internal-Secret"

// HTTPProfileClient implements ProfileGateway against the profile service's
// HTTP contract.
type HTTPProfileClient struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

// Ensure HTTPProfileClient implements ProfileGateway
var _ ProfileGateway = (*HTTPProfileClient)(nil)

// NewHTTPProfileClient creates a profile client from the registration
// configuration. Every call carries the internal secret and a bounded
// timeout.
func NewHTTPProfileClient(cfg config.RegistrationConfig) *HTTPProfileClient {
	return &HTTPProfileClient{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    cfg.ProfileServiceURL,
		secret:     cfg.InternalSecret,
	}
}

type createProfileRequest struct {
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Birthdate time.Time `json:"birthdate"`
	Email     string    `json:"email"`
}

// CreateProfile implements ProfileGateway.CreateProfile.
func (c *HTTPProfileClient) CreateProfile(
	ctx context.Context,
	name, surname string,
	birthdate time.Time,
	email string,
) (*domain.Profile, error) {
	body, err := json.Marshal(createProfileRequest{
		Name:      name,
		Surname:   surname,
		Birthdate: birthdate,
		Email:     email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profiles", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(InternalSecretHeader, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile service unreachable: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: profile email", ErrAlreadyExists)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("profile service returned status %d", resp.StatusCode)
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	return &profile, nil
}

// DeleteProfile implements ProfileGateway.DeleteProfile.
func (c *HTTPProfileClient) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/profiles/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set(InternalSecretHeader, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile service unreachable: %w", err)
	}
	defer drainAndClose(resp.Body)

	// 404 counts as success: the profile is gone either way.
	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return fmt.Errorf("profile service returned status %d", resp.StatusCode)
	}

	return nil
}

// HTTPCredentialClient implements CredentialGateway against the identity
// service's HTTP contract.
type HTTPCredentialClient struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

// Ensure HTTPCredentialClient implements CredentialGateway
var _ CredentialGateway = (*HTTPCredentialClient)(nil)

// NewHTTPCredentialClient creates a credential client from the registration
// configuration.
func NewHTTPCredentialClient(cfg config.RegistrationConfig) *HTTPCredentialClient {
	return &HTTPCredentialClient{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    cfg.CredentialServiceURL,
		secret:     cfg.InternalSecret,
	}
}

type createCredentialRequest struct {
	Handle string `json:"handle"`
	Secret string `json:"secret"`
}

// CreateCredential implements CredentialGateway.CreateCredential.
func (c *HTTPCredentialClient) CreateCredential(ctx context.Context, handle, secret string) error {
	body, err := json.Marshal(createCredentialRequest{Handle: handle, Secret: secret})
	if err != nil {
		return fmt.Errorf("failed to marshal credential request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credentials", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build credential request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(InternalSecretHeader, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity service unreachable: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: credential handle", ErrAlreadyExists)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	return nil
}

// drainAndClose consumes the rest of a response body so the underlying
// connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
