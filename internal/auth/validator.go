// ABOUTME: Token validation against the static secret and the identity provider
// ABOUTME: Keeps the three rejection reasons distinguishable for status mapping

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Validation errors. Handlers map the first two to 401 and the last to 403.
var (
	ErrMalformedCredential = errors.New("malformed or missing credential")
	ErrProviderRejected    = errors.New("credential rejected by identity provider")
	ErrIdentityNotAllowed  = errors.New("identity not on the allow list")
)

// IdentityProvider resolves a delegated token to the account it belongs to.
// The lookup is one blocking outbound call; no caching, no retries.
type IdentityProvider interface {
	Lookup(ctx context.Context, token string) (string, error)
}

// Identity describes an authorized caller.
type Identity struct {
	Kind    CredentialKind
	Subject string // provider account for delegated tokens, empty for the static secret
}

// Validator decides whether a presented credential authorizes a request.
type Validator struct {
	staticSecret    string
	delegatedPrefix string
	provider        IdentityProvider
	allowed         map[string]struct{}
	logger          *slog.Logger
}

// NewValidator creates a validator. allowedIdentities is the set of provider
// accounts permitted on the delegated path.
func NewValidator(staticSecret, delegatedPrefix string, provider IdentityProvider, allowedIdentities []string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[string]struct{}, len(allowedIdentities))
	for _, id := range allowedIdentities {
		allowed[id] = struct{}{}
	}

	return &Validator{
		staticSecret:    staticSecret,
		delegatedPrefix: delegatedPrefix,
		provider:        provider,
		allowed:         allowed,
		logger:          logger.With("component", "auth"),
	}
}

// Validate classifies the credential and runs the matching trust check.
// The static secret short-circuits; it stays valid even when the identity
// provider is unreachable.
func (v *Validator) Validate(ctx context.Context, credential string) (*Identity, error) {
	switch Classify(credential, v.staticSecret, v.delegatedPrefix) {
	case KindStaticSecret:
		return &Identity{Kind: KindStaticSecret}, nil

	case KindDelegated:
		return v.validateDelegated(ctx, credential)

	default:
		return nil, ErrMalformedCredential
	}
}

func (v *Validator) validateDelegated(ctx context.Context, token string) (*Identity, error) {
	if v.provider == nil {
		return nil, fmt.Errorf("%w: no identity provider configured", ErrProviderRejected)
	}

	subject, err := v.provider.Lookup(ctx, token)
	if err != nil {
		v.logger.Warn("identity provider rejected token", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProviderRejected, err)
	}

	if _, ok := v.allowed[subject]; !ok {
		v.logger.Warn("identity not allowed", "subject", subject)
		return nil, ErrIdentityNotAllowed
	}

	return &Identity{Kind: KindDelegated, Subject: subject}, nil
}
