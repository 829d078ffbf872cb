// ABOUTME: Credential classification for the token gate
// ABOUTME: Sorts a presented credential into static, delegated, or malformed

package auth

import "crypto/subtle"

// CredentialKind is the closed set of credential shapes the gate accepts.
// Classification happens exactly once; downstream code dispatches on the
// kind instead of re-inspecting the string.
type CredentialKind int

const (
	// KindMalformed covers empty credentials and unrecognized shapes.
	KindMalformed CredentialKind = iota
	// KindStaticSecret is the pre-shared secret, matched byte-exact.
	KindStaticSecret
	// KindDelegated is a provider-issued token, recognized by its prefix.
	KindDelegated
)

func (k CredentialKind) String() string {
	switch k {
	case KindStaticSecret:
		return "static_secret"
	case KindDelegated:
		return "delegated"
	default:
		return "malformed"
	}
}

// Classify sorts a credential into exactly one kind. The static secret is
// checked first with a constant-time comparison; anything carrying the
// delegated prefix goes to the provider path; the rest is malformed.
func Classify(credential, staticSecret, delegatedPrefix string) CredentialKind {
	if credential == "" {
		return KindMalformed
	}
	if staticSecret != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(staticSecret)) == 1 {
		return KindStaticSecret
	}
	if delegatedPrefix != "" && len(credential) > len(delegatedPrefix) && credential[:len(delegatedPrefix)] == delegatedPrefix {
		return KindDelegated
	}
	return KindMalformed
}
