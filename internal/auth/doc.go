// Package auth provides the bearer-token gate for the chat archive API.
//
// # Credential Kinds
//
// Every request presents one bearer token, classified into exactly one kind:
//
//   - Static secret: The shared secret from configuration, compared in
//     constant time. Grants access with no provider round trip.
//   - Delegated token: A provider-issued token recognized by its prefix
//     (e.g. "gho_"). The validator asks the provider's userinfo endpoint who
//     the token belongs to, then checks that subject against the allow-list.
//   - Malformed: Anything else. Rejected without contacting the provider.
//
// Classification is mutually exclusive; a static secret that happens to start
// with the delegated prefix is still the static secret.
//
// # Rejection Taxonomy
//
// Validate returns one of three sentinel errors, each mapping to a distinct
// HTTP response in Middleware:
//
//   - ErrMalformedCredential: 401, the token fits no recognized shape
//   - ErrProviderRejected: 401, the provider would not vouch for the token
//   - ErrIdentityNotAllowed: 403, a real identity that is not on the allow-list
//
// Provider error detail is wrapped for server-side logs but never written to
// the response body.
//
// # Identity Propagation
//
// On success the middleware attaches an Identity to the request context;
// handlers read it back with FromContext for audit logging.
package auth
