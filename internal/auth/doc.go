// Package auth provides authentication for the Tanksense API.
//
// It implements:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Short-lived HS256 JWT bearer tokens (stateless, no revocation list)
//   - A SQLite-backed user credential store
//   - An access guard that resolves a bearer token to an active user
//
// Token validity is purely a function of signature and expiry. Every
// protected request passes through Guard.Authenticate, which validates
// the token and then looks the subject up in the credential store, so a
// deactivated account is locked out as soon as its flag is cleared even
// if its token has not yet expired.
package auth
