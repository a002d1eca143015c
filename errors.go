package access

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeRoleNotFound       = "ROLE_NOT_FOUND"
	TextCodeAmbiguousRole      = "AMBIGUOUS_ROLE"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeAlreadyRegistered  = "ALREADY_REGISTERED"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeProvisioningFailed = "PROVISIONING_FAILED"
)

// ErrRoleNotFound is returned when an identity has no role-assignment row.
// Callers treat it as "no role", not as a fatal error.
var ErrRoleNotFound = errors.New("no role assigned to identity", errors.CategoryNotFound).
	WithTextCode(TextCodeRoleNotFound).
	WithCode(errors.CodeNotFound)

// ErrAmbiguousRole is returned in strict resolution mode when an identity
// has multiple role rows, a store invariant violation.
var ErrAmbiguousRole = errors.New("multiple roles assigned to identity", errors.CategoryConflict).
	WithTextCode(TextCodeAmbiguousRole).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is returned when a password sign-in is rejected.
var ErrInvalidCredentials = errors.New("invalid login credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAlreadyRegistered is returned when a sign-up hits an existing identity.
// Provisioning treats it as success; explicit user sign-up surfaces it.
var ErrAlreadyRegistered = errors.New("user already registered", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyRegistered).
	WithCode(errors.CodeConflict)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// IsAlreadyRegisteredError reports whether err belongs to the duplicate
// registration class, structured or not.
func IsAlreadyRegisteredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeAlreadyRegistered {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "duplicate key")
}

// IsInvalidCredentialsError reports whether err is a rejected sign-in.
func IsInvalidCredentialsError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeInvalidCredentials {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "invalid login credentials")
}

// IsRoleNotFoundError reports whether err means the identity has no role row.
func IsRoleNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeRoleNotFound {
		return true
	}

	return false
}

// NewProvisioningError wraps a demo-account bootstrap failure so operators
// can tell "accounts already exist" apart from "provisioning is broken".
func NewProvisioningError(err error, email string) *errors.Error {
	return errors.Wrap(err, errors.CategoryOperation, "demo account provisioning failed").
		WithTextCode(TextCodeProvisioningFailed).
		WithMetadata(map[string]any{
			"email": email,
		})
}

// IsProvisioningError reports whether err came from demo provisioning.
func IsProvisioningError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeProvisioningFailed {
		return true
	}

	return false
}
