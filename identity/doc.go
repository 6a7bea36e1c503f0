// Package identity defines the signed-in principal as the client sees it: a
// subject, an email and one role from a closed set.
//
// # Roles
//
// The role set is closed ([RoleAdmin], [RoleUser], [RoleOwner]). Anything else
// is rejected by [ParseRole] so an [Identity] can never carry an unknown role.
// [RoleSet] is a small bitmask over those roles used for route requirements.
//
// # Architecture boundaries
//
// This package is pure data with no I/O. It is imported by token, session,
// gate and route.
//
// # What this package must NOT do
//
//   - Decode credential tokens (see package token).
//   - Make authorization decisions (see package gate).
//   - Import goRate or any sibling package.
package identity
