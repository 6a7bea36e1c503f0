// Package token reads and issues the compact credential tokens handed out by
// the store-rating API at login.
//
// # Client-side decode
//
// [Decode] interprets only the payload segment of a three-part token and maps
// it onto an [identity.Identity]. It never verifies the signature: the client
// does not hold the server key, so a decoded identity is a routing hint and
// nothing more. The server stays the authority and rejects forged or expired
// tokens on every request.
//
// # Issuing
//
// [Issuer] signs and verifies tokens with the same claim layout. It backs the
// local mock API and tests; production tokens come from the real server.
//
// # What this package must NOT do
//
//   - Persist tokens (see package session).
//   - Treat a decoded payload as proof of authentication.
package token
