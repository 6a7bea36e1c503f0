// Package goRate is the client SDK of the store-rating platform: it signs
// users in, keeps their session across restarts, routes them to the view of
// their role and calls the REST API for users, stores and ratings.
//
// A [Client] is assembled with [New] and [Builder.Build]. It owns one
// session.Store, the outgoing transport bound to it, and the authorization
// gate and route table that read from it. Client methods are safe to call
// from multiple goroutines; concurrent Login and Logout calls are not
// ordered against each other.
//
// # Architecture boundaries
//
// goRate is the public surface. Token decoding lives in token, session
// state in session, decisions in gate and route, HTTP plumbing in transport
// and api. Audit dispatch and metric storage live under internal/.
//
// The identity the client derives from a token is never verified. It drives
// routing and nothing else; the server checks the credential on every call.
//
// # What this package must NOT do
//
//   - Keep session state in package-level variables.
//   - Log or audit credential tokens or passwords.
//   - Retry a call after the server rejected the session.
package goRate
