// Package mockapi is an in-memory implementation of the store-rating REST
// API. It signs real bearer tokens and hashes passwords, so the client can be
// exercised end to end without the production server.
//
// It is meant for local development and tests; state lives in process
// memory and is lost on exit.
package mockapi
