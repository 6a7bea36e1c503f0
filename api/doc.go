// Package api is the HTTP client for the store-rating REST API.
//
// Every method maps onto one endpoint and returns the decoded body. Non-2xx
// responses become [*Error] carrying every message the server sent; a 401
// also matches [ErrUnauthorized] under errors.Is.
//
// # Architecture boundaries
//
// Credentials are not handled here. The *http.Client passed to [New] is
// expected to use transport.Transport, which supplies the bearer header.
//
// # What this package must NOT do
//
//   - Touch the session store or decide on logout.
//   - Validate input beyond what is needed to build a request; the server
//     owns validation.
package api
