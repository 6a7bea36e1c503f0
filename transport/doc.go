// Package transport is the outgoing-request layer of the client.
//
// [Transport] is an [http.RoundTripper] that applies a mutable set of
// default [Headers], stamps every request with an X-Request-ID and reports
// authentication rejections (401 on a request that carried credentials) to
// a hook. [Bind] keeps the Authorization default in step with a session
// store: armed on sign-in, removed on sign-out.
//
// # Architecture boundaries
//
// The transport never logs a user out itself. It reports the rejection and
// the facade decides what a forced logout means.
//
// # What this package must NOT do
//
//   - Decode or persist credential tokens.
//   - Retry rejected requests.
//   - Log header values.
package transport
