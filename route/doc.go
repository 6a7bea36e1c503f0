// Package route maps gate decisions onto destinations.
//
// A [Table] declares every destination the client can open along with its
// required roles. Tables are populated once, then frozen with
// [Table.Freeze]; [Default] returns the frozen table of the store-rating
// client.
//
// # Architecture boundaries
//
// Resolution is synchronous and reads only the [session.State] it is given.
// Decisions come from package gate; this package only picks the path that
// follows from them.
//
// # What this package must NOT do
//
//   - Fetch or render destination data.
//   - Mutate the session (forced logout belongs to the facade).
package route
