// Package password holds the password rules shared by the client and the
// local mock API.
//
// # Policy
//
// [Policy] is checked by the client before a password change or signup
// leaves the machine: a minimum length and, for changes, a matching
// confirmation. The server still applies its own rules.
//
// # Hashing
//
// [Hasher] stores passwords for the mock API in PHC form:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # What this package must NOT do
//
//   - Send passwords anywhere; callers own transport.
//   - Log plaintext passwords or hashes.
package password
