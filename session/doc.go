// Package session provides the durable client-side storage behind the
// brandkit session store: the Go analog of the browser cookies the dashboard
// persists its login state into.
//
// A [Backend] stores named records ("token", "admin", "brand") with individual
// expirations. Three implementations ship: [MemoryBackend] for tests and
// ephemeral processes, [FileBackend] for a single-user jar file, and
// [RedisBackend] for sessions shared across processes. Absence of a record is
// a valid, expected state (logged out) and is reported as [ErrNotFound].
package session
