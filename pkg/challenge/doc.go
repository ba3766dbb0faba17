// Package challenge issues and consumes single-use verification challenges.
//
// A challenge is 32 cryptographically random bytes, URL-safe base64 without
// padding, bound to an owner id and a TTL. Consume removes the outstanding
// challenge and returns it exactly once; any later consume for the same owner
// fails with ErrNoChallenge. This backs WebAuthn ceremonies, where the
// assertion must echo the exact challenge that was issued for it.
//
// Two implementations are provided: a Redis-backed store for multi-instance
// deployments and an in-memory store for tests and single-process use.
package challenge
