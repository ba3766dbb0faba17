// Package yubiotp validates 44-character hardware-token one-time passwords
// against a cloud validation service using its signed HTTP query protocol.
//
// An OTP is rejected locally, with no network traffic, unless it is exactly
// 44 characters of the 16-symbol modhex alphabet. Valid candidates are sent
// to a pool of five redundant validation servers in randomized order, each
// with an independent short timeout. A response only counts when its echoed
// nonce matches the request and, when an API key is configured, its HMAC-SHA1
// signature verifies in constant time.
//
// Definitive answers (OK, REPLAYED_OTP, BAD_OTP and friends) stop the pool
// loop immediately; transport failures and backend errors advance to the next
// server, and only full pool exhaustion surfaces as ErrUnavailable.
//
// Callers should treat Verify as blocking and potentially slow (worst case
// one timeout per server) and keep it off latency-sensitive paths.
package yubiotp
