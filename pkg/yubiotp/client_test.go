package yubiotp_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pbxkit/mfa/pkg/yubiotp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOTP = "ccccccccccccbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

func TestIsValidOTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		otp  string
		want bool
	}{
		{"valid", testOTP, true},
		{"too short", testOTP[:43], false},
		{"too long", testOTP + "c", false},
		{"empty", "", false},
		{"character outside alphabet", strings.Replace(testOTP, "b", "a", 1), false},
		{"uppercase rejected", strings.ToUpper(testOTP), false},
		{"digit rejected", strings.Replace(testOTP, "b", "1", 1), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, yubiotp.IsValidOTP(tt.otp))
		})
	}
}

func TestPublicID(t *testing.T) {
	t.Parallel()

	id, err := yubiotp.PublicID(testOTP)
	require.NoError(t, err)
	assert.Equal(t, "cccccccccccc", id)
	assert.Len(t, id, yubiotp.PublicIDLength)

	_, err = yubiotp.PublicID("not-an-otp")
	assert.ErrorIs(t, err, yubiotp.ErrInvalidOTPFormat)
}

func TestNewRequiresClientID(t *testing.T) {
	t.Parallel()

	_, err := yubiotp.New(yubiotp.Config{})
	assert.ErrorIs(t, err, yubiotp.ErrMissingClientID)

	_, err = yubiotp.New(yubiotp.Config{ClientID: "42", APIKey: "not-base64!"})
	assert.ErrorIs(t, err, yubiotp.ErrInvalidAPIKey)
}

func TestVerifyRejectsMalformedWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		return "status=OK\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", server.URL)

	for _, otp := range []string{"", "short", strings.Replace(testOTP, "c", "a", 1)} {
		err := client.Verify(context.Background(), otp)
		assert.ErrorIs(t, err, yubiotp.ErrInvalidOTPFormat)
	}
	assert.Zero(t, calls.Load(), "malformed OTPs must never reach the network")
}

func TestVerifySuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		return "status=OK\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", server.URL)
	require.NoError(t, client.Verify(context.Background(), testOTP))
	assert.Equal(t, int64(1), calls.Load())
}

func TestVerifyNonceMismatchRejectedEvenWhenOK(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		return "status=OK\notp=" + q["otp"] + "\nnonce=forged\n"
	})

	client := newTestClient(t, "", server.URL, server.URL)
	err := client.Verify(context.Background(), testOTP)
	assert.ErrorIs(t, err, yubiotp.ErrUnavailable)
	assert.Equal(t, int64(2), calls.Load(), "every pool server should be tried")
}

func TestVerifyOTPMismatch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		other := strings.Replace(q["otp"], "b", "d", 1)
		return "status=OK\notp=" + other + "\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", server.URL)
	err := client.Verify(context.Background(), testOTP)
	assert.ErrorIs(t, err, yubiotp.ErrOTPMismatch)
}

func TestVerifyReplayedOTPStopsPool(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		return "status=REPLAYED_OTP\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", server.URL, server.URL, server.URL)
	err := client.Verify(context.Background(), testOTP)
	assert.ErrorIs(t, err, yubiotp.ErrReplayedOTP)
	assert.Equal(t, int64(1), calls.Load(), "replay is definitive, no failover")
}

func TestVerifyDefinitiveRejection(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"BAD_OTP", "NO_SUCH_CLIENT", "BAD_SIGNATURE", "MISSING_PARAMETER", "OPERATION_NOT_ALLOWED"} {
		status := status
		t.Run(status, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int64
			server := respondWith(t, &calls, func(q map[string]string) string {
				return "status=" + status + "\nnonce=" + q["nonce"] + "\n"
			})

			client := newTestClient(t, "", server.URL, server.URL)
			err := client.Verify(context.Background(), testOTP)
			assert.ErrorIs(t, err, yubiotp.ErrRejected)
			assert.Equal(t, int64(1), calls.Load())
		})
	}
}

func TestVerifyFailsOverToHealthyServer(t *testing.T) {
	t.Parallel()

	var downCalls, upCalls atomic.Int64
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downCalls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(down.Close)

	up := respondWith(t, &upCalls, func(q map[string]string) string {
		return "status=OK\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", down.URL, down.URL, up.URL)
	require.NoError(t, client.Verify(context.Background(), testOTP))
	assert.Equal(t, int64(1), upCalls.Load())
}

func TestVerifyBackendErrorAdvancesPool(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := respondWith(t, &calls, func(q map[string]string) string {
		return "status=BACKEND_ERROR\nnonce=" + q["nonce"] + "\n"
	})

	client := newTestClient(t, "", server.URL, server.URL, server.URL)
	err := client.Verify(context.Background(), testOTP)
	assert.ErrorIs(t, err, yubiotp.ErrUnavailable)
	assert.Equal(t, int64(3), calls.Load())
}

func TestVerifyPoolExhausted(t *testing.T) {
	t.Parallel()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	client := newTestClient(t, "", down.URL, down.URL)
	err := client.Verify(context.Background(), testOTP)
	assert.ErrorIs(t, err, yubiotp.ErrUnavailable)
}

func TestVerifySignedResponses(t *testing.T) {
	t.Parallel()

	apiKey := []byte("0123456789abcdef")
	encodedKey := base64.StdEncoding.EncodeToString(apiKey)

	t.Run("valid signature accepted", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := respondWith(t, &calls, func(q map[string]string) string {
			fields := map[string]string{
				"status": "OK",
				"otp":    q["otp"],
				"nonce":  q["nonce"],
			}
			return signedBody(apiKey, fields)
		})

		client := newTestClient(t, encodedKey, server.URL)
		require.NoError(t, client.Verify(context.Background(), testOTP))
	})

	t.Run("bad signature disqualifies server", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := respondWith(t, &calls, func(q map[string]string) string {
			return "status=OK\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\nh=AAAA\n"
		})

		client := newTestClient(t, encodedKey, server.URL, server.URL)
		err := client.Verify(context.Background(), testOTP)
		assert.ErrorIs(t, err, yubiotp.ErrUnavailable)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("missing signature disqualifies server", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := respondWith(t, &calls, func(q map[string]string) string {
			return "status=OK\notp=" + q["otp"] + "\nnonce=" + q["nonce"] + "\n"
		})

		client := newTestClient(t, encodedKey, server.URL)
		err := client.Verify(context.Background(), testOTP)
		assert.ErrorIs(t, err, yubiotp.ErrUnavailable)
	})
}

func newTestClient(t *testing.T, apiKey string, servers ...string) *yubiotp.Client {
	t.Helper()

	client, err := yubiotp.New(yubiotp.Config{
		ClientID: "42",
		APIKey:   apiKey,
		Servers:  servers,
	})
	require.NoError(t, err)
	return client
}

// respondWith builds a validation endpoint whose body is derived from the
// request query parameters.
func respondWith(t *testing.T, calls *atomic.Int64, body func(q map[string]string) string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		q := make(map[string]string)
		for k, v := range r.URL.Query() {
			q[k] = v[0]
		}

		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, body(q))
	}))
	t.Cleanup(server.Close)
	return server
}

// signedBody renders fields as key=value lines with the protocol's HMAC-SHA1
// signature attached.
func signedBody(key []byte, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(strings.Join(pairs, "&")))
	h := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k + "=" + fields[k] + "\n")
	}
	b.WriteString("h=" + h + "\n")
	return b.String()
}
