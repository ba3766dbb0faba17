package yubiotp

import (
	"bufio"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Client validates hardware-token OTPs against a pool of redundant cloud
// validation servers. Stateless aside from configuration; safe for
// concurrent use.
type Client struct {
	clientID  string
	apiKey    []byte
	servers   []string
	timeout   time.Duration
	syncLevel string
	client    *http.Client
	log       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, mainly for tests and
// custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the structured logger. Discards by default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a validation client. An empty APIKey disables request and
// response signing; the nonce echo check always applies.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}

	var apiKey []byte
	if cfg.APIKey != "" {
		var err error
		apiKey, err = base64.StdEncoding.DecodeString(cfg.APIKey)
		if err != nil {
			return nil, errors.Join(ErrInvalidAPIKey, err)
		}
	}

	servers := cfg.Servers
	if len(servers) == 0 {
		servers = DefaultServers
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	syncLevel := cfg.SyncLevel
	if syncLevel == "" {
		syncLevel = "50"
	}

	c := &Client{
		clientID:  cfg.ClientID,
		apiKey:    apiKey,
		servers:   servers,
		timeout:   timeout,
		syncLevel: syncLevel,
		client:    &http.Client{},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Verify checks an OTP against the validation pool. It returns nil on a
// definitive success, a definitive rejection error otherwise, and
// ErrUnavailable only after every server failed to produce a definitive
// answer. Per-server failures never abort the pool loop.
func (c *Client) Verify(ctx context.Context, otp string) error {
	if !IsValidOTP(otp) {
		return ErrInvalidOTPFormat
	}

	rawNonce := make([]byte, 16)
	if _, err := rand.Read(rawNonce); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	nonce := base64.RawURLEncoding.EncodeToString(rawNonce)

	params := map[string]string{
		"id":        c.clientID,
		"otp":       otp,
		"nonce":     nonce,
		"timestamp": "1",
		"sl":        c.syncLevel,
	}
	if len(c.apiKey) > 0 {
		params["h"] = sign(c.apiKey, params)
	}

	// Randomized order spreads load across the pool and avoids hammering a
	// single struggling server from every caller.
	servers := make([]string, len(c.servers))
	copy(servers, c.servers)
	mrand.Shuffle(len(servers), func(i, j int) {
		servers[i], servers[j] = servers[j], servers[i]
	})

	var lastErr error
	for _, server := range servers {
		fields, err := c.queryServer(ctx, server, params)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Join(ErrUnavailable, ctx.Err())
			}
			c.log.DebugContext(ctx, "validation server unreachable", "server", server, "error", err)
			lastErr = err
			continue
		}

		// The echoed nonce binds the response to this request; a mismatch
		// means replay or tampering and disqualifies this server's answer.
		if fields["nonce"] != nonce {
			c.log.WarnContext(ctx, "validation response nonce mismatch", "server", server)
			lastErr = fmt.Errorf("nonce mismatch from %s", server)
			continue
		}

		if len(c.apiKey) > 0 && !validSignature(c.apiKey, fields) {
			c.log.WarnContext(ctx, "validation response signature mismatch", "server", server)
			lastErr = fmt.Errorf("response signature mismatch from %s", server)
			continue
		}

		switch status := fields["status"]; status {
		case "OK":
			if fields["otp"] != otp {
				return ErrOTPMismatch
			}
			return nil
		case "REPLAYED_OTP":
			return ErrReplayedOTP
		case "BAD_OTP", "NO_SUCH_CLIENT", "BAD_SIGNATURE", "MISSING_PARAMETER", "OPERATION_NOT_ALLOWED":
			return fmt.Errorf("%w: %s", ErrRejected, status)
		default:
			// BACKEND_ERROR, NOT_ENOUGH_ANSWERS, and anything unknown are
			// transient backend problems; the next server may still answer.
			c.log.DebugContext(ctx, "transient validation status", "server", server, "status", status)
			lastErr = fmt.Errorf("status %s from %s", status, server)
		}
	}

	return errors.Join(ErrUnavailable, lastErr)
}

// queryServer performs one GET against a single validation endpoint with its
// own timeout and parses the key=value response body.
func (c *Client) queryServer(ctx context.Context, server string, params map[string]string) (map[string]string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, server+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validation server returned status %d", resp.StatusCode)
	}

	return parseResponse(resp.Body)
}

// parseResponse reads newline-delimited key=value pairs.
func parseResponse(body io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(io.LimitReader(body, 64*1024))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// sign computes the protocol signature: parameters sorted alphabetically by
// key, joined as k=v&k=v, HMAC-SHA1 under the API key, base64-encoded.
// The h parameter itself is always excluded.
func sign(key []byte, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "h" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(strings.Join(pairs, "&")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// validSignature recomputes the signature over the response fields and
// compares it to the reported h in constant time.
func validSignature(key []byte, fields map[string]string) bool {
	reported, ok := fields["h"]
	if !ok {
		return false
	}
	expected := sign(key, fields)
	return hmac.Equal([]byte(expected), []byte(reported))
}
