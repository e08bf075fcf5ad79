package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
)

// AuthConfig configures JWT authentication. Tokens must be HMAC signed with
// JWTSecret and carry a name or email claim.
type AuthConfig struct {
	Enabled   bool
	JWTSecret string
	Issuer    string // checked against "iss" when set
	Audience  string // must appear in "aud" when set

	NameClaim  string // default "name"
	EmailClaim string // default "email"
}

// AuthResponse is the result payload of a successful AUTH.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

var errAuthRequired = errors.New("authentication required")

// Verify checks token and returns the identity it names together with its
// expiry, which is zero for tokens without "exp".
func (c *AuthConfig) Verify(token string) (core.Identity, time.Time, error) {
	if c == nil || c.JWTSecret == "" {
		return core.Identity{}, time.Time{}, errors.New("authentication not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if c.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.Issuer))
	}
	if c.Audience != "" {
		opts = append(opts, jwt.WithAudience(c.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(c.JWTSecret), nil
	})
	if err != nil {
		return core.Identity{}, time.Time{}, fmt.Errorf("invalid token: %w", err)
	}

	nameClaim, emailClaim := c.NameClaim, c.EmailClaim
	if nameClaim == "" {
		nameClaim = "name"
	}
	if emailClaim == "" {
		emailClaim = "email"
	}
	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return core.Identity{}, time.Time{}, fmt.Errorf("token has neither %q nor %q", nameClaim, emailClaim)
	}

	var expires time.Time
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		expires = exp.Time
	}
	return core.Identity{Name: name, Email: email}, expires, nil
}

// authToken extracts the token of an "AUTH JWT <token>" line.
func authToken(line string) (string, error) {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0 || !strings.EqualFold(fields[0], "AUTH"):
		return "", errors.New("not an AUTH command")
	case len(fields) != 3:
		return "", errors.New("usage: AUTH JWT <token>")
	case !strings.EqualFold(fields[1], "JWT"):
		return "", fmt.Errorf("unsupported auth type: %s", fields[1])
	}
	return fields[2], nil
}

// peer is the authentication state of one connection.
type peer struct {
	identity *core.Identity
	expires  time.Time
}

// check returns nil once the peer holds a token that has not expired.
func (p *peer) check() error {
	if p.identity == nil {
		return errAuthRequired
	}
	if !p.expires.IsZero() && time.Now().After(p.expires) {
		return fmt.Errorf("%w: token expired", errAuthRequired)
	}
	return nil
}

func authFailure(err error) db.Response {
	return db.Response{Success: false, Type: "auth", Error: err.Error()}
}

// authenticate handles an AUTH line. A failed attempt leaves p unchanged.
func (s *Server) authenticate(line string, p *peer) db.Response {
	token, err := authToken(line)
	if err != nil {
		return authFailure(err)
	}
	identity, expires, err := s.authConfig.Verify(token)
	if err != nil {
		return authFailure(err)
	}
	p.identity, p.expires = &identity, expires

	payload := AuthResponse{Authenticated: true, Identity: identity.String()}
	if !expires.IsZero() {
		payload.ExpiresIn = int(time.Until(expires).Seconds())
	}
	data, _ := json.Marshal(payload)
	return db.Response{Success: true, Type: "auth", Result: data}
}
