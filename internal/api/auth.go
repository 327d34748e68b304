package api

import (
	"encoding/base64"
	"net/http"
)

// Credentials authorize one request.
type Credentials interface {
	apply(r *http.Request)
}

// Bearer authorizes with an access token.
type Bearer string

func (b Bearer) apply(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+string(b))
}

// Basic authorizes with e-mail and password; only used to obtain a token.
type Basic struct {
	User     string
	Password string
}

func (b Basic) apply(r *http.Request) {
	hash := base64.StdEncoding.EncodeToString([]byte(b.User + ":" + b.Password))
	r.Header.Set("Authorization", "Basic "+hash)
}
