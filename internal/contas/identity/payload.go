package identity

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// maxIdentityBody bounds how much of a request body the resolver will buffer.
const maxIdentityBody = 1 << 20

// PayloadProvider reads the user id the client placed in the request itself:
// the "userId" field of a JSON body for mutating requests, or the "userId"
// query parameter otherwise. The body is buffered and restored so downstream
// handlers can decode it again.
type PayloadProvider struct{}

func NewPayloadProvider() *PayloadProvider {
	return &PayloadProvider{}
}

func (p *PayloadProvider) Resolve(r *http.Request) (int64, error) {
	if id, ok, err := fromQuery(r); err != nil || ok {
		return id, err
	}

	if r.Body == nil || r.Body == http.NoBody {
		return 0, ErrNoIdentity
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxIdentityBody))
	if err != nil {
		return 0, ErrMalformed
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		UserID json.Number `json:"userId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, ErrNoIdentity
	}
	if body.UserID == "" {
		return 0, ErrNoIdentity
	}

	id, err := strconv.ParseInt(body.UserID.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformed
	}
	return id, nil
}

func fromQuery(r *http.Request) (int64, bool, error) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, ErrMalformed
	}
	return id, true, nil
}
