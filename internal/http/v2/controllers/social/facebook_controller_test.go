package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/social"
)

type stubService struct {
	cred  *svc.AccessCredential
	err   error
	calls []string
}

func (s *stubService) Perform(ctx context.Context, clientToken string) (*svc.AccessCredential, error) {
	s.calls = append(s.calls, clientToken)
	return s.cred, s.err
}

func post(t *testing.T, c *FacebookController, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v2/auth/social/facebook", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	c.Login(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogin_Success(t *testing.T) {
	s := &stubService{cred: &svc.AccessCredential{Token: "signed.jwt.token"}}

	rec := post(t, NewFacebookController(s), "application/json", `{"token":" fb-token "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "signed.jwt.token", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.EqualValues(t, 1800, body["expires_in"])
	assert.Equal(t, []string{"fb-token"}, s.calls)
}

func TestLogin_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"authentication", svc.ErrAuthentication, http.StatusUnauthorized, "AUTHENTICATION_FAILED"},
		{"account store", fmt.Errorf("%w: load: %w", svc.ErrAccountUnavailable, fmt.Errorf("dial tcp 10.0.0.9")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"token issue", fmt.Errorf("%w: sign", svc.ErrTokenIssue), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, NewFacebookController(&stubService{err: tc.err}), "application/json", `{"token":"x"}`)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decode(t, rec)["code"])
			assert.NotContains(t, rec.Body.String(), "10.0.0.9")
		})
	}
}

func TestLogin_BadRequests(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		code        string
	}{
		{"wrong content type", "text/plain", `{"token":"x"}`, "BAD_REQUEST"},
		{"invalid json", "application/json", `{"token":`, "INVALID_JSON"},
		{"empty body", "application/json", ``, "MISSING_FIELDS"},
		{"blank token", "application/json", `{"token":"   "}`, "MISSING_FIELDS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &stubService{}

			rec := post(t, NewFacebookController(s), tc.contentType, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, decode(t, rec)["code"])
			assert.Empty(t, s.calls)
		})
	}
}

func TestLogin_BodyTooLarge(t *testing.T) {
	big := `{"token":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	rec := post(t, NewFacebookController(&stubService{}), "application/json", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
