package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The end-to-end credential scenario: register, log in, reach the
// protected profile with the token and get turned away without it.
func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/auth/register", `{"username":"ram","password":"1234"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "ram", user["username"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, rr.Body.String(), "password", "the hash must never be serialised")

	rr = env.do(t, http.MethodPost, "/auth/login", `{"username":"ram","password":"1234"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token := decodeBody[map[string]string](t, rr)["access_token"]
	require.NotEmpty(t, token)

	rr = env.do(t, http.MethodGet, "/auth/profile", "", token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	profile := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "ram", profile["username"])
	assert.Equal(t, user["id"], profile["sub"])
	assert.Equal(t, float64(3600), profile["exp"].(float64)-profile["iat"].(float64))

	rr = env.do(t, http.MethodGet, "/auth/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/auth/profile", "", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	body := `{"username":"ram","password":"1234"}`

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/auth/register", body, "").Code)

	rr := env.do(t, http.MethodPost, "/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Conflict", decodeBody[map[string]any](t, rr)["error"])
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/auth/register", `{"username":"ram","password":"12","role":"admin"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{
		"password must be longer than or equal to 4 characters",
		"property role should not exist",
	}, decodeBody[violationBody](t, rr).Message)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/auth/register", `{"username":"ram","password":"1234"}`, "")

	for _, body := range []string{
		`{"username":"ram","password":"wrong"}`,
		`{"username":"sita","password":"1234"}`,
	} {
		rr := env.do(t, http.MethodPost, "/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", decodeBody[map[string]any](t, rr)["message"])
	}
}

func TestProfile_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	expired, err := env.tokens.IssueWithTTL("u-1", "ram", -time.Minute)
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/auth/profile", "", expired)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
