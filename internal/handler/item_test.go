package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/crudauth/internal/model"
)

// violationBody is ErrorResponse with the message in list form.
type violationBody struct {
	StatusCode int      `json:"statusCode"`
	Message    []string `json:"message"`
	Error      string   `json:"error"`
}

func TestItems_CreateListGet(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/add-item", `{"name":"pen","description":"blue"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"pen","description":"blue"}`, rr.Body.String())

	env.do(t, http.MethodPost, "/api/add-item", `{"name":"cup","description":"red"}`, "")

	rr = env.do(t, http.MethodGet, "/api/all", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	all := decodeBody[[]model.Item](t, rr)
	require.Len(t, all, 2)
	assert.Equal(t, "cup", all[1].Name)

	rr = env.do(t, http.MethodGet, "/api/get-item/2", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "cup", decodeBody[model.Item](t, rr).Name)
}

func TestItems_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/all", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", compact(rr))
}

func TestItems_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty object",
			body: `{}`,
			want: []string{
				"name should not be empty",
				"name must be a string",
				"name must be shorter than or equal to 100 characters",
				"description should not be empty",
				"description must be a string",
			},
		},
		{
			name: "extraneous field",
			body: `{"name":"pen","description":"blue","price":3}`,
			want: []string{"property price should not exist"},
		},
		{
			name: "wrong type",
			body: `{"name":7,"description":"blue"}`,
			want: []string{"name must be a string", "name must be shorter than or equal to 100 characters"},
		},
		{
			name: "malformed json",
			body: `{"name":`,
			want: []string{"request body must be a JSON object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/add-item", tt.body, "")
			require.Equal(t, http.StatusBadRequest, rr.Code)

			body := decodeBody[violationBody](t, rr)
			assert.Equal(t, 400, body.StatusCode)
			assert.Equal(t, "Bad Request", body.Error)
			assert.Equal(t, tt.want, body.Message)
		})
	}

	rr := env.do(t, http.MethodGet, "/api/all", "", "")
	assert.Equal(t, "[]", compact(rr), "rejected bodies must not reach the store")
}

func TestItems_OversizedBodyIs413(t *testing.T) {
	env := newTestEnv(t)

	body := `{"name":"pen","description":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rr := env.do(t, http.MethodPost, "/api/add-item", body, "")

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	got := decodeBody[ErrorResponse](t, rr)
	assert.Equal(t, 413, got.StatusCode)
	assert.Equal(t, "Request Entity Too Large", got.Error)

	rr = env.do(t, http.MethodGet, "/api/all", "", "")
	assert.Equal(t, "[]", compact(rr))
}

func TestItems_TrailingJSONRejected(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/add-item", `{"name":"pen","description":"blue"}{"name":"x"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody[violationBody](t, rr)
	assert.Equal(t, []string{"request body must contain a single JSON object"}, body.Message)
}

func TestItems_UpdateIsShallowMerge(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/add-item", `{"name":"pen","description":"blue"}`, "")

	rr := env.do(t, http.MethodPut, "/api/update-item/1", `{"description":"black"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"pen","description":"black"}`, rr.Body.String())

	rr = env.do(t, http.MethodPut, "/api/update-item/1", `{"id":9}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "id is not a writable field")
}

func TestItems_AbsentAndMalformedIDs(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/get-item/5", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"item not found with id 5","error":"Not Found"}`, rr.Body.String())

	rr = env.do(t, http.MethodPut, "/api/update-item/5", `{"name":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/get-item/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"id must be an integer number"}, decodeBody[violationBody](t, rr).Message)

	rr = env.do(t, http.MethodDelete, "/api/delete-item/1.5", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestItems_DeleteReturnsBool(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/add-item", `{"name":"pen","description":"blue"}`, "")

	rr := env.do(t, http.MethodDelete, "/api/delete-item/1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", compact(rr))

	rr = env.do(t, http.MethodDelete, "/api/delete-item/1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "false", compact(rr))
}
