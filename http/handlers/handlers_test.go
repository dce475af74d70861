package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"josaa-predictor/http/middleware"
	resp "josaa-predictor/http/response"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) resp.StandardResponse {
	t.Helper()
	var body resp.StandardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSignupRejectsWrongMethod(t *testing.T) {
	svc := NewAuthService(nil)

	rec := httptest.NewRecorder()
	svc.Signup(rec, httptest.NewRequest(http.MethodGet, "/signup", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "error", decodeResponse(t, rec).Status)
}

func TestSignupRejectsInvalidJSON(t *testing.T) {
	svc := NewAuthService(nil)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	svc.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupRejectsInvalidFields(t *testing.T) {
	svc := NewAuthService(nil)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","username":"rahul","password":"longenough"}`},
		{"short username", `{"email":"a@b.com","username":"ab","password":"longenough"}`},
		{"short password", `{"email":"a@b.com","username":"rahul","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			svc.Signup(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	svc := NewAuthService(nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"","password":""}`))
	rec := httptest.NewRecorder()
	svc.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileRequiresAuthContext(t *testing.T) {
	svc := NewAuthService(nil)

	rec := httptest.NewRecorder()
	svc.Profile(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(nil)

	req := httptest.NewRequest(http.MethodPost, "/reset-password",
		strings.NewReader(`{"email":"a@b.com","token":"tok","new_password":"short"}`))
	rec := httptest.NewRecorder()
	svc.ResetPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictRejectsWrongMethod(t *testing.T) {
	svc := NewPredictionService(nil)

	rec := httptest.NewRecorder()
	svc.Predict(rec, httptest.NewRequest(http.MethodGet, "/predict", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPredictRequiresAuthContext(t *testing.T) {
	svc := NewPredictionService(nil)

	req := httptest.NewRequest(http.MethodPost, "/predict",
		strings.NewReader(`{"jee_rank":4500,"category":"OPEN","round":"6"}`))
	rec := httptest.NewRecorder()
	svc.Predict(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPredictRejectsInvalidPayload(t *testing.T) {
	svc := NewPredictionService(nil)

	tests := []struct {
		name string
		body string
	}{
		{"zero rank", `{"jee_rank":0,"category":"OPEN","round":"6"}`},
		{"bad category", `{"jee_rank":4500,"category":"GENERAL","round":"6"}`},
		{"missing round", `{"jee_rank":4500,"category":"OPEN"}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, 1)
			rec := httptest.NewRecorder()
			svc.Predict(rec, req.WithContext(ctx))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUniqueViolationMessage(t *testing.T) {
	msg, ok := uniqueViolationMessage(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	require.True(t, ok)
	assert.Equal(t, "Email already registered", msg)

	msg, ok = uniqueViolationMessage(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	require.True(t, ok)
	assert.Equal(t, "Username already exists", msg)

	// Other Postgres errors and plain errors stay server errors
	_, ok = uniqueViolationMessage(&pq.Error{Code: "23503", Constraint: "fk_user"})
	assert.False(t, ok)

	_, ok = uniqueViolationMessage(errors.New("connection refused"))
	assert.False(t, ok)
}

func TestGetCutoffsRejectsWrongMethod(t *testing.T) {
	svc := NewCutoffService(nil)

	rec := httptest.NewRecorder()
	svc.GetCutoffs(rec, httptest.NewRequest(http.MethodPost, "/cutoffs", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUploadCutoffsRejectsWrongMethod(t *testing.T) {
	svc := NewCutoffService(nil)

	rec := httptest.NewRecorder()
	svc.UploadCutoffs(rec, httptest.NewRequest(http.MethodGet, "/upload-cutoffs", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
