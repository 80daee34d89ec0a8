package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"students": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-abc")

	_, err := c.TeacherStudents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)

	c.ClearToken()
	_, err = c.TeacherStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ServerErrorMessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Only Gmail accounts are allowed"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).StartOTPLogin(context.Background(), "x@yahoo.com")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Only Gmail accounts are allowed", apiErr.Message)
}

func TestClient_GenericMessageWhenPayloadAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).StartOTPLogin(context.Background(), "x@gmail.com")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, genericErrMsg, apiErr.Message)
}

func TestClient_TokenInvalid401FiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Token has expired"}`))
	}))
	defer srv.Close()

	fired := false
	c := New(srv.URL, WithAuthExpiredHook(func() { fired = true }))
	c.SetToken("stale")

	_, err := c.TeacherStudents(context.Background())
	assert.Error(t, err)
	assert.True(t, fired, "token-invalid 401 must fire the auth-expired hook")
}

func TestClient_Plain401DoesNotFireHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid email or password"}`))
	}))
	defer srv.Close()

	fired := false
	c := New(srv.URL, WithAuthExpiredHook(func() { fired = true }))

	_, err := c.LoginPassword(context.Background(), "a@gmail.com", "bad")
	assert.Error(t, err)
	assert.False(t, fired, "a credentials 401 must not tear down the session")
}

func TestClient_VerifyOTPReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-otp", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@gmail.com","otp":"123456"}`, string(body))
		w.Write([]byte(`{"token": "tok-1", "message": "OTP verified successfully"}`))
	}))
	defer srv.Close()

	token, err := New(srv.URL).VerifyOTP(context.Background(), "a@gmail.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestClient_UploadCSVMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "students.csv", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "id,name\n1,a\n", string(data))
		w.Write([]byte(`{"message": "CSV uploaded"}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL).UploadCSV(context.Background(), "students.csv", strings.NewReader("id,name\n1,a\n"))
	require.NoError(t, err)
	assert.Equal(t, "CSV uploaded", msg)
}

func TestClient_StudentsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/students/", r.URL.Path)
		w.Write([]byte(`{"students":[{"id":1,"full_name":"Ann","course":"CS","attendance":92.5,"academic_score":null,"risk_label":"Low"}]}`))
	}))
	defer srv.Close()

	records, err := New(srv.URL).Students(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ann", records[0].FullName)
	require.NotNil(t, records[0].Attendance)
	assert.Equal(t, 92.5, *records[0].Attendance)
	assert.Nil(t, records[0].AcademicScore)
	require.NotNil(t, records[0].RiskLabel)
	assert.Equal(t, "Low", *records[0].RiskLabel)
}
