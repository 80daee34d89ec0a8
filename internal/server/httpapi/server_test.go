package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropwatch/internal/logging"
	"dropwatch/internal/server/auth"
	"dropwatch/internal/server/config"
	"dropwatch/internal/server/counseling"
	"dropwatch/internal/server/email"
	"dropwatch/internal/server/otp"
	"dropwatch/internal/server/students"
	"dropwatch/internal/server/users"
)

type testEnv struct {
	srv      *httptest.Server
	cfg      *config.Config
	students *students.MemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		AllowedEmailDomain:    "@gmail.com",
		OTPValidityDuration:   5 * time.Minute,
		ModelVersion:          "heuristic-v1",
	}
	log := logging.NewDefault()

	studentRepo := students.NewMemoryRepository()
	ss := students.NewService(studentRepo, cfg)
	us := users.NewService(users.NewMemoryRepository(), otp.NewStore(cfg.OTPValidityDuration),
		email.NewConsoleSender(log), log, cfg)
	cs := counseling.NewService(counseling.NewMemoryRepository(), ss)

	srv := httptest.NewServer(NewServer(log, us, ss, cs, cfg).Routes())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, cfg: cfg, students: studentRepo}
}

func (e *testEnv) token(t *testing.T, id int, emailAddr, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Identity{ID: id, Email: emailAddr, Role: role},
		[]byte(e.cfg.SecretKey), time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestRegisterAndPasswordLogin(t *testing.T) {
	e := newTestEnv(t)

	resp, payload := e.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana", "email": "ana@gmail.com", "password": "pass123", "role": "teacher",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", payload["message"])

	resp, payload = e.request(t, http.MethodPost, "/auth/login-password", "", map[string]string{
		"email": "ana@gmail.com", "password": "pass123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, payload["token"])

	identity, err := auth.GetIdentityFromToken(payload["token"].(string), []byte(e.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "teacher", identity.Role)
}

func TestRegister_RejectsForeignDomain(t *testing.T) {
	e := newTestEnv(t)

	resp, payload := e.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "bob", "email": "bob@yahoo.com", "password": "pass123", "role": "student",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, payload["error"], "@gmail.com")
}

func TestOTPLoginFlow(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana", "email": "ana@gmail.com", "password": "pass123", "role": "student",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, payload := e.request(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@gmail.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OTP sent to your email", payload["message"])

	// Unknown account and foreign domain are rejected.
	resp, _ = e.request(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@gmail.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = e.request(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@yahoo.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, payload = e.request(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"email": "ana@gmail.com", "otp": "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired code", payload["error"])
}

func TestRoleGates(t *testing.T) {
	e := newTestEnv(t)
	studentTok := e.token(t, 1, "stu@gmail.com", "student")
	teacherTok := e.token(t, 2, "tea@gmail.com", "teacher")
	adminTok := e.token(t, 3, "adm@gmail.com", "admin")

	// Students may not list the cohort or the accounts.
	resp, _ := e.request(t, http.MethodGet, "/teachers/students", studentTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = e.request(t, http.MethodGet, "/admin/users", studentTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Teachers see students but not accounts; /students/ stays admin only.
	resp, _ = e.request(t, http.MethodGet, "/teachers/students", teacherTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.request(t, http.MethodGet, "/students/", teacherTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = e.request(t, http.MethodGet, "/students/", adminTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No token and a garbage token both yield 401.
	resp, _ = e.request(t, http.MethodGet, "/teachers/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, payload := e.request(t, http.MethodGet, "/teachers/students", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is invalid or expired", payload["error"])
}

func TestStudentsEnvelopeAndAnalytics(t *testing.T) {
	e := newTestEnv(t)

	att, score, lbl := 55.0, 70.0, "High"
	_, err := e.students.Create(context.Background(), &students.Student{
		Email: "stu@gmail.com", FullName: "Ana Silva", Course: "CS",
		Attendance: &att, AcademicScore: &score, RiskLabel: &lbl,
	})
	require.NoError(t, err)
	_, err = e.students.Create(context.Background(), &students.Student{
		Email: "b@gmail.com", FullName: "Bruno", Course: "Math",
	})
	require.NoError(t, err)

	teacherTok := e.token(t, 2, "tea@gmail.com", "teacher")
	resp, payload := e.request(t, http.MethodGet, "/teachers/students", teacherTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := payload["students"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Ana Silva", first["full_name"])
	second := rows[1].(map[string]any)
	assert.Nil(t, second["risk_label"], "unscored student must serialize as null")

	adminTok := e.token(t, 3, "adm@gmail.com", "admin")
	resp, payload = e.request(t, http.MethodGet, "/admin/analytics", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), payload["total_students"])
	assert.Equal(t, float64(1), payload["high_risk_count"])
	assert.Equal(t, "heuristic-v1", payload["model_version"])
}

func TestMyProfile(t *testing.T) {
	e := newTestEnv(t)

	att := 90.0
	_, err := e.students.Create(context.Background(), &students.Student{
		Email: "stu@gmail.com", FullName: "Ana Silva", Course: "CS",
		Attendance:                    &att,
		CurricularUnits1stSemEnrolled: 6, CurricularUnits1stSemApproved: 5,
	})
	require.NoError(t, err)

	tok := e.token(t, 1, "stu@gmail.com", "student")
	resp, payload := e.request(t, http.MethodGet, "/students/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	student := payload["student"].(map[string]any)
	assert.Equal(t, "Ana Silva", student["full_name"])
	assert.Equal(t, float64(6), student["curricular_units_1st_sem_enrolled"])

	// A student account with no linked record gets a 404.
	tok = e.token(t, 9, "ghost@gmail.com", "student")
	resp, _ = e.request(t, http.MethodGet, "/students/me", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBatchPredictAndCounseling(t *testing.T) {
	e := newTestEnv(t)

	att, score := 40.0, 45.0
	st, err := e.students.Create(context.Background(), &students.Student{
		Email: "stu@gmail.com", Attendance: &att, AcademicScore: &score,
	})
	require.NoError(t, err)

	teacherTok := e.token(t, 2, "tea@gmail.com", "teacher")

	resp, payload := e.request(t, http.MethodPost, "/teachers/batch_predict", teacherTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, payload["message"], "1 students scored")

	resp, payload = e.request(t, http.MethodPost, "/counseling/add", teacherTok, map[string]any{
		"student_id": st.ID, "notes": "weekly check in", "follow_up_at": "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, payload["message"], "added")

	resp, _ = e.request(t, http.MethodPost, "/counseling/add", teacherTok, map[string]any{
		"student_id": 999, "notes": "nobody home",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadCSV(t *testing.T) {
	e := newTestEnv(t)
	teacherTok := e.token(t, 2, "tea@gmail.com", "teacher")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("full_name,course\nAna,CS\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/upload_csv", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+teacherTok)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload["message"], "roster.csv")
}
