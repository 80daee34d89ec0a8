package api

import (
	"context"
	"net/http"

	"dropwatch/internal/client/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type studentsResponse struct {
	Students []models.StudentRecord `json:"students"`
}

type profileResponse struct {
	Student models.StudentProfile `json:"student"`
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// StartOTPLogin asks the backend to dispatch an OTP to email.
func (c *Client) StartOTPLogin(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email}, nil)
}

// VerifyOTP exchanges an OTP for a session token.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", map[string]string{"email": email, "otp": otp}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// LoginPassword exchanges email+password for a session token.
func (c *Client) LoginPassword(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login-password", map[string]string{"email": email, "password": password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ForgotPassword requests a password-reset code for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyResetCode redeems a reset code and sets a new password.
func (c *Client) VerifyResetCode(ctx context.Context, email, code, newPassword string) (string, error) {
	body := map[string]string{"email": email, "code": code, "new_password": newPassword}
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-reset-code", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AdminUsers lists every account.
func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminAnalytics returns the admin summary block.
func (c *Client) AdminAnalytics(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	if err := c.do(ctx, http.MethodGet, "/admin/analytics", nil, &out); err != nil {
		return models.Analytics{}, err
	}
	return out, nil
}

// MyProfile returns the authenticated student's own profile.
func (c *Client) MyProfile(ctx context.Context) (models.StudentProfile, error) {
	var out profileResponse
	if err := c.do(ctx, http.MethodGet, "/students/me", nil, &out); err != nil {
		return models.StudentProfile{}, err
	}
	return out.Student, nil
}

// Students lists all student records (admin view).
func (c *Client) Students(ctx context.Context) ([]models.StudentRecord, error) {
	var out studentsResponse
	if err := c.do(ctx, http.MethodGet, "/students/", nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

// TeacherStudents lists the student records visible to a teacher.
func (c *Client) TeacherStudents(ctx context.Context) ([]models.StudentRecord, error) {
	var out studentsResponse
	if err := c.do(ctx, http.MethodGet, "/teachers/students", nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

// BatchPredict triggers a re-scoring of every student record.
func (c *Client) BatchPredict(ctx context.Context) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/teachers/batch_predict", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AddCounseling files a counseling note for a student.
func (c *Client) AddCounseling(ctx context.Context, studentID int, notes, followUpAt string) (string, error) {
	body := map[string]any{"student_id": studentID, "notes": notes, "follow_up_at": followUpAt}
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/counseling/add", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
