package httpapi

import (
	"net/http"
	"strings"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.HasSuffix(strings.ToLower(req.Email), s.allowedEmailDomain) {
		writeError(w, http.StatusBadRequest, "Only "+s.allowedEmailDomain+" accounts are allowed")
		return
	}

	if _, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (s *Server) handleStartOTPLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.users.StartOTPLogin(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "OTP sent to your email")
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.users.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"message": "Login successful",
	})
}

func (s *Server) handleLoginPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.users.LoginPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"message": "Login successful",
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.users.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Reset code sent to your email")
}

func (s *Server) handleVerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successful")
}
