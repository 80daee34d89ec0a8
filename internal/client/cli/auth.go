package cli

import (
	"context"
	"os"

	"dropwatch/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// LoginOTP walks the two-step OTP flow: request a code for the email, then
// prompt for it and verify. A failed verify keeps the OTP state so the user
// may retry; "back" abandons it.
func (a *App) LoginOTP(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	err = a.session.RequestOTP(rctx, email)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("OTP sent, check your inbox.")

	for {
		otp, err := getSimpleText(a.reader, "Enter OTP (or 'back')", os.Stdout)
		if err != nil {
			return err
		}
		if otp == "back" {
			a.session.Back()
			return nil
		}

		rctx, cancel := a.requestCtx(ctx)
		sess, err := a.session.VerifyOTP(rctx, email, otp)
		cancel()
		if err != nil {
			printlnFn("Error:", err.Error())
			continue
		}

		a.api.SetToken(sess.Token)
		printlnFn("Logged in as", sess.Identity.Email)
		return nil
	}
}

// LoginPassword authenticates with email and password.
func (a *App) LoginPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	a.session.BeginPassword()

	rctx, cancel := a.requestCtx(ctx)
	sess, err := a.session.LoginWithPassword(rctx, email, password)
	cancel()
	if err != nil {
		a.session.Back()
		printlnFn("Error:", err.Error())
		return err
	}

	a.api.SetToken(sess.Token)
	printlnFn("Logged in as", sess.Identity.Email)
	return nil
}

// Register creates an account. The email must belong to the allowed domain;
// this is checked before any network call.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if !a.session.ValidateEmail(email) {
		printlnFn("Only " + a.config.AllowedEmailDomain + " accounts are allowed")
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (student/teacher/admin)", os.Stdout)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	msg, err := a.api.Register(rctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// ForgotPassword requests a reset code and redeems it for a new password.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	msg, err := a.api.ForgotPassword(rctx, email)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)

	code, err := getSimpleText(a.reader, "Enter reset code", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	rctx, cancel = a.requestCtx(ctx)
	msg, err = a.api.VerifyResetCode(rctx, email, code, newPassword)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// Logout clears the persisted session and the bearer token. Safe to call
// when not logged in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	a.api.ClearToken()
	printlnFn("Logged out.")
	return nil
}
