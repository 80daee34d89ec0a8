package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"dropwatch/internal/client/session"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs. The real
// App type satisfies this interface; tests provide a lightweight stub.
type execIface interface {
	LoggedIn() bool
	Route() session.RouteTarget

	LoginOTP(ctx context.Context) error
	LoginPassword(ctx context.Context) error
	Register(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Logout(ctx context.Context) error

	Students(ctx context.Context, args []string) error
	Risks(ctx context.Context) error
	Averages(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Users(ctx context.Context) error
	Counsel(ctx context.Context) error
	Predict(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to 'a'. Which
// commands are accepted depends on the route of the current identity, the
// terminal analogue of mounting a role's dashboard. Errors from handlers are
// already reported by the handlers; the loop just keeps going. Exits on EOF
// or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("DropWatch CLI (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("dw %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printHelp(a)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout":
			_ = a.Logout(ctx)

		default:
			if !a.LoggedIn() {
				dispatchLoggedOut(ctx, a, cmd)
				continue
			}
			dispatchDashboard(ctx, a, cmd, args)
		}
	}
}

func dispatchLoggedOut(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "login":
		_ = a.LoginOTP(ctx)
	case "login-password":
		_ = a.LoginPassword(ctx)
	case "register":
		_ = a.Register(ctx)
	case "forgot":
		_ = a.ForgotPassword(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchDashboard(ctx context.Context, a execIface, cmd string, args []string) {
	route := a.Route()

	switch {
	case cmd == "profile" && route == session.RouteStudentDashboard:
		_ = a.Profile(ctx)

	case cmd == "students" && (route == session.RouteTeacherDashboard || route == session.RouteAdminDashboard):
		_ = a.Students(ctx, args)

	case cmd == "risks" && (route == session.RouteTeacherDashboard || route == session.RouteAdminDashboard):
		_ = a.Risks(ctx)

	case cmd == "averages" && (route == session.RouteTeacherDashboard || route == session.RouteAdminDashboard):
		_ = a.Averages(ctx, args)

	case cmd == "counsel" && route == session.RouteTeacherDashboard:
		_ = a.Counsel(ctx)

	case cmd == "predict" && (route == session.RouteTeacherDashboard || route == session.RouteAdminDashboard):
		_ = a.Predict(ctx)

	case cmd == "upload" && (route == session.RouteTeacherDashboard || route == session.RouteAdminDashboard):
		_ = a.Upload(ctx, args)

	case cmd == "users" && route == session.RouteAdminDashboard:
		_ = a.Users(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}

func printHelp(a execIface) {
	if !a.LoggedIn() {
		printlnFn("Available commands: login (OTP), login-password, register, forgot, exit")
		return
	}

	switch a.Route() {
	case session.RouteStudentDashboard:
		printlnFn("Available commands: profile, logout, exit")
	case session.RouteTeacherDashboard:
		printlnFn("Available commands: students [term] [risk], risks, averages [attendance|score], counsel, predict, upload <path>, logout, exit")
	case session.RouteAdminDashboard:
		printlnFn("Available commands: users, students [term] [risk], risks, averages [attendance|score], predict, upload <path>, logout, exit")
	default:
		printlnFn("Available commands: logout, exit")
	}
}
