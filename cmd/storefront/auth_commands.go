package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jrsteele09/go-storefront-client/auth"
)

func init() {
	register(newLoginCommand)
	register(newRegisterCommand)
	register(newVerifyCommand)
	register(newForgotPasswordCommand)
	register(newResetPasswordCommand)
	register(newLogoutCommand)
	register(newWhoamiCommand)
}

func newLoginCommand() Command {
	var email, password string
	return &funcCommand{
		info: Info{Name: "login", Args: "<email> <password>", Purpose: "sign in and store the session"},
		init: func(args []string) error { return positional(args, &email, &password) },
		run: func(ctx context.Context, e *env) error {
			resp, err := e.app.Login(ctx, email, password)
			if err != nil {
				return err
			}
			return e.print(map[string]string{"email": email, "role": resp.Role}, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s (%s)\n", email, resp.Role)
			})
		},
	}
}

func newRegisterCommand() Command {
	var reg auth.Registration
	return &funcCommand{
		info: Info{Name: "register", Args: "<name> <email> <password>", Purpose: "create an account; a code is emailed for verify"},
		init: func(args []string) error { return positional(args, &reg.Name, &reg.Email, &reg.Password) },
		run: func(ctx context.Context, e *env) error {
			return printMessage(e, func() (string, error) { return e.authAPI.Register(ctx, reg) })
		},
	}
}

func newVerifyCommand() Command {
	var email, otp string
	return &funcCommand{
		info: Info{Name: "verify", Args: "<email> <otp>", Purpose: "confirm an email address"},
		init: func(args []string) error { return positional(args, &email, &otp) },
		run: func(ctx context.Context, e *env) error {
			return printMessage(e, func() (string, error) { return e.authAPI.VerifyEmail(ctx, email, otp) })
		},
	}
}

func newForgotPasswordCommand() Command {
	var email string
	return &funcCommand{
		info: Info{Name: "forgot-password", Args: "<email>", Purpose: "email a password reset code"},
		init: func(args []string) error { return positional(args, &email) },
		run: func(ctx context.Context, e *env) error {
			return printMessage(e, func() (string, error) { return e.authAPI.ForgotPassword(ctx, email) })
		},
	}
}

func newResetPasswordCommand() Command {
	var email, otp, password string
	return &funcCommand{
		info: Info{Name: "reset-password", Args: "<email> <otp> <new-password>", Purpose: "set a new password with a reset code"},
		init: func(args []string) error { return positional(args, &email, &otp, &password) },
		run: func(ctx context.Context, e *env) error {
			return printMessage(e, func() (string, error) { return e.authAPI.ResetPassword(ctx, email, otp, password) })
		},
	}
}

func newLogoutCommand() Command {
	return &funcCommand{
		info: Info{Name: "logout", Purpose: "end the session"},
		run: func(ctx context.Context, e *env) error {
			if err := e.app.Logout(ctx); err != nil {
				return err
			}
			return e.print(map[string]bool{"signedOut": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Signed out")
			})
		},
	}
}

func newWhoamiCommand() Command {
	return &funcCommand{
		info: Info{Name: "whoami", Purpose: "show the stored session"},
		run: func(ctx context.Context, e *env) error {
			s := e.app.Session(ctx)
			return e.print(s, func(w io.Writer) {
				if !s.IsAuthenticated {
					fmt.Fprintln(w, "Not signed in")
					return
				}
				fmt.Fprintf(w, "%s (%s, admin: %t)\n", s.Email, s.Role, s.IsAdmin)
			})
		},
	}
}

func printMessage(e *env, call func() (string, error)) error {
	msg, err := call()
	if err != nil {
		return err
	}
	return e.print(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}
