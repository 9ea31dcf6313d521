package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

func checkNewPassword(pw []byte) error {
	if len(pw) < common.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", common.MinPasswordLength)
	}
	return nil
}

// Register asks for profile fields and a password and creates an account.
// The server then emails a verification link.
func (a *App) Register(ctx context.Context) error {
	var in api.RegisterRequest

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Email", &in.Email},
		{"Gender", &in.Gender},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if err := checkNewPassword(password); err != nil {
		return err
	}
	in.Password = string(password)

	p, err := a.api.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s). Check your email to verify the account.\n", p.Email, p.ID)
	return nil
}

func (a *App) Verify(ctx context.Context, id string) error {
	if err := a.api.Verify(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account verified, you can login now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", res.UserInfo.FirstName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)
	if err := checkNewPassword(newPassword); err != nil {
		return err
	}

	if err := a.api.ChangePassword(ctx, string(oldPassword), string(newPassword)); err != nil {
		return sessionErr(err)
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// ForgotPassword requests a reset email. The server wants both the email
// and the account id shown at registration.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	userID, err := getSimpleText(a.reader, "User id", a.out)
	if err != nil {
		return err
	}

	if err := a.api.ForgotPassword(ctx, email, userID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reset email sent.")
	return nil
}

// ResetPassword completes a reset with the token from the email.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Reset token", a.out)
	if err != nil {
		return err
	}
	userID, err := getSimpleText(a.reader, "User id", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if err := checkNewPassword(password); err != nil {
		return err
	}

	if err := a.api.ResetPassword(ctx, string(password), token, userID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password reset, you can login now.")
	return nil
}

// sessionErr turns a rejected token into a hint to login again.
func sessionErr(err error) error {
	if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrorUnauthorized) {
		return fmt.Errorf("session expired or replaced, please login again: %w", err)
	}
	return err
}
