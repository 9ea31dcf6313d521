package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) register(c *gin.Context) {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	respondOK(c, "Verification Email Sent", user.Profile())
}

func (h *Handler) verify(c *gin.Context) {
	if err := h.users.Verify(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "User not found")
		return
	}
	respondOK(c, "User verified successfully", nil)
}

func (h *Handler) login(c *gin.Context) {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	res, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "User not found, please register")
		return
	}

	respondOK(c, "Login successful", res)
}

type logoutRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) logout(c *gin.Context) {
	var in logoutRequest
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	if err := h.users.Logout(c.Request.Context(), in.UserID); err != nil {
		h.fail(c, err, "")
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	})
	respondOK(c, "Logout successful", nil)
}

func (h *Handler) changePassword(c *gin.Context) {
	var in services.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), in); err != nil {
		h.fail(c, err, "User not found, please signup")
		return
	}

	respondOK(c, "Password changed successfully", nil)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var in services.ForgotPasswordInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	if err := h.users.ForgotPassword(c.Request.Context(), in); err != nil {
		h.fail(c, err, "User email does not exist")
		return
	}

	respondOK(c, "Reset Email Sent", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		h.fail(c, err, "")
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), in); err != nil {
		h.fail(c, err, "")
		return
	}

	respondOK(c, "Password reset successful, please login", nil)
}
