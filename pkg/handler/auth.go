package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"betwallet_client/models"
)

type loginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Remember   bool   `json:"remember"`
}

// Login signs in, applies the remember-me choice and loads the dashboard. Any
// flows left from an earlier session are dropped.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Please enter your email or phone number and password.")
		return
	}

	ctx := c.Request.Context()
	resp, err := h.auth.Login(ctx, input.Identifier, input.Password)
	if err != nil {
		errorResponse(c, err)
		return
	}

	if input.Remember {
		err = h.auth.RememberCredentials(ctx, models.RememberedCredentials{Identifier: input.Identifier, Password: input.Password})
	} else {
		err = h.auth.ForgetCredentials(ctx)
	}
	if err != nil {
		h.log.Warnf("update remembered credentials: %v", err)
	}

	h.flows.Clear()
	report := h.service.RefreshAll(ctx)
	wrapOkJSON(c, map[string]interface{}{
		"user":   resp.User,
		"report": report,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context())
	wrapOkJSON(c, map[string]interface{}{
		"authenticated": false,
	})
}

func (h *Handler) Remembered(c *gin.Context) {
	creds, err := h.auth.RememberedCredentials(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"credentials": creds,
	})
}

func (h *Handler) SendOTP(c *gin.Context) {
	var input models.SendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		newErrorResponse(c, http.StatusBadRequest, "email: This field is required.")
		return
	}
	res, err := h.api.Profile.SendOTP(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"message": res.Message,
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var input models.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.NewPassword != input.ConfirmNewPassword {
		newErrorResponse(c, http.StatusBadRequest, "confirm_new_password: Passwords do not match.")
		return
	}
	res, err := h.api.Profile.ResetPassword(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"message": res.Message,
	})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var input models.UpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.NewPassword != input.ConfirmNewPassword {
		newErrorResponse(c, http.StatusBadRequest, "confirm_new_password: Passwords do not match.")
		return
	}
	res, err := h.api.Profile.UpdatePassword(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"message": res.Message,
	})
}
