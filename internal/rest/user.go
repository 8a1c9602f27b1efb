package rest

import (
	"context"
	"net/http"
	"time"

	usersvc "ecomStore/business/user"
	"ecomStore/domain"
	"ecomStore/internal/middleware"
	jsonres "ecomStore/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (domain.User, usersvc.OTPDelivery, error)
	ResendOTP(ctx context.Context, email string) (usersvc.OTPDelivery, error)
	VerifyOTP(ctx context.Context, email, code string) (domain.User, error)
	Login(ctx context.Context, email, password string) (usersvc.LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

type UserHandler struct {
	userService UserService
	cookie      SessionCookie
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, cookie SessionCookie) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, delivery, err := h.userService.Register(ctx, usersvc.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return writeError(c, "Failed to register user", err)
	}

	message := "User registered successfully. Please verify your email with the OTP sent."
	if !delivery.EmailSent {
		message = "User registered, but the OTP email could not be delivered. Request a new code to try again."
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   message,
		"user":      user,
		"emailSent": delivery.EmailSent,
	})
}

func (h *UserHandler) SendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	delivery, err := h.userService.ResendOTP(ctx, req.Email)
	if err != nil {
		return writeError(c, "Failed to send otp", err)
	}

	message := "OTP sent successfully to your email"
	if !delivery.EmailSent {
		message = "OTP generated but email delivery failed. Please check your email configuration."
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   message,
		"emailSent": delivery.EmailSent,
	})
}

func (h *UserHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.VerifyOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return writeError(c, "Failed to verify otp", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully. You can now log in.",
		"user":    user,
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var req UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, "Failed to login user", err)
	}

	h.cookie.Set(c, result.Token, result.ExpiresAt)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    result.User,
	})
}

// Logout clears the cookie even when revoking the session fails.
func (h *UserHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, _ := c.Get(middleware.ContextKeyToken).(string)

	h.cookie.Clear(c)

	if err := h.userService.Logout(ctx, token); err != nil {
		return writeError(c, "Failed to logout user", err)
	}

	return c.JSON(http.StatusOK, jsonres.Message("Logout successful"))
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, "Failed to get current user", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user,
	})
}
