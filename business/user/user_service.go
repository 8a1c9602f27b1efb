package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	"ecomStore/pkg/metrics"
	"ecomStore/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateEmailVerification(ctx context.Context, id string, isVerified bool) error
}

// OTPRepository contract interface
type OTPRepository interface {
	Create(ctx context.Context, otp *domain.OTPVerification) error
	FindUsable(ctx context.Context, email, code string, now time.Time) (domain.OTPVerification, error)
	MarkVerified(ctx context.Context, id string) error
	InvalidateByEmail(ctx context.Context, email string) (int, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

// SessionRepository is the optional token allowlist used for logout.
type SessionRepository interface {
	StoreSession(ctx context.Context, token, userID, role string, expiresAt time.Time) error
	ValidateToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

type TokenManager interface {
	GenerateJWT(userID, email, role string) (string, time.Time, error)
	ParseJWT(token string) (*utils.Claims, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	SubjectOTP   = "Your OTP Verification Code"
	EmailBodyOTP = `Hello %v,</br></br>Your EcomStore verification code is <b>%v</b>.</br>The code expires in %v minutes.</br></br>If you didn't request this code, please ignore this email.`

	SubjectWelcome   = "Welcome to EcomStore!"
	EmailBodyWelcome = `Hello %v,</br></br>Your %v account has been successfully created and verified.</br>Happy shopping!`
)

var validRoles = map[string]bool{
	domain.RoleCustomer: true,
	domain.RoleSeller:   true,
}

type userService struct {
	userRepo  UserRepository
	otpRepo   OTPRepository
	tx        Transactor
	validate  *validator.Validate
	notifRepo NotificationRepository
	tokens    TokenManager
	sessions  SessionRepository
	otpTTL    time.Duration
	now       func() time.Time
}

// NewUserService builds the identity service. sessions may be nil, in which
// case tokens stay valid until they expire.
func NewUserService(
	userRepo UserRepository,
	otpRepo OTPRepository,
	tx Transactor,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	tokens TokenManager,
	sessions SessionRepository,
	otpTTL time.Duration,
) *userService {
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}

	return &userService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		tx:        tx,
		validate:  validate,
		notifRepo: notifRepo,
		tokens:    tokens,
		sessions:  sessions,
		otpTTL:    otpTTL,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// OTPDelivery tells the caller whether the code actually left the building.
type OTPDelivery struct {
	EmailSent bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.User, OTPDelivery, error) {
	email := normalizeEmail(in.Email)

	if err := s.validate.Var(email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, OTPDelivery{}, domain.ErrValidation.WithMessage("invalid email format")
	}

	if err := s.validate.Var(in.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, OTPDelivery{}, domain.ErrValidation.WithMessage("password must be at least 6 characters")
	}

	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		logger.Error("Missing user name")
		return domain.User{}, OTPDelivery{}, domain.ErrValidation.WithMessage("first name and last name are required")
	}

	if !validRoles[in.Role] {
		logger.Error("Invalid user role", "role", in.Role)
		return domain.User{}, OTPDelivery{}, domain.ErrValidation.WithMessage("role must be customer or seller")
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, OTPDelivery{}, domain.ErrInternal.Wrap(err)
	}

	now := s.now()
	newUser := domain.User{
		ID:         utils.NewID(),
		Email:      email,
		Password:   passwordHash,
		Role:       in.Role,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var code string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		if err := s.userRepo.Create(ctx, &newUser); err != nil {
			return err
		}

		var err error
		code, err = s.issueOTP(ctx, email)
		return err
	})
	if err != nil {
		logger.Error("Failed to register user", err)
		return domain.User{}, OTPDelivery{}, err
	}

	delivery := s.sendOTP(ctx, newUser, code)

	return newUser.Public(), delivery, nil
}

// issueOTP stores a fresh code for email and returns it.
func (s *userService) issueOTP(ctx context.Context, email string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	now := s.now()
	if err := s.otpRepo.Create(ctx, &domain.OTPVerification{
		ID:        utils.NewID(),
		Email:     email,
		OTP:       code,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}); err != nil {
		return "", err
	}

	metrics.OTPIssued.Inc()
	return code, nil
}

func (s *userService) sendOTP(ctx context.Context, user domain.User, code string) OTPDelivery {
	body := fmt.Sprintf(EmailBodyOTP, user.FullName(), code, int(s.otpTTL.Minutes()))
	if err := s.notifRepo.SendEmail(ctx, user.FullName(), user.Email, SubjectOTP, body); err != nil {
		logger.Warn("Failed to send OTP email", "email", user.Email, err)
		return OTPDelivery{EmailSent: false}
	}

	return OTPDelivery{EmailSent: true}
}

// ResendOTP consumes every outstanding code for the user and issues a new one.
func (s *userService) ResendOTP(ctx context.Context, email string) (OTPDelivery, error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return OTPDelivery{}, domain.ErrValidation.WithMessage("invalid email format")
	}

	var (
		user domain.User
		code string
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if _, err := s.otpRepo.InvalidateByEmail(ctx, email); err != nil {
			return err
		}

		code, err = s.issueOTP(ctx, email)
		return err
	})
	if err != nil {
		logger.Error("Failed to resend otp", err)
		return OTPDelivery{}, err
	}

	return s.sendOTP(ctx, user, code), nil
}

// VerifyOTP consumes a matching code and marks the user verified.
func (s *userService) VerifyOTP(ctx context.Context, email, code string) (domain.User, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return domain.User{}, domain.ErrValidation.WithMessage("email and otp are required")
	}

	var user domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		otp, err := s.otpRepo.FindUsable(ctx, email, code, s.now())
		if err != nil {
			return err
		}

		if err := s.otpRepo.MarkVerified(ctx, otp.ID); err != nil {
			return err
		}

		user, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if err := s.userRepo.UpdateEmailVerification(ctx, user.ID, true); err != nil {
			return err
		}
		user.IsVerified = true
		return nil
	})
	if err != nil {
		logger.Error("Verify otp err", err)
		return domain.User{}, err
	}

	body := fmt.Sprintf(EmailBodyWelcome, user.FullName(), user.Role)
	if err := s.notifRepo.SendEmail(ctx, user.FullName(), user.Email, SubjectWelcome, body); err != nil {
		logger.Warn("Failed to send welcome email", "email", user.Email, err)
	}

	return user.Public(), nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

func (s *userService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Invalid user credentials", "email", email)
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err)
		return LoginResult{}, err
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect", "email", email)
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified", "email", email)
		return LoginResult{}, domain.ErrNotVerified
	}

	token, expiresAt, err := s.tokens.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return LoginResult{}, domain.ErrInternal.Wrap(err)
	}

	if s.sessions != nil {
		if err := s.sessions.StoreSession(ctx, token, user.ID, user.Role, expiresAt); err != nil {
			logger.Error("Failed to store session", err)
			return LoginResult{}, domain.ErrInternal.Wrap(err)
		}
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// Logout revokes the token when a session store is configured.
func (s *userService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil || token == "" {
		return nil
	}

	if err := s.sessions.RevokeToken(ctx, token); err != nil {
		logger.Error("Failed to revoke session", err)
		return domain.ErrInternal.Wrap(err)
	}

	return nil
}

// Authenticate resolves a session token to a verified user.
func (s *userService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrAuthenticationRequired
	}

	claims, err := s.tokens.ParseJWT(token)
	if err != nil {
		logger.Debug("Rejected session token", err)
		return domain.User{}, domain.ErrAuthenticationRequired.WithMessage("invalid token")
	}

	if s.sessions != nil {
		userID, err := s.sessions.ValidateToken(ctx, token)
		if err != nil {
			logger.Debug("Session not found", err)
			return domain.User{}, domain.ErrAuthenticationRequired.WithMessage("session expired or revoked")
		}
		if userID != claims.UserID {
			logger.Error("UserID mismatch between token and session", "user_id", claims.UserID)
			return domain.User{}, domain.ErrAuthenticationRequired.WithMessage("invalid token")
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrAuthenticationRequired.WithMessage("user not found")
		}
		return domain.User{}, err
	}

	if !user.IsVerified {
		return domain.User{}, domain.ErrAuthenticationRequired.WithMessage("email not verified")
	}

	return user.Public(), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	return user.Public(), nil
}
