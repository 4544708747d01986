package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
	"github.com/meinhoongagan/kure-api/utils"
)

const (
	PurposeRegister       = "register"
	PurposeForgotPassword = "forgot-password"
)

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(to, subject, body string) error
}

// TokenIssuer signs the bearer tokens that middleware.Protected verifies.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(p models.Principal) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"id":    p.ID,
		"role":  string(p.Role),
		"email": p.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

type SendOTPInput struct {
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=register forgot-password"`
}

// SendOTPResult carries the code back only when mail delivery is not
// available outside production.
type SendOTPResult struct {
	OTP string `json:"otp,omitempty"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type RegisterUserInput struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Mobile   string         `json:"mobile" validate:"required"`
	Password string         `json:"password" validate:"required,min=6"`
	OTP      string         `json:"otp" validate:"required,len=6,numeric"`
	Address  models.Address `json:"address"`
}

// RegisterProviderInput is the provider onboarding form. Address needs
// street, state and zip.
type RegisterProviderInput struct {
	Name              string                  `json:"name" validate:"required"`
	Email             string                  `json:"email" validate:"required,email"`
	Mobile            string                  `json:"mobile" validate:"required"`
	Password          string                  `json:"password" validate:"required,min=6"`
	OTP               string                  `json:"otp" validate:"required,len=6,numeric"`
	BusinessName      string                  `json:"businessName" validate:"required"`
	BusinessType      string                  `json:"businessType" validate:"required"`
	ServiceCategory   string                  `json:"serviceCategory" validate:"required"`
	Specialization    string                  `json:"specialization" validate:"required"`
	LicenseNumber     string                  `json:"licenseNumber" validate:"required"`
	YearsOfExperience string                  `json:"yearsOfExperience" validate:"required"`
	Address           models.Address          `json:"address"`
	Certifications    []models.Certification  `json:"certifications"`
	Education         []models.Education      `json:"education"`
	Services          []models.OfferedService `json:"services"`
	InsuranceAccepted []string                `json:"insuranceAccepted"`
	Languages         []string                `json:"languages"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AccountSummary struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Mobile     string          `json:"mobile,omitempty"`
	IsVerified bool            `json:"isVerified"`
	Address    *models.Address `json:"address,omitempty"`
	Role       models.Role     `json:"role"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type AuthResult struct {
	User  AccountSummary `json:"user"`
	Token string         `json:"token"`
	Role  models.Role    `json:"role"`
}

// AuthService implements OTP verification, registration, login and
// password reset for users and providers.
type AuthService struct {
	users      repository.UserRepository
	providers  repository.ProviderRepository
	otps       repository.OTPStore
	mailer     Mailer
	tokens     *TokenIssuer
	otpTTL     time.Duration
	production bool
	log        *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	providers repository.ProviderRepository,
	otps repository.OTPStore,
	mailer Mailer,
	tokens *TokenIssuer,
	otpTTL time.Duration,
	production bool,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		providers:  providers,
		otps:       otps,
		mailer:     mailer,
		tokens:     tokens,
		otpTTL:     otpTTL,
		production: production,
		log:        log.Named("auth"),
	}
}

// SendOTP issues a registration code. The email must not already belong to
// a provider.
func (s *AuthService) SendOTP(ctx context.Context, input SendOTPInput) (*SendOTPResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	purpose := input.Purpose
	if purpose == "" {
		purpose = PurposeRegister
	}

	if purpose == PurposeRegister {
		_, err := s.providers.FindByEmail(ctx, input.Email)
		if err == nil {
			return nil, apperrors.Validation("Email already registered as provider")
		}
		if !errors.Is(err, repository.ErrProviderNotFound) {
			return nil, apperrors.Internal("Error sending OTP", err)
		}
	}

	return s.issueOTP(ctx, purpose, input.Email)
}

// VerifyOTP marks an existing user as verified.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) error {
	if err := validateStruct(input); err != nil {
		return err
	}
	if err := s.checkOTP(ctx, PurposeRegister, input.Email, input.OTP); err != nil {
		return err
	}
	if err := s.users.MarkVerified(ctx, input.Email); err != nil {
		return apperrors.Internal("Server error during OTP verification", err)
	}
	s.consumeOTP(ctx, PurposeRegister, input.Email)
	return nil
}

func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*AuthResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.checkOTP(ctx, PurposeRegister, input.Email, input.OTP); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Server error during registration", err)
	}

	user := &models.User{
		Name:       input.Name,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Mobile:     input.Mobile,
		Password:   string(hash),
		IsVerified: true,
		Address:    datatypes.NewJSONType(input.Address),
		Role:       models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, apperrors.Validation("Email already exists")
		}
		return nil, apperrors.Internal("Server error during registration", err)
	}
	s.consumeOTP(ctx, PurposeRegister, input.Email)

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return s.result(userSummary(user), user.Email)
}

// RegisterProvider creates a verified provider account from a registration
// code. Email and mobile must be free among providers.
func (s *AuthService) RegisterProvider(ctx context.Context, input RegisterProviderInput) (*AuthResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	address := models.Address{
		Street:  strings.TrimSpace(input.Address.Street),
		Street2: strings.TrimSpace(input.Address.Street2),
		City:    strings.TrimSpace(input.Address.City),
		State:   strings.TrimSpace(input.Address.State),
		Zip:     strings.TrimSpace(input.Address.Zip),
	}
	if address.Street == "" || address.State == "" || address.Zip == "" {
		return nil, apperrors.Validation("Address fields (street, state, zip) are required")
	}
	if err := s.checkOTP(ctx, PurposeRegister, input.Email, input.OTP); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	mobile := strings.TrimSpace(input.Mobile)
	if _, err := s.providers.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Validation("Email already registered as provider")
	} else if !errors.Is(err, repository.ErrProviderNotFound) {
		return nil, apperrors.Internal("Server error during provider registration", err)
	}
	if _, err := s.providers.FindByMobile(ctx, mobile); err == nil {
		return nil, apperrors.Validation("Mobile already registered as provider")
	} else if !errors.Is(err, repository.ErrProviderNotFound) {
		return nil, apperrors.Internal("Server error during provider registration", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Server error during provider registration", err)
	}

	provider := &models.Provider{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		Mobile:            mobile,
		Password:          string(hash),
		BusinessName:      strings.TrimSpace(input.BusinessName),
		BusinessType:      strings.TrimSpace(input.BusinessType),
		ServiceCategory:   strings.TrimSpace(input.ServiceCategory),
		Specialization:    strings.TrimSpace(input.Specialization),
		LicenseNumber:     strings.TrimSpace(input.LicenseNumber),
		YearsOfExperience: strings.TrimSpace(input.YearsOfExperience),
		Address:           datatypes.NewJSONType(address),
		Certifications:    datatypes.NewJSONSlice(input.Certifications),
		Education:         datatypes.NewJSONSlice(input.Education),
		Services:          datatypes.NewJSONSlice(input.Services),
		InsuranceAccepted: datatypes.NewJSONSlice(input.InsuranceAccepted),
		Languages:         datatypes.NewJSONSlice(input.Languages),
		IsVerified:        true,
		Role:              models.RoleProvider,
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, apperrors.Validation("Email or mobile already registered as provider")
		}
		return nil, apperrors.Internal("Server error during provider registration", err)
	}
	s.consumeOTP(ctx, PurposeRegister, input.Email)

	s.log.Info("provider registered", zap.Uint("provider_id", provider.ID))
	return s.result(providerSummary(provider), provider.Email)
}

func (s *AuthService) UserLogin(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NotFound("User not found. Please check your email or register as a user.")
		}
		return nil, apperrors.Internal("Server error during user login", err)
	}
	if err := checkAccount(user.IsVerified, user.IsBlocked, user.Password, input.Password); err != nil {
		return nil, err
	}

	return s.result(userSummary(user), user.Email)
}

func (s *AuthService) ProviderLogin(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	provider, err := s.providers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrProviderNotFound) {
			return nil, apperrors.NotFound("Provider not found. Please check your email or register as a provider.")
		}
		return nil, apperrors.Internal("Server error during provider login", err)
	}
	if err := checkAccount(provider.IsVerified, provider.IsBlocked, provider.Password, input.Password); err != nil {
		return nil, err
	}

	return s.result(providerSummary(provider), provider.Email)
}

// ForgotPassword sends a reset code to a user or provider account.
func (s *AuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) (*SendOTPResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	found, err := s.accountExists(ctx, input.Email)
	if err != nil {
		return nil, apperrors.Internal("Error sending OTP", err)
	}
	if !found {
		return nil, apperrors.NotFound("No account with that email")
	}
	return s.issueOTP(ctx, PurposeForgotPassword, input.Email)
}

// ResetPassword sets a new password on the user account with this email,
// or on the provider account when no user has it.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := validateStruct(input); err != nil {
		return err
	}
	if err := s.checkOTP(ctx, PurposeForgotPassword, input.Email, input.OTP); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to reset password", err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	affected, err := s.users.UpdatePassword(ctx, email, string(hash))
	if err != nil {
		return apperrors.Internal("Failed to reset password", err)
	}
	if affected == 0 {
		affected, err = s.providers.UpdatePassword(ctx, email, string(hash))
		if err != nil {
			return apperrors.Internal("Failed to reset password", err)
		}
	}
	if affected == 0 {
		return apperrors.NotFound("Account not found")
	}

	s.consumeOTP(ctx, PurposeForgotPassword, input.Email)
	return nil
}

func (s *AuthService) issueOTP(ctx context.Context, purpose, email string) (*SendOTPResult, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, apperrors.Internal("Error sending OTP", err)
	}
	if err := s.otps.Save(ctx, purpose, email, code, s.otpTTL); err != nil {
		return nil, apperrors.Internal("Error sending OTP", err)
	}

	subject, body := utils.OTPEmail(purpose, code, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(email, subject, body); err != nil {
		if s.production {
			return nil, apperrors.Internal("Failed to send OTP email. Please try again.", err)
		}
		s.log.Warn("otp email not delivered, returning code in response",
			zap.String("purpose", purpose), zap.Error(err))
		return &SendOTPResult{OTP: code}, nil
	}
	return &SendOTPResult{}, nil
}

func (s *AuthService) checkOTP(ctx context.Context, purpose, email, code string) error {
	stored, err := s.otps.Get(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return apperrors.Validation("Invalid or expired OTP")
		}
		return apperrors.Internal("Failed to verify OTP", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return apperrors.Validation("Invalid or expired OTP")
	}
	return nil
}

func (s *AuthService) consumeOTP(ctx context.Context, purpose, email string) {
	if err := s.otps.Delete(ctx, purpose, email); err != nil {
		s.log.Warn("failed to delete used otp", zap.String("purpose", purpose), zap.Error(err))
	}
}

func (s *AuthService) accountExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return false, err
	}
	if _, err := s.providers.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrProviderNotFound) {
		return false, err
	}
	return false, nil
}

func (s *AuthService) result(account AccountSummary, email string) (*AuthResult, error) {
	token, err := s.tokens.Issue(models.Principal{ID: account.ID, Role: account.Role, Email: email})
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthResult{User: account, Token: token, Role: account.Role}, nil
}

func checkAccount(verified, blocked bool, hash, password string) error {
	if !verified {
		return apperrors.Unauthorized("Please verify your email first")
	}
	if blocked {
		return apperrors.Forbidden("Your account has been blocked")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.Unauthorized("Invalid password")
	}
	return nil
}

func userSummary(user *models.User) AccountSummary {
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	address := user.Address.Data()
	return AccountSummary{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Mobile:     user.Mobile,
		IsVerified: user.IsVerified,
		Address:    &address,
		Role:       role,
		CreatedAt:  user.CreatedAt,
	}
}

func providerSummary(provider *models.Provider) AccountSummary {
	address := provider.Address.Data()
	return AccountSummary{
		ID:         provider.ID,
		Name:       provider.Name,
		Email:      provider.Email,
		Mobile:     provider.Mobile,
		IsVerified: provider.IsVerified,
		Address:    &address,
		Role:       models.RoleProvider,
		CreatedAt:  provider.CreatedAt,
	}
}
