package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
	"github.com/hiraya-ph/outage-watch/backend/pkg/mailer"
)

const otpTTL = 10 * time.Minute

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
	otpRepository     repositories.OTPRepository
	mail              mailer.Mailer
	jwtSecret         string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	otpRepo repositories.OTPRepository,
	mail mailer.Mailer,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userRepository:    userRepo,
		profileRepository: profileRepo,
		otpRepository:     otpRepo,
		mail:              mail,
		jwtSecret:         jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/verify", h.VerifyOTP)
	g.POST("/resend", h.ResendCode)
	g.POST("/signin", h.SignIn)
}

// RegisterSessionRoutes registers the authenticated session route
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

// Signup registers a user and mails a verification code. The account stays
// unverified until the code is confirmed.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if existing, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		if !existing.Verified {
			return echo.NewHTTPError(http.StatusConflict, "Account exists but is unverified. Request a new code.")
		}
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		Barangay:  req.Barangay,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	code, err := generateOTP()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate verification code")
	}
	if err := h.otpRepository.SaveCode(c.Request().Context(), req.Email, code, otpTTL); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store verification code")
	}
	if err := h.mail.SendOTP(req.Email, code); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Verification code sent. Confirm to activate your account.",
	})
}

// VerifyOTP activates the account once the mailed code is confirmed.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ok, err := h.otpRepository.ConsumeCode(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check verification code")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired verification code")
	}

	if err := h.userRepository.MarkVerified(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to activate account")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account verified. You can sign in now."})
}

// ResendCode mails a fresh verification code to an unverified account, so a
// lost or failed mail does not strand the signup.
func (h *AuthHandler) ResendCode(c echo.Context) error {
	var req models.ResendCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No account for this email")
	}
	if user.Verified {
		return echo.NewHTTPError(http.StatusConflict, "Account is already verified")
	}

	code, err := generateOTP()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate verification code")
	}
	if err := h.otpRepository.SaveCode(c.Request().Context(), req.Email, code, otpTTL); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store verification code")
	}
	if err := h.mail.SendOTP(req.Email, code); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification code sent."})
}

// SignIn authenticates with email and password and returns a token plus the
// merged account view.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !user.Verified {
		return echo.NewHTTPError(http.StatusForbidden, "Account not verified yet")
	}

	account, err := h.mergedAccount(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "account": account})
}

// Me returns the merged account view for the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	account, err := h.mergedAccount(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) mergedAccount(user *models.User) (models.Account, error) {
	profile, err := h.profileRepository.GetProfile(user.ID)
	if err != nil {
		return models.Account{}, err
	}
	return models.MergeAccount(user, profile), nil
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
