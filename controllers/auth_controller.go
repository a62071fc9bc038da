package controllers

import (
	"crypto/rand"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillmap-backend/config"
	"skillmap-backend/models"
	"skillmap-backend/services"
	"skillmap-backend/store"
	"skillmap-backend/utils"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sent for every forgot-password request so the response never reveals
// whether the account exists.
const resetRequestedMessage = "If an account with this email exists, a verification code has been sent to your email address."

type AuthController struct {
	Store      store.Store
	Cfg        *config.Config
	ResetCodes store.ResetCodeStore
	Mailer     services.Mailer
	Logger     *log.Logger
}

func NewAuthController(s store.Store, cfg *config.Config, codes store.ResetCodeStore, mailer services.Mailer, logger *log.Logger) *AuthController {
	return &AuthController{Store: s, Cfg: cfg, ResetCodes: codes, Mailer: mailer, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) bool {
	return len(password) >= 6
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Name, email, and password are required")
	}

	email := normalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return utils.BadRequest(c, "Invalid email format")
	}
	if !validatePassword(input.Password) {
		return utils.BadRequest(c, "Password must be at least 6 characters long")
	}

	existing, err := ac.Store.FindUserByEmail(email)
	if err != nil {
		return utils.InternalServerError(c, "Failed to register user")
	}
	if existing != nil {
		return utils.Conflict(c, "User with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return utils.InternalServerError(c, "Failed to register user")
	}

	now := time.Now().UTC()
	user := models.User{
		ID:          "user_" + uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    string(hashedPassword),
		CreatedAt:   now,
		LastLoginAt: now,
	}
	if err := ac.Store.SaveUser(user); err != nil {
		return utils.InternalServerError(c, "Failed to register user")
	}

	// Seed an empty progress record for the new account.
	if err := ac.Store.SaveUserProgress(*models.NewUserProgress(user.ID)); err != nil {
		return utils.InternalServerError(c, "Failed to register user")
	}

	token, err := utils.GenerateJWTToken(user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Failed to register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user.Public(),
		"token":   token,
		"message": "Authentication successful",
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates by email and password and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	user, err := ac.Store.FindUserByEmail(normalizeEmail(input.Email))
	if err != nil {
		return utils.InternalServerError(c, "Failed to login")
	}
	if user == nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	// Login touches only the user record; the progress record is owned by
	// the tracker and stays untouched.
	user.LastLoginAt = time.Now().UTC()
	if err := ac.Store.SaveUser(*user); err != nil {
		return utils.InternalServerError(c, "Failed to login")
	}

	token, err := utils.GenerateJWTToken(*user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Failed to login")
	}

	return c.JSON(fiber.Map{
		"user":    user.Public(),
		"token":   token,
		"message": "Authentication successful",
	})
}

// Verify resolves the bearer token back to its user.
func (ac *AuthController) Verify(c *fiber.Ctx) error {
	claims, err := utils.ExtractClaimsFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	user, err := ac.Store.FindUserByID(claims.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to verify token")
	}
	if user == nil {
		return utils.NotFound(c, "User not found")
	}

	return c.JSON(fiber.Map{"user": user.Public()})
}

// ForgotPassword stores a 6-digit code and emails it. The response is the
// same whether or not the account exists.
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	type ForgotInput struct {
		Email string `json:"email"`
	}

	var input ForgotInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	email := normalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return utils.BadRequest(c, "Invalid email format")
	}

	code := generateResetCode()
	ac.ResetCodes.Set(email, code, ac.Cfg.ResetCodeTTL)

	if err := ac.Mailer.SendResetCode(email, code); err != nil {
		// A delivery failure must not change the response.
		ac.Logger.Printf("reset code email to %s failed: %v", email, err)
	}

	return utils.Message(c, fiber.StatusOK, resetRequestedMessage)
}

// VerifyResetCode checks a code without consuming it; the reset step still
// needs it.
func (ac *AuthController) VerifyResetCode(c *fiber.Ctx) error {
	type VerifyInput struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	var input VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	email := normalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return utils.BadRequest(c, "Email and code are required")
	}

	stored, ok := ac.ResetCodes.Get(email)
	if !ok || stored != code {
		return utils.BadRequest(c, "Invalid or expired verification code")
	}

	return utils.Message(c, fiber.StatusOK, "Verification code is valid")
}

// ResetPassword replaces the credential hash after re-checking the code. A
// successful reset never touches the user's progress data.
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	type ResetInput struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}

	var input ResetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	email := normalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" || input.NewPassword == "" {
		return utils.BadRequest(c, "Email, code, and new password are required")
	}

	stored, ok := ac.ResetCodes.Get(email)
	if !ok || stored != code {
		return utils.BadRequest(c, "Invalid or expired verification code")
	}

	if !validatePassword(input.NewPassword) {
		return utils.BadRequest(c, "Password must be at least 6 characters long")
	}

	user, err := ac.Store.FindUserByEmail(email)
	if err != nil {
		return utils.InternalServerError(c, "Failed to update password")
	}
	if user == nil {
		return utils.NotFound(c, "User not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), 12)
	if err != nil {
		return utils.InternalServerError(c, "Failed to update password")
	}
	user.Password = string(hashedPassword)
	if err := ac.Store.SaveUser(*user); err != nil {
		return utils.InternalServerError(c, "Failed to update password")
	}

	ac.ResetCodes.Delete(email)

	return utils.Message(c, fiber.StatusOK, "Password reset successfully")
}

func generateResetCode() string {
	// 6 digits, 100000-999999.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 900000)
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String()
}
