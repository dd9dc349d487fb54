package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/auth"
	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/pkg/firebase"
	"github.com/anonto42/microblog/pkg/mail"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenManager
	mailer         mail.Mailer
	sender         string
	firebaseAuth   firebase.TokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, mailer mail.Mailer, sender string, firebaseAuth firebase.TokenVerifier) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		mailer:         mailer,
		sender:         sender,
		firebaseAuth:   firebaseAuth,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/reset_password_request", h.ResetPasswordRequest)
	g.POST("/reset_password/:token", h.ResetPassword)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Register creates a local account with a username, email and password.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user := &models.User{Username: req.Username, Email: req.Email}
	if err := user.SetPassword(req.Password); err != nil {
		return internalError(c, err)
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return uniqueError(c, err)
	}

	return success(c, http.StatusCreated, i18n.T(c, i18n.MsgRegistered), user.ToCompact())
}

// Login exchanges a username and password for a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(req.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return internalError(c, err)
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, i18n.T(c, i18n.MsgInvalidCredentials))
	}

	token, err := h.tokens.Issue(user, auth.SessionTTL)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// ResetPasswordRequest mails a reset link when the address belongs to a user.
// The response is the same either way so callers cannot tell which addresses are registered.
func (h *AuthHandler) ResetPasswordRequest(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	switch {
	case err == nil:
		if err := h.sendPasswordResetEmail(c, user); err != nil {
			return internalError(c, err)
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return internalError(c, err)
	}

	return success(c, http.StatusOK, i18n.T(c, i18n.MsgResetEmailSent), nil)
}

func (h *AuthHandler) sendPasswordResetEmail(c echo.Context, user *models.User) error {
	token, err := h.tokens.ResetPasswordToken(user)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s://%s/api/v1/auth/reset_password/%s", c.Scheme(), c.Request().Host, token)

	mail.SendAsync(h.mailer, mail.Message{
		Subject:    "[Microblog] Reset Your Password",
		Sender:     h.sender,
		Recipients: []string{user.Email},
		TextBody: fmt.Sprintf("Dear %s,\n\nTo reset your password send a POST request with your new password to:\n\n%s\n\n"+
			"If you have not requested a password reset simply ignore this message.\n\nSincerely,\n\nThe Microblog Team\n",
			user.Username, link),
		HTMLBody: fmt.Sprintf("<p>Dear %s,</p><p>To reset your password send a POST request with your new password to:</p>"+
			"<p><code>%s</code></p><p>If you have not requested a password reset simply ignore this message.</p>"+
			"<p>Sincerely,</p><p>The Microblog Team</p>",
			html.EscapeString(user.Username), html.EscapeString(link)),
	})
	return nil
}

// ResetPassword sets a new password for the user named in the reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	userID, err := h.tokens.VerifyResetPasswordToken(c.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidToken))
	}

	var req models.ResetPasswordForm
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, i18n.T(c, i18n.MsgInvalidToken))
		}
		return internalError(c, err)
	}
	if err := user.SetPassword(req.Password); err != nil {
		return internalError(c, err)
	}
	if err := h.userRepository.UpdateUser(user); err != nil {
		return internalError(c, err)
	}

	return success(c, http.StatusOK, i18n.T(c, i18n.MsgPasswordReset), nil)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin handles Firebase ID token verification and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.firebaseUser(identity)
	if errors.Is(err, firebase.ErrEmailNotVerified) {
		return echo.NewHTTPError(http.StatusUnauthorized, i18n.T(c, i18n.MsgEmailNotVerified))
	}
	if err != nil {
		return internalError(c, err)
	}

	token, err := h.tokens.Issue(user, auth.SessionTTL)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// firebaseUser finds the local account for a Firebase identity, linking by
// email or creating one on first login. Only a verified email may claim an
// existing account.
func (h *AuthHandler) firebaseUser(identity *firebase.Identity) (*models.User, error) {
	user, err := h.userRepository.GetUserByFirebaseUID(identity.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	uid := identity.UID
	user, err = h.userRepository.GetUserByEmail(identity.Email)
	switch {
	case err == nil:
		if !identity.EmailVerified {
			return nil, firebase.ErrEmailNotVerified
		}
		user.FirebaseUID = &uid
		if err := h.userRepository.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	base := usernameFrom(identity)
	for i := 0; i < 100; i++ {
		username := base
		if i > 0 {
			username = fmt.Sprintf("%s%d", base, i)
		}
		user = &models.User{Username: username, Email: identity.Email, FirebaseUID: &uid}
		err = h.userRepository.CreateUser(user)
		if !errors.Is(err, repositories.ErrUsernameTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("Created user from Firebase login")
	return user, nil
}

var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func usernameFrom(identity *firebase.Identity) string {
	name := identity.Name
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}
	name = nonAlphanumeric.ReplaceAllString(name, "")
	if name == "" {
		name = "user"
	}
	if r := []rune(name); len(r) > 60 {
		name = string(r[:60])
	}
	return name
}

func uniqueError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repositories.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, i18n.T(c, i18n.MsgUsernameTaken))
	case errors.Is(err, repositories.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, i18n.T(c, i18n.MsgEmailTaken))
	default:
		return internalError(c, err)
	}
}
