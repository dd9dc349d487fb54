package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var (
	// ErrNoEmail is returned for ID tokens that carry no email claim.
	ErrNoEmail = errors.New("firebase token has no email claim")
	// ErrEmailNotVerified is returned when an unverified email would be linked to an existing account.
	ErrEmailNotVerified = errors.New("firebase email is not verified")
)

// Identity is what the API needs from a verified Firebase ID token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// TokenVerifier checks a Firebase ID token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logrus.Info("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// Optional initializes Firebase when a credentials path is configured. Any
// failure disables Firebase login instead of stopping the server.
func Optional(ctx context.Context, credentialsPath string) TokenVerifier {
	if credentialsPath == "" {
		return nil
	}
	app, err := InitFirebase(ctx, credentialsPath)
	if err != nil {
		logrus.WithError(err).Warn("Firebase login disabled")
		return nil
	}
	return app
}

func (a *App) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return identityFromToken(token)
}

func identityFromToken(token *auth.Token) (*Identity, error) {
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, ErrNoEmail
	}
	verified, _ := token.Claims["email_verified"].(bool)
	name, _ := token.Claims["name"].(string)
	return &Identity{UID: token.UID, Email: email, EmailVerified: verified, Name: name}, nil
}
