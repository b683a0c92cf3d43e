package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/mail"
)

const mailTimeout = 30 * time.Second

// AuthService registers and logs in users and issues their tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	mailer        mail.Sender
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. mailer may be nil,
// in which case no confirmation e-mail is sent.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, mailer mail.Sender, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		mailer:        mailer,
		validate:      validator.New(),
		logger:        loggerOrDefault(logger),
	}
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", errValidation("All fields required.")
	}
	if err := s.validateEmail(email); err != nil {
		return "", err
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return "", errConflict("%s", err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			return "", errValidation("%s", err.Error())
		}
		return "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID.Hex(), "error", err)
		return "", err
	}

	if s.mailer != nil {
		go s.sendConfirmation(user.Email, user.Name)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID.Hex(), "email", user.Email)
	return token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errValidation("All fields required.")
	}
	if err := s.validateEmail(email); err != nil {
		return "", err
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrIncorrectUsername) || errors.Is(err, auth.ErrIncorrectPassword) {
			s.logger.Warn("Login failed", "email", email, "error", err)
			return "", errUnauthenticated("%s", err.Error())
		}
		return "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID.Hex(), "error", err)
		return "", err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID.Hex(), "email", user.Email)
	return token, nil
}

func (s *AuthService) validateEmail(email string) error {
	if strings.ContainsRune(email, 0) || s.validate.Var(email, "email") != nil {
		return errValidation("E-mail is not valid!")
	}
	return nil
}

// sendConfirmation runs detached from the request; failures are only logged.
func (s *AuthService) sendConfirmation(email, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := s.mailer.Send(ctx, email, mail.RegistrationSubject, mail.RegistrationBody(name)); err != nil {
		s.logger.Error("Failed to send registration e-mail", "email", email, "error", err)
		return
	}
	s.logger.Info("Registration e-mail sent", "email", email)
}
