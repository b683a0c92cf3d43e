package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/myfishingdiary/internal/auth"
)

// recordingMailer captures sent messages.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	done chan struct{}
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, to+"|"+subject+"|"+body)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

func newAuthService(t *testing.T, mailer *recordingMailer) (*AuthService, *auth.JWTManager) {
	t.Helper()
	store := newTestStore(t)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	if mailer == nil {
		return NewAuthService(authenticator, jwtManager, nil, nil), jwtManager
	}
	return NewAuthService(authenticator, jwtManager, mailer, nil), jwtManager
}

func TestRegister(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}, 1)}
	svc, jwtManager := newAuthService(t, mailer)
	ctx := context.Background()

	token, err := svc.Register(ctx, "Alice", "alice@example.com", "long-enough")
	require.NoError(t, err)
	claims, err := jwtManager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "user", claims.Role)

	select {
	case <-mailer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation e-mail was not sent")
	}
	mailer.mu.Lock()
	assert.Equal(t, []string{"alice@example.com|Registration Confirmation|Hello Alice. You have been successfully registered to MyFishingDiary. Welcome!"}, mailer.sent)
	mailer.mu.Unlock()

	tests := []struct {
		name                  string
		userName, email, pass string
		check                 func(t *testing.T, err error)
	}{
		{"missing name", "", "bob@example.com", "long-enough", func(t *testing.T, err error) {
			assert.Equal(t, "All fields required.", requireErrorType[*ValidationError](t, err).Message)
		}},
		{"invalid email", "Bob", "bob.example.com", "long-enough", func(t *testing.T, err error) {
			assert.Equal(t, "E-mail is not valid!", requireErrorType[*ValidationError](t, err).Message)
		}},
		{"nul byte", "Bob", "bob@example.com\x00", "long-enough", func(t *testing.T, err error) {
			assert.Equal(t, "E-mail is not valid!", requireErrorType[*ValidationError](t, err).Message)
		}},
		{"short password", "Bob", "bob@example.com", "short", func(t *testing.T, err error) {
			requireErrorType[*ValidationError](t, err)
		}},
		{"duplicate", "Alice", "alice@example.com", "long-enough", func(t *testing.T, err error) {
			requireErrorType[*ConflictError](t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.pass)
			tt.check(t, err)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, jwtManager := newAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "long-enough")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice@example.com", "long-enough")
	require.NoError(t, err)
	_, err = jwtManager.Validate(token)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.Equal(t, "Incorrect password.", requireErrorType[*UnauthenticatedError](t, err).Message)

	_, err = svc.Login(ctx, "nobody@example.com", "long-enough")
	assert.Equal(t, "Incorrect username.", requireErrorType[*UnauthenticatedError](t, err).Message)

	_, err = svc.Login(ctx, "", "x")
	assert.Equal(t, "All fields required.", requireErrorType[*ValidationError](t, err).Message)
}
