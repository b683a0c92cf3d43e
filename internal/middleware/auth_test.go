package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/models"
)

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	var gotEmail, gotID, gotRole string
	handler := RequireAuth(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = GetEmail(r.Context())
		gotID = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent, ""},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "No authorization token was found."},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "No authorization token was found."},
		{"bad token", "Bearer garbage", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotEmail = ""
			req := httptest.NewRequest(http.MethodPost, "/api/trips", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusNoContent {
				var body ErrorBody
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.NotEmpty(t, body.Message)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, body.Message)
				}
				assert.Empty(t, gotEmail)
				return
			}
			assert.Equal(t, "alice@example.com", gotEmail)
			assert.Equal(t, user.ID.Hex(), gotID)
			assert.Equal(t, models.RoleUser, gotRole)
		})
	}
}
