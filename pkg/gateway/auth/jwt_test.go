package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/radiographapp/backend/pkg/common/models"
	"github.com/stretchr/testify/assert"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("unit-test-secret-0123", "radiographapp", "radiographapp-clients", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	user := models.User{ID: uuid.New(), Email: "doc@example.com"}

	token, err := manager.IssueToken(user)
	assert.NoError(t, err)

	claims, err := manager.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "radiographapp", claims.Issuer)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	manager := newTestManager(t)
	token, err := manager.IssueToken(models.User{ID: uuid.New(), Email: "doc@example.com"})
	assert.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := strings.Join([]string{parts[0], parts[1], "forged-signature"}, ".")

	_, err = manager.ValidateToken(context.Background(), tampered)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := newTestManager(t)
	user := models.User{ID: uuid.New(), Email: "doc@example.com"}

	token, err := manager.IssueToken(user)
	assert.NoError(t, err)

	manager.nowFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = manager.ValidateToken(context.Background(), token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	issuerA := newTestManager(t)

	other, err := NewJWTManager("unit-test-secret-0123", "radiographapp", "another-audience", time.Hour)
	assert.NoError(t, err)

	token, err := other.IssueToken(models.User{ID: uuid.New(), Email: "doc@example.com"})
	assert.NoError(t, err)

	_, err = issuerA.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	_, err := NewJWTManager("short", "iss", "aud", time.Hour)
	assert.Error(t, err)
}
