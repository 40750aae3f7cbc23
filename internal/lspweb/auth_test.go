package lspweb

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := NewAuthService("super-secret", time.Hour)

	token, err := svc.IssueToken("client-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/lsp", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	sub, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "client-1", sub)
}

func TestAuthServiceRejectsMissingHeader(t *testing.T) {
	svc := NewAuthService("super-secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/lsp", nil)

	_, err := svc.ValidateRequest(req)
	assert.Error(t, err)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour)
	verifier := NewAuthService("secret-b", time.Hour)

	token, err := issuer.IssueToken("client-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/lsp", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = verifier.ValidateRequest(req)
	assert.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("super-secret", -time.Hour)
	token, err := svc.IssueToken("client-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/lsp", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = svc.ValidateRequest(req)
	assert.Error(t, err)
}
