package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"localit/internal/auth"
	"localit/internal/mocks"
	"localit/internal/models"
	"localit/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", handler.Signup)
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set("userID", 1)
		handler.Me(c)
	})
	return r
}

func TestSignupSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	userRepo.On("CreateUser", mock.Anything, "ana@example.com", "Ana", mock.Anything).
		Return(models.User{ID: 1, Email: "ana@example.com", Name: "Ana"}, nil).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","name":"Ana","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["token"])
	userRepo.AssertExpectations(t)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	body := bytes.NewBufferString(`{"email":"ana@example.com","name":"Ana","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupEmailTaken(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	userRepo.On("CreateUser", mock.Anything, "ana@example.com", "Ana", mock.Anything).
		Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","name":"Ana","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := NewAuthHandler(userRepo, tokens, nil)
	router := setupAuthRouter(handler)

	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)
	userRepo.On("GetUserByEmail", mock.Anything, "ana@example.com").
		Return(models.User{ID: 1, Email: "ana@example.com", PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 1, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)
	userRepo.On("GetUserByEmail", mock.Anything, "ana@example.com").
		Return(models.User{ID: 1, PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrongwrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"nobody@example.com","password":"whatever42"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, auth.NewTokenManager("test-secret", time.Hour), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetUser", mock.Anything, 1).
		Return(models.User{ID: 1, Email: "ana@example.com", Name: "Ana"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "Ana", user.Name)
	userRepo.AssertExpectations(t)
}
