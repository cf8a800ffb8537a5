package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/caminoadmin/comunidades-go/internal/auth"
	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/models"
	"github.com/caminoadmin/comunidades-go/internal/repository"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginResponse struct {
	Token       string    `json:"token"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
}

// AuthHandler serves sign-up and sign-in.
type AuthHandler struct {
	users      *repository.AuthUserRepository
	jwtService *auth.JWTService
	log        *logger.Logger
}

func NewAuthHandler(users *repository.AuthUserRepository, jwtService *auth.JWTService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtService: jwtService, log: log}
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña inválidos"})
		return
	}

	if !user.LoginEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "El acceso está deshabilitado para este usuario"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña inválidos"})
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if err := h.users.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:       token,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	})
}

// Register creates a new login account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El correo no es válido"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.AuthUser{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
		LoginEnabled: true,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if err == repository.ErrEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "Ya existe un usuario con ese correo"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, LoginResponse{
		Token:       token,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	})
}
