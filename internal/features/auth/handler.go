package auth

import (
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/taskhive/taskhive-api/internal/config"
	idToken "github.com/taskhive/taskhive-api/internal/pkg/jwt"
	"github.com/taskhive/taskhive-api/internal/pkg/logger"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
)

// Handler handles authentication and account HTTP requests
type Handler struct {
	repo           *Repository
	firebaseClient *firebaseauth.Client
	cfg            *config.Config
}

func NewHandler(repo *Repository, firebaseClient *firebaseauth.Client, cfg *config.Config) *Handler {
	return &Handler{
		repo:           repo,
		firebaseClient: firebaseClient,
		cfg:            cfg,
	}
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Verify a Google ID token, create the account on first login and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	googleUser, err := h.verifyIDToken(c, req.GoogleIDToken)
	if err != nil {
		response.Unauthorized(c, "Invalid Google token", "INVALID_GOOGLE_TOKEN")
		return
	}

	if !googleUser.EmailVerified {
		response.Unauthorized(c, "Email not verified with Google", "EMAIL_NOT_VERIFIED")
		return
	}

	user, err := h.repo.GetUserByProviderID(c.Request.Context(), "google", googleUser.UID)
	if err != nil {
		logger.Error("google login lookup failed: %v", err)
		response.DatabaseError(c, "Failed to sign in")
		return
	}

	if user == nil {
		role := req.Role
		if role == "" {
			role = RoleClient
		}

		user = &User{
			AuthProvider: "google",
			ProviderID:   googleUser.UID,
			Email:        googleUser.Email,
			Username:     GenerateUsername(googleUser.Email),
			DisplayName:  googleUser.Name,
			AvatarURL:    googleUser.Picture,
			Role:         role,
			IsActive:     true,
		}

		if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
			logger.Error("google login create failed: %v", err)
			response.DatabaseError(c, "Failed to create account")
			return
		}
	}

	jwtCfg := idToken.DefaultConfig(h.cfg.JWTSecret)
	jwtCfg.AccessExpiry = time.Duration(h.cfg.JWTExpire) * time.Hour

	accessToken, err := idToken.GenerateToken(user.ID.Hex(), user.Email, user.Role, jwtCfg)
	if err != nil {
		logger.Error("token generation failed: %v", err)
		response.InternalServerError(c, "Failed to generate token", "TOKEN_FAILED")
		return
	}

	response.Success(c, AuthResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// verifyIDToken prefers the Firebase Admin verification when configured and
// falls back to raw Google ID token validation.
func (h *Handler) verifyIDToken(c *gin.Context, rawToken string) (*GoogleUser, error) {
	if h.firebaseClient != nil {
		token, err := h.firebaseClient.VerifyIDToken(c.Request.Context(), rawToken)
		if err == nil {
			gu := &GoogleUser{UID: token.UID}
			if email, ok := token.Claims["email"].(string); ok {
				gu.Email = email
			}
			if name, ok := token.Claims["name"].(string); ok {
				gu.Name = name
			}
			if picture, ok := token.Claims["picture"].(string); ok {
				gu.Picture = picture
			}
			if verified, ok := token.Claims["email_verified"].(bool); ok {
				gu.EmailVerified = verified
			}
			return gu, nil
		}
	}

	return VerifyGoogleToken(c.Request.Context(), rawToken, h.cfg.GoogleClientID)
}

// GetMe godoc
// @Summary Get current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	response.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 400 {object} response.APIResponse
// @Router /auth/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	updates := bson.M{}
	if req.DisplayName != "" {
		updates["displayName"] = req.DisplayName
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.AvatarURL != "" {
		updates["avatarUrl"] = req.AvatarURL
	}

	if len(updates) == 0 {
		response.BadRequest(c, "No fields to update", "EMPTY_UPDATE")
		return
	}

	if err := h.repo.UpdateUser(c.Request.Context(), user.ID, updates); err != nil {
		logger.Error("profile update failed: %v", err)
		response.DatabaseError(c, "Failed to update profile")
		return
	}

	updated, err := h.repo.GetUserByOID(c.Request.Context(), user.ID)
	if err != nil {
		response.DatabaseError(c, "Failed to load profile")
		return
	}

	response.Success(c, updated)
}

// GetPublicProfile godoc
// @Summary Get a public profile
// @Tags auth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=PublicProfile}
// @Failure 404 {object} response.APIResponse
// @Router /users/{id} [get]
func (h *Handler) GetPublicProfile(c *gin.Context) {
	user, err := h.repo.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	response.Success(c, user.ToPublicProfile())
}

// DeleteAccount godoc
// @Summary Delete own account (soft)
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	if err := h.repo.SoftDeleteUser(c.Request.Context(), user.ID); err != nil {
		logger.Error("account delete failed: %v", err)
		response.DatabaseError(c, "Failed to delete account")
		return
	}

	response.Success(c, nil, "Account deleted")
}
