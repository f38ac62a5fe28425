package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/middleware"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"github.com/pushp314/coursehub-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// --- Local Auth ---

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	if len(input.Password) < minPasswordLength {
		_ = c.Error(apperrors.ValidationFailed("Password must be at least 6 characters", "password"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		_ = c.Error(apperrors.Internal("Failed to hash password"))
		return
	}

	user := models.User{
		ID:       utils.GenerateID(),
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := h.repo.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			_ = c.Error(apperrors.Conflict("An account with this email already exists. Please sign in instead."))
			return
		}
		_ = c.Error(apperrors.Unavailable("Failed to create account", err))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		_ = c.Error(apperrors.Internal("Failed to generate token"))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered successfully")
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.repo.FindUserByEmail(c.Request.Context(), normalizeEmail(input.Email))
	if err != nil || user.DeletedAt.Valid || user.Password == "" {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			_ = c.Error(apperrors.Unavailable("Login failed", err))
			return
		}
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		_ = c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		_ = c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		_ = c.Error(apperrors.Internal("Failed to generate token"))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until it expires.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := c.MustGet(middleware.ContextClaims).(*utils.Claims)
	if !ok || claims.GetJTI() == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	if err := h.cache.BlacklistToken(c.Request.Context(), claims.GetJTI(), claims.GetExpiresAt()); err != nil {
		// the token stays valid until expiry; the client still drops it
		logger.Error().Err(err).Str("jti", claims.GetJTI()).Msg("Failed to blacklist token")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.repo.FindUserByID(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(apperrors.Unauthorized("User not found or inactive"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// --- OAuth ---

const oauthStateCookie = "oauth_state"

type oauthProviders struct {
	google *oauth2.Config
	github *oauth2.Config
}

func newOAuthProviders(cfg *config.Config) *oauthProviders {
	p := &oauthProviders{}

	if cfg.GoogleClientID != "" {
		p.google = &oauth2.Config{
			RedirectURL:  cfg.GoogleCallbackURL,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	} else {
		logger.Warn().Msg("Google OAuth keys missing")
	}

	if cfg.GithubClientID != "" {
		p.github = &oauth2.Config{
			RedirectURL:  cfg.GithubCallbackURL,
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		}
	} else {
		logger.Warn().Msg("GitHub OAuth keys missing")
	}

	return p
}

// oauthProfile is the identity both providers resolve to.
type oauthProfile struct {
	Email string
	Name  string
	Image string
}

func (h *Handler) startOAuth(c *gin.Context, provider *oauth2.Config, name string) {
	if provider == nil {
		_ = c.Error(apperrors.Unavailable(name+" OAuth not configured", nil))
		return
	}

	state := utils.GenerateID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/api/auth", "", h.cfg.Env == "production", true)
	c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
}

// exchangeOAuth checks the state cookie and trades the code for an HTTP client.
func (h *Handler) exchangeOAuth(c *gin.Context, provider *oauth2.Config, name string) (*http.Client, bool) {
	if provider == nil {
		_ = c.Error(apperrors.Unavailable(name+" OAuth not configured", nil))
		return nil, false
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		_ = c.Error(apperrors.BadRequest("Invalid OAuth state"))
		return nil, false
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/auth", "", h.cfg.Env == "production", true)

	token, err := provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.Error().Err(err).Str("provider", name).Msg("OAuth exchange failed")
		_ = c.Error(apperrors.BadRequest("Failed to exchange token"))
		return nil, false
	}
	return provider.Client(c.Request.Context(), token), true
}

func fetchJSON(ctx context.Context, client *http.Client, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	h.startOAuth(c, h.oauth.google, "Google")
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	client, ok := h.exchangeOAuth(c, h.oauth.google, "Google")
	if !ok {
		return
	}

	var userInfo struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(c.Request.Context(), client, "https://www.googleapis.com/oauth2/v2/userinfo", &userInfo); err != nil {
		logger.Error().Err(err).Msg("Failed to get Google user info")
		_ = c.Error(apperrors.Unavailable("Failed to get user info", err))
		return
	}

	h.finishOAuthLogin(c, oauthProfile{Email: userInfo.Email, Name: userInfo.Name, Image: userInfo.Picture})
}

func (h *Handler) GithubLogin(c *gin.Context) {
	h.startOAuth(c, h.oauth.github, "GitHub")
}

func (h *Handler) GithubCallback(c *gin.Context) {
	client, ok := h.exchangeOAuth(c, h.oauth.github, "GitHub")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var userInfo struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user", &userInfo); err != nil {
		logger.Error().Err(err).Msg("Failed to get GitHub user info")
		_ = c.Error(apperrors.Unavailable("Failed to get user info", err))
		return
	}

	// Private emails are only listed by the emails endpoint
	if userInfo.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := fetchJSON(ctx, client, "https://api.github.com/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					userInfo.Email = e.Email
					break
				}
			}
		}
	}
	if userInfo.Name == "" {
		userInfo.Name = userInfo.Login
	}

	h.finishOAuthLogin(c, oauthProfile{Email: userInfo.Email, Name: userInfo.Name, Image: userInfo.AvatarURL})
}

// resolveOAuthUser finds the account for the profile's email, restoring a soft-deleted
// one, or registers a new account when registration is open.
func (h *Handler) resolveOAuthUser(ctx context.Context, profile oauthProfile) (*models.User, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, apperrors.BadRequest("OAuth provider did not return a verified email")
	}

	user, err := h.repo.FindUserByEmail(ctx, email)
	if err == nil {
		if user.DeletedAt.Valid {
			if err := h.repo.RestoreUser(ctx, user.ID); err != nil {
				return nil, apperrors.Unavailable("Failed to restore account", err)
			}
			logger.Info().Str("user_id", user.ID).Msg("Restored soft-deleted user via OAuth")
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unavailable("Database error during login process", err)
	}

	open, err := h.repo.GetSetting(ctx, models.SettingRegistrationOpen)
	if err != nil {
		return nil, apperrors.Unavailable("Database error during login process", err)
	}
	if open == "false" {
		return nil, apperrors.Unavailable("User registration is currently closed", nil)
	}

	now := time.Now()
	user = &models.User{
		ID:            utils.GenerateID(),
		Email:         email,
		EmailVerified: &now,
		Name:          profile.Name,
		Image:         profile.Image,
		Role:          models.RoleUser,
	}
	if err := h.repo.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Unavailable("Account creation failed", err)
	}
	logger.Info().Str("user_id", user.ID).Msg("New user registered via OAuth")
	return user, nil
}

func (h *Handler) finishOAuthLogin(c *gin.Context, profile oauthProfile) {
	user, err := h.resolveOAuthUser(c.Request.Context(), profile)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token during OAuth")
		_ = c.Error(apperrors.Internal("Failed to generate token"))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in via OAuth")
	redirectURL := fmt.Sprintf("%s/oauth-callback?token=%s", strings.TrimRight(h.cfg.FrontendURL, "/"), url.QueryEscape(token))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
