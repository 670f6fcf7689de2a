package router

import (
	"strings"

	"github.com/ram-us/internal/authz"
	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

const adminIsSuperContextKey = "admin_is_super"

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// bearerToken 取 Authorization: Bearer <token>；失败时已写出 401
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthorized(c, "error.auth_header_missing")
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || scheme != "Bearer" || token == "" {
		abortUnauthorized(c, "error.auth_header_invalid")
		return "", false
	}
	return token, true
}

// JWTAuthMiddleware 管理员 Token 校验；TokenVersion 与快照不一致视为已吊销
func JWTAuthMiddleware(secretKey string, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		raw, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := service.ParseAdminToken(raw, secretKey)
		if err != nil || authService == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		state, err := authService.ResolveAdminState(c.Request.Context(), claims.AdminID)
		if err != nil || state == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if state.TokenVersion != claims.TokenVersion {
			abortUnauthorized(c, "error.token_revoked")
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Set("username", state.Username)
		c.Set(adminIsSuperContextKey, state.IsSuper)
		c.Next()
	}
}

// AdminRBACMiddleware 超级管理员放行，其余按路由模板与方法查 casbin
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}
		adminID := c.GetUint("admin_id")
		if adminID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceAdmin(adminID, route, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed", "admin_id", adminID, "route", route, "error", err)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"route", authz.NormalizeObject(route),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserJWTAuthMiddleware 买家 Token 校验，禁用账号与吊销 Token 拒绝访问
func UserJWTAuthMiddleware(secretKey string, userAuthService *service.UserAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		raw, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := service.ParseUserToken(raw, secretKey)
		if err != nil || userAuthService == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		state, err := userAuthService.ResolveUserState(c.Request.Context(), claims.UserID)
		switch {
		case err != nil || state == nil:
			abortUnauthorized(c, "error.token_invalid")
		case !isActiveUserStatus(state.Status):
			abortUnauthorized(c, "error.user_disabled")
		case state.TokenVersion != claims.TokenVersion:
			abortUnauthorized(c, "error.token_revoked")
		default:
			c.Set("user_id", claims.UserID)
			c.Set("telegram_id", claims.TelegramID)
			c.Next()
		}
	}
}

func isActiveUserStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), constants.UserStatusActive)
}
