package middleware

import (
	"campus-events/core/cache"
	"campus-events/core/constants"
	"campus-events/core/controller"
	"campus-events/core/errors"
	"campus-events/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the request guards shared by module routers.
type Middleware struct {
	cache *cache.Cache
	base  controller.BaseController
}

func NewMiddleware(c *cache.Cache) *Middleware {
	return &Middleware{
		cache: c,
		base:  controller.NewBaseController(),
	}
}

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// stores the parsed claims on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, appErr := utils.GetTokenFromHeader(ctx)
			if appErr != nil {
				return m.base.Unauthorized(appErr.Code, appErr.Message)
			}

			blacklisted, err := m.cache.IsTokenBlacklisted(ctx.Request().Context(), token)
			if err != nil {
				return m.base.InternalServerError(errors.ErrInternalServer, "failed to check token blacklist")
			}
			if blacklisted {
				return m.base.Unauthorized(errors.ErrUnauthorized, "token has been revoked")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return m.base.Unauthorized(errors.ErrUnauthorized, "invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(errors.ErrUnauthorized, "token scope not allowed")
			}

			ctx.Set(constants.ContextTokenData, claims)
			return next(ctx)
		}
	}
}

// RequireRole allows only the listed roles; it must run after AuthMiddleware.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenData := ctx.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || claims == nil {
				return m.base.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return m.base.Forbidden(errors.ErrForbidden, "insufficient role")
		}
	}
}
