package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/jwt"
)

// JWTAuthMiddleware はJWT認証ミドルウェアを提供します
// トークンの発行は外部の認証サービスの責務で、ここでは検証だけを行う
type JWTAuthMiddleware struct {
	jwtService *jwt.JWTService
}

// NewJWTAuthMiddleware は新しいJWTAuthMiddlewareを作成します
func NewJWTAuthMiddleware(jwtService *jwt.JWTService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate は認証ミドルウェアを返します
func (m *JWTAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Authorizationヘッダーを取得
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperror.NewUnauthorizedError("authorization header required")
			}

			// Bearer トークンを抽出
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return apperror.NewUnauthorizedError("invalid authorization header format")
			}

			// トークンを検証
			claims, err := m.jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				return apperror.NewUnauthorizedError("invalid or expired token")
			}

			// コンテキストにユーザー情報を設定
			c.Set(ContextKeyUserID, claims.UserID.String())
			c.Set(ContextKeyAccessClaims, claims)

			return next(c)
		}
	}
}
