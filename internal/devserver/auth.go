package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func (s *Server) generateToken(u dto.UserResponse) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   now.Add(s.expiry).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authorized, no token"})
			return
		}

		token, err := jwt.Parse(header[len("Bearer "):], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authorized, token failed"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authorized, token failed"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authorized, token failed"})
			return
		}
		role, _ := claims["role"].(string)
		c.Set(ctxUserID, sub)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != string(model.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}
