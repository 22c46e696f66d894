package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/model"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

const claimsKey = "claims"

// SetClaims stores the authenticated identity on the request context
func SetClaims(c *gin.Context, claims *model.TokenClaims) {
	c.Set(claimsKey, claims)
}

// Claims returns the authenticated identity set by the auth middleware
func Claims(c *gin.Context) *model.TokenClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*model.TokenClaims); ok {
			return claims
		}
	}
	return nil
}

// Error records an error for the error middleware to render
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	_ = c.Error(appErr)
	c.Abort()
}
