package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/middleware"
	"github.com/quickbite/quickbite-api/internal/token"
)

func claimsFromContext(c *gin.Context) *token.AccessClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*token.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}
