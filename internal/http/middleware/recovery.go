package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/http/response"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

// Recovery turns a handler panic into a 500 error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic recovered", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		}
		response.AbortWithError(c, fmt.Errorf("panic: %v", recovered))
	})
}
