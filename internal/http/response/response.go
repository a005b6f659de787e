package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/platform/apierr"
)

const msgInternal = "Erreur interne"

type SuccessEnvelope struct {
	Result  string `json:"result"`
	Success bool   `json:"success"`
}

type ErrorEnvelope struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func RespondResult(c *gin.Context, result string) {
	c.JSON(http.StatusOK, SuccessEnvelope{Result: result, Success: true})
}

// RespondError renders err as the error envelope. Errors that are not an
// *apierr.Error become a 500 with a generic message.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	msg := msgInternal
	if ae != nil && ae.Err != nil && ae.Code != apierr.CodeInternal {
		msg = ae.Err.Error()
	}
	status := http.StatusInternalServerError
	if ae != nil {
		status = ae.Status
	}
	c.JSON(status, ErrorEnvelope{Error: msg, Success: false})
}

// AbortWithError is RespondError for middleware that must stop the chain.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
