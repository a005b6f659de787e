package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/http/response"
	"github.com/yungbote/francais-backend/internal/learning/prompts"
)

type KindsHandler struct{}

func NewKindsHandler() *KindsHandler { return &KindsHandler{} }

// GET /api/kinds
func (h *KindsHandler) ListKinds(c *gin.Context) {
	kinds := prompts.Kinds()
	rules := make([]prompts.Rule, 0, len(kinds))
	for _, k := range kinds {
		if r, ok := prompts.Describe(k); ok {
			rules = append(rules, r)
		}
	}
	response.RespondOK(c, gin.H{"kinds": rules, "success": true})
}
