package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/gateway"
	httpMW "github.com/yungbote/francais-backend/internal/http/middleware"
	"github.com/yungbote/francais-backend/internal/http/response"
	"github.com/yungbote/francais-backend/internal/learning/prompts"
	"github.com/yungbote/francais-backend/internal/platform/apierr"
)

const (
	msgInvalidJSON = "Requete JSON invalide"
	msgTooLarge    = "Requete trop volumineuse"

	codeInvalidJSON = "invalid_json"
)

// Completer is the slice of the gateway the handlers need.
type Completer interface {
	Complete(ctx context.Context, kind prompts.Kind, fields map[string]string) (string, error)
}

// CompletionRequest is the shared body for every completion route. Each kind
// reads only the fields it knows about.
type CompletionRequest struct {
	Topic    string `json:"topic"`
	Sentence string `json:"sentence"`
	Verb     string `json:"verb"`
	Level    string `json:"level"`
	Theme    string `json:"theme"`
	Question string `json:"question"`
}

func (r CompletionRequest) Fields() map[string]string {
	return map[string]string{
		string(prompts.FieldTopic):    r.Topic,
		string(prompts.FieldSentence): r.Sentence,
		string(prompts.FieldVerb):     r.Verb,
		string(prompts.FieldLevel):    r.Level,
		string(prompts.FieldTheme):    r.Theme,
		string(prompts.FieldQuestion): r.Question,
	}
}

type CompletionHandler struct {
	gw              Completer
	maxRequestBytes int64
}

func NewCompletionHandler(gw Completer, maxRequestBytes int64) *CompletionHandler {
	if maxRequestBytes <= 0 {
		maxRequestBytes = 1 << 20
	}
	return &CompletionHandler{gw: gw, maxRequestBytes: maxRequestBytes}
}

// POST /api/<slug>
func (h *CompletionHandler) Handle(kind prompts.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, derr := h.decode(c)
		if derr != nil {
			httpMW.SetCompletionOutcome(c, string(kind), derr.Code, 0)
			response.RespondError(c, derr)
			return
		}
		text, err := h.gw.Complete(c.Request.Context(), kind, req.Fields())
		if err != nil {
			var gerr *gateway.Error
			if errors.As(err, &gerr) {
				httpMW.SetCompletionOutcome(c, string(kind), string(gerr.Kind), gerr.Status)
			} else {
				httpMW.SetCompletionOutcome(c, string(kind), apierr.CodeInternal, 0)
			}
			response.RespondError(c, toAPIError(err))
			return
		}
		httpMW.SetCompletionOutcome(c, string(kind), "", 0)
		response.RespondResult(c, text)
	}
}

// decode reads the JSON body. An empty body is treated as {} so that
// required-field validation produces the field message.
func (h *CompletionHandler) decode(c *gin.Context) (CompletionRequest, *apierr.Error) {
	var req CompletionRequest
	if c.Request.Body == nil {
		return req, nil
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	err := json.NewDecoder(body).Decode(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return req, apierr.BadRequest(errors.New(msgTooLarge))
	}
	return req, apierr.New(http.StatusBadRequest, codeInvalidJSON, errors.New(msgInvalidJSON))
}

func toAPIError(err error) error {
	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		return apierr.New(gerr.HTTPStatus(), string(gerr.Kind), gerr)
	}
	return err
}
