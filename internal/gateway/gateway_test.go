package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/francais-backend/internal/engine"
	"github.com/yungbote/francais-backend/internal/engine/mock"
	"github.com/yungbote/francais-backend/internal/engine/oaihttp"
	"github.com/yungbote/francais-backend/internal/learning/prompts"
	"github.com/yungbote/francais-backend/internal/observability"
)

// validFields satisfies every kind's required fields.
var validFields = map[prompts.Kind]map[string]string{
	prompts.KindLesson:         {"topic": "les articles"},
	prompts.KindCorrection:     {"sentence": "je suis alle a paris"},
	prompts.KindExerciseSet:    {"topic": "subjonctif"},
	prompts.KindConjugation:    {"verb": "aller"},
	prompts.KindTestGeneration: {},
	prompts.KindStory:          {},
	prompts.KindAssistantQuery: {"question": "Quand utiliser le subjonctif ?"},
}

var requiredField = map[prompts.Kind]string{
	prompts.KindLesson:         "topic",
	prompts.KindCorrection:     "sentence",
	prompts.KindExerciseSet:    "topic",
	prompts.KindConjugation:    "verb",
	prompts.KindAssistantQuery: "question",
}

func newTestGateway(client engine.Client, key string) *Gateway {
	return New(Config{APIKey: key, Timeout: 2 * time.Second}, client, nil, nil)
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	var gerr *Error
	require.True(t, errors.As(err, &gerr), "err=%v", err)
	require.Equal(t, kind, gerr.Kind, "message=%s", gerr.Message)
	return gerr
}

func TestCompleteReturnsExactContentForEveryKind(t *testing.T) {
	reply := "  LEÇON...\n"
	for _, kind := range prompts.Kinds() {
		client := &mock.Client{Reply: reply}
		g := newTestGateway(client, "sk-test")
		out, err := g.Complete(context.Background(), kind, validFields[kind])
		require.NoError(t, err, kind)
		assert.Equal(t, reply, out, kind)
		require.Equal(t, 1, client.CallCount(), kind)

		msgs := client.LastMessages()
		require.Len(t, msgs, 2)
		assert.Equal(t, engine.RoleSystem, msgs[0].Role)
		assert.Equal(t, engine.RoleUser, msgs[1].Role)
		assert.NotEmpty(t, msgs[0].Content)
		assert.NotEmpty(t, msgs[1].Content)
	}
}

func TestCompleteMissingRequiredField(t *testing.T) {
	for kind, field := range requiredField {
		for _, fields := range []map[string]string{nil, {field: ""}, {field: "   "}} {
			client := &mock.Client{Reply: "unused"}
			g := newTestGateway(client, "sk-test")
			_, err := g.Complete(context.Background(), kind, fields)
			gerr := requireKind(t, err, InvalidInput)
			assert.Equal(t, field, gerr.Field)
			assert.NotEmpty(t, gerr.Message)
			assert.Equal(t, 400, gerr.HTTPStatus())
			assert.Zero(t, client.CallCount(), kind)
		}
	}
}

func TestCorrectionEmptySentence(t *testing.T) {
	client := mock.New()
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.KindCorrection, map[string]string{"sentence": ""})
	gerr := requireKind(t, err, InvalidInput)
	assert.Equal(t, "sentence", gerr.Field)
	assert.Equal(t, "Phrase requise", gerr.Error())
	assert.Zero(t, client.CallCount())
}

func TestLessonScenario(t *testing.T) {
	client := &mock.Client{Reply: "LEÇON..."}
	g := newTestGateway(client, "sk-test")
	out, err := g.Complete(context.Background(), prompts.KindLesson, map[string]string{"topic": "les articles"})
	require.NoError(t, err)
	assert.Equal(t, "LEÇON...", out)

	msgs := client.LastMessages()
	assert.Contains(t, msgs[0].Content, "professeur")
	assert.Contains(t, msgs[1].Content, "les articles")
}

func TestExerciseDefaultLevel(t *testing.T) {
	client := &mock.Client{Reply: "ok"}
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.KindExerciseSet, map[string]string{"topic": "subjonctif"})
	require.NoError(t, err)
	assert.Contains(t, client.LastMessages()[1].Content, "intermediaire")
}

func TestCompleteNotConfigured(t *testing.T) {
	for _, kind := range prompts.Kinds() {
		client := &mock.Client{Reply: "unused"}
		g := newTestGateway(client, "")
		_, err := g.Complete(context.Background(), kind, validFields[kind])
		gerr := requireKind(t, err, NotConfigured)
		assert.Equal(t, "Configuration requise", gerr.Message)
		assert.Equal(t, 500, gerr.HTTPStatus())
		assert.Zero(t, client.CallCount(), kind)
	}
}

func TestValidationRunsBeforeCredentialCheck(t *testing.T) {
	g := newTestGateway(mock.New(), "")
	_, err := g.Complete(context.Background(), prompts.KindLesson, nil)
	requireKind(t, err, InvalidInput)
}

func TestCompleteUpstreamStatus(t *testing.T) {
	for _, status := range []int{400, 401, 404, 429, 500, 503} {
		client := &mock.Client{Err: &oaihttp.HTTPError{StatusCode: status, Body: "nope"}}
		g := newTestGateway(client, "sk-test")
		_, err := g.Complete(context.Background(), prompts.KindStory, nil)
		gerr := requireKind(t, err, UpstreamError)
		assert.Equal(t, status, gerr.Status)
		assert.Equal(t, fmt.Sprintf("Erreur %d", status), gerr.Message)
		assert.Equal(t, 1, client.CallCount())
	}
}

func TestCompleteMalformed(t *testing.T) {
	client := &mock.Client{Err: fmt.Errorf("%w: missing content", engine.ErrMalformedResponse)}
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.KindConjugation, map[string]string{"verb": "etre"})
	gerr := requireKind(t, err, MalformedUpstreamResponse)
	assert.Equal(t, "Reponse invalide du service", gerr.Message)
}

func TestCompleteTimeout(t *testing.T) {
	client := &mock.Client{Reply: "late", Delay: time.Second}
	g := New(Config{APIKey: "sk-test", Timeout: 20 * time.Millisecond}, client, nil, nil)
	start := time.Now()
	_, err := g.Complete(context.Background(), prompts.KindTestGeneration, nil)
	requireKind(t, err, UpstreamTimeout)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCompleteNetTimeout(t *testing.T) {
	client := &mock.Client{Err: &net.OpError{Op: "read", Err: timeoutErr{}}}
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.KindStory, nil)
	requireKind(t, err, UpstreamTimeout)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestCompleteCallerCancel(t *testing.T) {
	client := &mock.Client{Reply: "late", Delay: time.Second}
	g := newTestGateway(client, "sk-test")
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := g.Complete(ctx, prompts.KindStory, nil)
	gerr := requireKind(t, err, UpstreamError)
	assert.Zero(t, gerr.Status)
	assert.Equal(t, "Erreur 0", gerr.Message)
}

func TestCompleteTransportError(t *testing.T) {
	client := &mock.Client{Err: errors.New("dial tcp: connection refused")}
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.KindStory, nil)
	gerr := requireKind(t, err, UpstreamError)
	assert.Zero(t, gerr.Status)
}

func TestCompleteUnknownKind(t *testing.T) {
	client := mock.New()
	g := newTestGateway(client, "sk-test")
	_, err := g.Complete(context.Background(), prompts.Kind("dictation"), nil)
	requireKind(t, err, InvalidInput)
	assert.Zero(t, client.CallCount())
}

func TestCompleteRecordsMetrics(t *testing.T) {
	m := observability.New()
	g := New(Config{APIKey: "sk-test"}, &mock.Client{Reply: "ok"}, nil, m)
	_, _ = g.Complete(context.Background(), prompts.KindStory, nil)
	_, _ = g.Complete(context.Background(), prompts.KindLesson, nil)
	assert.Equal(t, 1.0, m.CompletionCount("story", "ok"))
	assert.Equal(t, 1.0, m.CompletionCount("lesson", string(InvalidInput)))
}

type mockClient struct {
	testifymock.Mock
}

func (m *mockClient) Complete(ctx context.Context, messages []engine.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func TestCompleteForwardsTrimmedFieldsVerbatim(t *testing.T) {
	client := new(mockClient)
	client.On("Complete", testifymock.Anything, testifymock.MatchedBy(func(msgs []engine.Message) bool {
		return len(msgs) == 2 && msgs[1].Content != "" &&
			containsLine(msgs[1].Content, `Question de l'eleve: <i>"être" & avoir</i>`)
	})).Return("Réponse", nil).Once()

	g := newTestGateway(client, "sk-test")
	out, err := g.Complete(context.Background(), prompts.KindAssistantQuery, map[string]string{
		"question": "\t<i>\"être\" & avoir</i>  \n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Réponse", out)
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func containsLine(s, line string) bool {
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] != '\n' {
			i++
		}
		if s[:i] == line {
			return true
		}
		if i == len(s) {
			break
		}
		s = s[i+1:]
	}
	return false
}

func TestConcurrentCompletes(t *testing.T) {
	client := &mock.Client{Reply: "ok"}
	g := newTestGateway(client, "sk-test")
	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			_, err := g.Complete(context.Background(), prompts.KindConjugation, map[string]string{"verb": fmt.Sprintf("verbe%d", i)})
			done <- err
		}(i)
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, 16, client.CallCount())
}

func TestBuildErrorMapping(t *testing.T) {
	gerr := buildError(&prompts.FieldError{Field: prompts.FieldVerb, Message: "Verbe requis"})
	assert.Equal(t, InvalidInput, gerr.Kind)
	assert.Equal(t, "verb", gerr.Field)
	assert.Equal(t, "Verbe requis", gerr.Message)

	gerr = buildError(fmt.Errorf("%w: dictation", prompts.ErrUnknownKind))
	assert.Equal(t, InvalidInput, gerr.Kind)
	assert.Equal(t, "Type de requete inconnu", gerr.Message)

	renderErr := errors.New("template: user: executing")
	gerr = buildError(fmt.Errorf("lesson user prompt: %w", renderErr))
	assert.Equal(t, NotConfigured, gerr.Kind)
	assert.ErrorIs(t, gerr, renderErr)
	assert.Equal(t, 500, gerr.HTTPStatus())
}
