package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"leadmail/logger"
)

const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultModel     = "llama3-8b-8192"
	DefaultMaxTokens = 1000
)

// Completer génère le texte de l'email à partir des deux messages
type Completer interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ClientConfig configure le client de complétion
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration

	// HTTPClient remplace le client HTTP par défaut (tests)
	HTTPClient *http.Client
}

// CompletionClient appelle un endpoint chat-completion compatible OpenAI.
// Chaque appel à Generate fait exactement une requête, sans retry.
type CompletionClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	log       *slog.Logger
}

// NewCompletionClient crée le client. La clé API est fixée ici une fois pour toutes ;
// si elle est vide, le fournisseur rejettera la requête et l'erreur remontera telle quelle.
func NewCompletionClient(cfg ClientConfig, log *slog.Logger) *CompletionClient {
	if log == nil {
		log = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}
	oc.HTTPClient = &recordingDoer{next: httpClient}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &CompletionClient{
		client:    openai.NewClientWithConfig(oc),
		model:     model,
		maxTokens: maxTokens,
		log:       log.With(logger.Component("completion")),
	}
}

// Generate envoie le prompt et retourne choices[0].message.content.
// Erreurs: *NetworkError si le transport échoue, *MalformedResponseError si la réponse
// arrive mais ne contient pas de texte (y compris les statuts non-2xx).
func (c *CompletionClient) Generate(ctx context.Context, system, user string) (string, error) {
	rec := &bodyRecord{}
	ctx = context.WithValue(ctx, bodyRecordKey{}, rec)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		var nerr *NetworkError
		if errors.As(err, &nerr) {
			c.log.ErrorContext(ctx, "completion transport failed",
				logger.Error(nerr.Err), logger.Duration(time.Since(start)))
			return "", nerr
		}
		c.log.WarnContext(ctx, "completion rejected",
			logger.Error(err), slog.Int("status", rec.status), logger.Duration(time.Since(start)))
		return "", &MalformedResponseError{Payload: rec.payload(), Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.log.WarnContext(ctx, "completion without content",
			slog.Int("status", rec.status), logger.Duration(time.Since(start)))
		return "", &MalformedResponseError{Payload: rec.payload()}
	}

	c.log.InfoContext(ctx, "completion finished",
		slog.String("model", c.model),
		slog.Int("total_tokens", resp.Usage.TotalTokens),
		logger.Duration(time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}

type bodyRecordKey struct{}

// bodyRecord garde la réponse brute d'un appel à Generate
type bodyRecord struct {
	status int
	body   []byte
}

func (r *bodyRecord) payload() string {
	raw := bytes.TrimSpace(r.body)
	var buf bytes.Buffer
	if json.Valid(raw) && json.Compact(&buf, raw) == nil {
		return buf.String()
	}
	return string(raw)
}

// recordingDoer met le corps de réponse en mémoire pour le retrouver si le
// décodage échoue, et marque les échecs de transport en *NetworkError.
type recordingDoer struct {
	next *http.Client
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	res, err := d.next.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if rec, ok := req.Context().Value(bodyRecordKey{}).(*bodyRecord); ok {
		rec.status = res.StatusCode
		rec.body = body
	}
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}
