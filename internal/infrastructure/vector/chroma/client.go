package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/infrastructure/resilience"
)

const (
	quizCollection   = "quiz_questions"
	wordleCollection = "wordle_words"

	probeTimeout = 2 * time.Second
)

var collectionDescriptions = map[string]string{
	quizCollection:   "Quiz questions and answers",
	wordleCollection: "Words and hints for Wordle game",
}

// Client talks to a ChromaDB server over its REST API. All operations are
// best-effort from the caller's point of view; the client itself reports
// errors and lets the use cases decide to swallow them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor

	mu            sync.Mutex
	collectionIDs map[string]string
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		executor:      executor,
		collectionIDs: make(map[string]string),
	}
}

// Probe checks store liveness with a short timeout. Failure is a normal
// operating mode, not an error: an unreachable store only disables
// retrieval augmentation and indexing.
func (c *Client) Probe(ctx context.Context) domain.StoreStatus {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/api/v1/heartbeat", nil)
	if err != nil {
		return domain.StoreStatusUnavailable
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.StoreStatusUnavailable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode >= 300 {
		return domain.StoreStatusUnavailable
	}
	return domain.StoreStatusAvailable
}

func (c *Client) SimilarQuestions(ctx context.Context, topic string, difficulty domain.Difficulty, limit int) ([]domain.RetrievedQuestion, error) {
	collectionID, err := c.collectionID(ctx, quizCollection)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"query_texts": []string{topic},
		"n_results":   limit,
		"where":       map[string]any{"difficulty": string(difficulty)},
		"include":     []string{"documents", "metadatas"},
	}

	var queryResp struct {
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := c.postJSON(ctx, path, reqBody, &queryResp, "query"); err != nil {
		return nil, err
	}
	if len(queryResp.Documents) == 0 {
		return nil, nil
	}

	documents := queryResp.Documents[0]
	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	out := make([]domain.RetrievedQuestion, 0, len(documents))
	for i, doc := range documents {
		hit := domain.RetrievedQuestion{Text: doc}
		if i < len(metadatas) {
			hit.Options = decodeOptions(metadatas[i])
			hit.CorrectAnswer = metadataString(metadatas[i], "correctAnswer")
		}
		out = append(out, hit)
	}
	return out, nil
}

func (c *Client) AddQuestion(ctx context.Context, id string, question domain.Question, topic string, difficulty domain.Difficulty, createdAt time.Time) error {
	optionsJSON, err := json.Marshal(question.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	metadata := map[string]any{
		"topic":         topic,
		"difficulty":    string(difficulty),
		"options":       string(optionsJSON),
		"correctAnswer": question.CorrectAnswer(),
		"createdAt":     createdAt.Format(time.RFC3339),
	}
	return c.add(ctx, quizCollection, id, question.Text, metadata)
}

// QuestionTextExists reports whether the exact question text is already
// stored for the topic and difficulty. Containment narrows the candidate
// set; equality decides.
func (c *Client) QuestionTextExists(ctx context.Context, text, topic string, difficulty domain.Difficulty) (bool, error) {
	collectionID, err := c.collectionID(ctx, quizCollection)
	if err != nil {
		return false, err
	}

	reqBody := map[string]any{
		"where": map[string]any{
			"$and": []map[string]any{
				{"topic": topic},
				{"difficulty": string(difficulty)},
			},
		},
		"where_document": map[string]any{"$contains": text},
		"limit":          10,
		"include":        []string{"documents"},
	}

	var getResp struct {
		Documents []string `json:"documents"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/get", collectionID)
	if err := c.postJSON(ctx, path, reqBody, &getResp, "get"); err != nil {
		return false, err
	}
	for _, doc := range getResp.Documents {
		if doc == text {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) AddWord(ctx context.Context, id, word, hint string, difficulty domain.Difficulty, createdAt time.Time) error {
	metadata := map[string]any{
		"hint":       hint,
		"difficulty": string(difficulty),
		"length":     len(word),
		"createdAt":  createdAt.Format(time.RFC3339),
	}
	return c.add(ctx, wordleCollection, id, word, metadata)
}

func (c *Client) Words(ctx context.Context, difficulty domain.Difficulty, limit int) ([]string, error) {
	collectionID, err := c.collectionID(ctx, wordleCollection)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"limit":   limit,
		"include": []string{"documents"},
	}
	if difficulty != "" {
		reqBody["where"] = map[string]any{"difficulty": string(difficulty)}
	}

	var getResp struct {
		Documents []string `json:"documents"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/get", collectionID)
	if err := c.postJSON(ctx, path, reqBody, &getResp, "get"); err != nil {
		return nil, err
	}
	return getResp.Documents, nil
}

func (c *Client) add(ctx context.Context, collection, id, document string, metadata map[string]any) error {
	collectionID, err := c.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	reqBody := map[string]any{
		"ids":       []string{id},
		"documents": []string{document},
		"metadatas": []map[string]any{metadata},
	}
	path := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, path, reqBody, nil, "add")
	}
	if c.executor != nil {
		return c.executor.Execute(ctx, "chroma.add", call, classifyStoreError)
	}
	return call(ctx)
}

// collectionID resolves and caches the server-side collection id,
// get-or-creating the collection on first use.
func (c *Client) collectionID(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	if id, ok := c.collectionIDs[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	reqBody := map[string]any{
		"name":          name,
		"get_or_create": true,
		"metadata":      map[string]any{"description": collectionDescriptions[name]},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/v1/collections", reqBody, &created, "create collection"); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("chroma create collection: empty id for %q", name)
	}

	c.mu.Lock()
	c.collectionIDs[name] = created.ID
	c.mu.Unlock()
	return created.ID, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(respBody)); msg != "" {
			return fmt.Errorf("chroma %s status: %s: %s", operation, resp.Status, msg)
		}
		return fmt.Errorf("chroma %s status: %s", operation, resp.Status)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func decodeOptions(metadata map[string]any) []string {
	raw := metadataString(metadata, "options")
	if raw == "" {
		return nil
	}
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil
	}
	return options
}

func metadataString(metadata map[string]any, key string) string {
	v, ok := metadata[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
