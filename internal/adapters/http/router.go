package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
)

type RouterOptions struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
	MetricsHandler     http.Handler
	Middleware         func(http.Handler) http.Handler

	// Prober, when set, lets the status endpoint report a live probe result
	// instead of the startup snapshot. The snapshot driving the pipeline is
	// never mutated.
	Prober ports.StoreProber
}

type Router struct {
	quiz        ports.QuizService
	wordle      ports.WordleService
	progress    ports.ProgressService
	storeStatus domain.StoreStatus
	logger      *slog.Logger
	opts        RouterOptions
}

func NewRouter(
	quiz ports.QuizService,
	wordle ports.WordleService,
	progress ports.ProgressService,
	storeStatus domain.StoreStatus,
	logger *slog.Logger,
	opts RouterOptions,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		quiz:        quiz,
		wordle:      wordle,
		progress:    progress,
		storeStatus: storeStatus,
		logger:      logger,
		opts:        opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/quiz/generate", rt.generateQuiz)
	mux.HandleFunc("/v1/generate/text", rt.generateText)
	mux.HandleFunc("/v1/wordle/word", rt.newWordleWord)
	mux.HandleFunc("/v1/wordle/hint", rt.wordleHint)
	mux.HandleFunc("/v1/store/status", rt.storeStatusHandler)
	mux.HandleFunc("/v1/leaderboard", rt.leaderboard)
	mux.HandleFunc("/v1/progress/", rt.progressRoutes)
	if rt.opts.MetricsHandler != nil {
		mux.Handle("/metrics", rt.opts.MetricsHandler)
	}

	var handler http.Handler = mux
	if rt.opts.Middleware != nil {
		handler = rt.opts.Middleware(handler)
	}
	if rt.opts.RateLimitPerSecond > 0 {
		limiter := newRateLimiter(rt.opts.RateLimitPerSecond, rt.opts.RateLimitBurst)
		handler = rateLimitMiddleware(limiter, rt.logger, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) generateQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Topic        string `json:"topic"`
		Difficulty   string `json:"difficulty"`
		NumQuestions int    `json:"numQuestions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		rt.writeError(w, r, "generate quiz", err)
		return
	}

	quiz, err := rt.quiz.GenerateQuiz(r.Context(), domain.GenerationRequest{
		Topic:        strings.TrimSpace(req.Topic),
		Difficulty:   difficulty,
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		rt.writeError(w, r, "generate quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (rt *Router) generateText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Prompt   string `json:"prompt"`
		TaskType string `json:"taskType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	text, err := rt.quiz.GenerateText(r.Context(), req.Prompt, req.TaskType)
	if err != nil {
		rt.writeError(w, r, "generate text", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (rt *Router) newWordleWord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Difficulty     string   `json:"difficulty"`
		CompletedWords []string `json:"completedWords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		rt.writeError(w, r, "new wordle word", err)
		return
	}

	word, err := rt.wordle.NewWord(r.Context(), difficulty, req.CompletedWords)
	if err != nil {
		rt.writeError(w, r, "new wordle word", err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func (rt *Router) wordleHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word is required"})
		return
	}

	hint, err := rt.wordle.Hint(r.Context(), req.Word)
	if err != nil {
		rt.writeError(w, r, "wordle hint", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

func (rt *Router) storeStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	status := rt.storeStatus
	if rt.opts.Prober != nil {
		status = rt.opts.Prober.Probe(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status.String(),
		"available": status == domain.StoreStatusAvailable,
	})
}

func (rt *Router) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := rt.progress.Leaderboard(r.Context(), limit)
	if err != nil {
		rt.writeError(w, r, "leaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

// progressRoutes dispatches /v1/progress/{username} and the two result
// recording endpoints nested under it.
func (rt *Router) progressRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/progress/")
	username, action, _ := strings.Cut(rest, "/")
	username = strings.TrimSpace(username)
	if username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}

	switch action {
	case "":
		rt.getProgress(w, r, username)
	case "wordle":
		rt.recordWordleResult(w, r, username)
	case "quiz":
		rt.recordQuizResult(w, r, username)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) getProgress(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	progress, err := rt.progress.Progress(r.Context(), username)
	if err != nil {
		rt.writeError(w, r, "get progress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (rt *Router) recordWordleResult(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var update domain.WordleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	progress, err := rt.progress.RecordWordleResult(r.Context(), username, update)
	if err != nil {
		rt.writeError(w, r, "record wordle result", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (rt *Router) recordQuizResult(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var update domain.QuizUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	progress, err := rt.progress.RecordQuizResult(r.Context(), username, update)
	if err != nil {
		rt.writeError(w, r, "record quiz result", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"operation", operation,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
