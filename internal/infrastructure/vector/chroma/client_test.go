package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

// chromaStub answers the collection get-or-create call and dispatches the
// per-collection endpoints to the provided handlers.
func chromaStub(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"nanosecond heartbeat":1}`))
	})
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": payload.Name + "-id", "name": payload.Name})
	})
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	return httptest.NewServer(mux)
}

func TestProbeReportsAvailability(t *testing.T) {
	server := chromaStub(t, nil)
	defer server.Close()

	client := New(server.URL, nil)
	if got := client.Probe(context.Background()); got != domain.StoreStatusAvailable {
		t.Fatalf("expected available, got %s", got)
	}

	server.Close()
	if got := client.Probe(context.Background()); got != domain.StoreStatusUnavailable {
		t.Fatalf("expected unavailable after close, got %s", got)
	}
}

func TestSimilarQuestionsParsesNestedArrays(t *testing.T) {
	var capturedQuery map[string]any
	server := chromaStub(t, map[string]http.HandlerFunc{
		"/api/v1/collections/quiz_questions-id/query": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&capturedQuery); err != nil {
				t.Fatalf("decode query: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documents": [][]string{{"What is Go?", "What is Rust?"}},
				"metadatas": [][]map[string]any{{
					{"options": `["a","b","c","d"]`, "correctAnswer": "a"},
					{"options": `["w","x","y","z"]`, "correctAnswer": "z"},
				}},
			})
		},
	})
	defer server.Close()

	client := New(server.URL, nil)
	hits, err := client.SimilarQuestions(context.Background(), "programming", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("SimilarQuestions() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Text != "What is Go?" || hits[0].CorrectAnswer != "a" {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
	if len(hits[1].Options) != 4 || hits[1].Options[3] != "z" {
		t.Fatalf("unexpected options decode: %+v", hits[1])
	}

	if n, _ := capturedQuery["n_results"].(float64); int(n) != 3 {
		t.Fatalf("expected n_results 3, got %v", capturedQuery["n_results"])
	}
	where, _ := capturedQuery["where"].(map[string]any)
	if where["difficulty"] != "medium" {
		t.Fatalf("expected difficulty filter, got %v", capturedQuery["where"])
	}
}

func TestAddQuestionSerializesMetadata(t *testing.T) {
	var capturedAdd struct {
		IDs       []string         `json:"ids"`
		Documents []string         `json:"documents"`
		Metadatas []map[string]any `json:"metadatas"`
	}
	server := chromaStub(t, map[string]http.HandlerFunc{
		"/api/v1/collections/quiz_questions-id/add": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&capturedAdd); err != nil {
				t.Fatalf("decode add: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		},
	})
	defer server.Close()

	client := New(server.URL, nil)
	question := domain.Question{Text: "What is Go?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 1}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	err := client.AddQuestion(context.Background(), "go-medium-1-0", question, "go", domain.DifficultyMedium, createdAt)
	if err != nil {
		t.Fatalf("AddQuestion() error = %v", err)
	}

	if len(capturedAdd.IDs) != 1 || capturedAdd.IDs[0] != "go-medium-1-0" {
		t.Fatalf("unexpected ids: %v", capturedAdd.IDs)
	}
	if capturedAdd.Documents[0] != "What is Go?" {
		t.Fatalf("unexpected document: %v", capturedAdd.Documents)
	}
	meta := capturedAdd.Metadatas[0]
	if meta["correctAnswer"] != "b" {
		t.Fatalf("expected correct answer text, got %v", meta["correctAnswer"])
	}
	if meta["options"] != `["a","b","c","d"]` {
		t.Fatalf("expected options as JSON string, got %v", meta["options"])
	}
	if meta["createdAt"] != "2026-08-01T12:00:00Z" {
		t.Fatalf("expected RFC3339 createdAt, got %v", meta["createdAt"])
	}
}

func TestQuestionTextExistsComparesExactly(t *testing.T) {
	server := chromaStub(t, map[string]http.HandlerFunc{
		"/api/v1/collections/quiz_questions-id/get": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documents": []string{"What is Go? Extended", "What is Go?"},
			})
		},
	})
	defer server.Close()

	client := New(server.URL, nil)
	exists, err := client.QuestionTextExists(context.Background(), "What is Go?", "go", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("QuestionTextExists() error = %v", err)
	}
	if !exists {
		t.Fatalf("expected exact match to be found")
	}

	exists, err = client.QuestionTextExists(context.Background(), "What is Zig?", "go", domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("QuestionTextExists() error = %v", err)
	}
	if exists {
		t.Fatalf("containment without equality must not count as existing")
	}
}

func TestWordsFiltersByDifficulty(t *testing.T) {
	var capturedGet map[string]any
	server := chromaStub(t, map[string]http.HandlerFunc{
		"/api/v1/collections/wordle_words-id/get": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&capturedGet); err != nil {
				t.Fatalf("decode get: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"documents": []string{"apple", "bread"}})
		},
	})
	defer server.Close()

	client := New(server.URL, nil)
	words, err := client.Words(context.Background(), domain.DifficultyMedium, 100)
	if err != nil {
		t.Fatalf("Words() error = %v", err)
	}
	if len(words) != 2 || words[0] != "apple" {
		t.Fatalf("unexpected words: %v", words)
	}
	where, _ := capturedGet["where"].(map[string]any)
	if where["difficulty"] != "medium" {
		t.Fatalf("expected difficulty filter, got %v", capturedGet["where"])
	}
}

func TestCollectionIDIsCachedAcrossCalls(t *testing.T) {
	createCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		createCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "quiz-id"})
	})
	mux.HandleFunc("/api/v1/collections/quiz-id/get", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"documents": []string{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(server.URL, nil)
	for i := 0; i < 3; i++ {
		if _, err := client.QuestionTextExists(context.Background(), "q", "t", domain.DifficultyEasy); err != nil {
			t.Fatalf("QuestionTextExists() error = %v", err)
		}
	}
	if createCalls != 1 {
		t.Fatalf("expected single get_or_create call, got %d", createCalls)
	}
}
