package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/shelf/pkg/embeddings"
	"github.com/papercomputeco/shelf/pkg/embeddings/openai"
	"github.com/papercomputeco/shelf/pkg/vector"
)

func TestOpenAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAI Embedder Suite")
}

var _ = Describe("NewEmbedder", func() {
	It("requires an API key", func() {
		_, err := openai.NewEmbedder(openai.EmbedderConfig{})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("API key is required"))
	})

	It("succeeds with only an API key, using defaults", func() {
		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{APIKey: "sk-test"})
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder).NotTo(BeNil())
	})
})

var _ = Describe("Embed", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("sends the model and input with bearer auth", func() {
		var gotAuth string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/embeddings"))
			gotAuth = r.Header.Get("Authorization")
			Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())

			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"embedding": []float32{0.1, 0.2, 0.3}},
				},
			})
		}))
		defer server.Close()

		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  "sk-test",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())

		embedding, err := embedder.Embed(ctx, "hello world")
		Expect(err).NotTo(HaveOccurred())
		Expect(embedding).To(Equal([]float32{0.1, 0.2, 0.3}))

		Expect(gotAuth).To(Equal("Bearer sk-test"))
		Expect(gotBody["model"]).To(Equal(openai.DefaultEmbeddingModel))
		Expect(gotBody["input"]).To(ConsistOf("hello world"))
	})

	It("uses the configured model", func() {
		var gotModel string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			gotModel = body["model"].(string)

			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"embedding": []float32{0.5}}},
			})
		}))
		defer server.Close()

		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  "sk-test",
			BaseURL: server.URL,
			Model:   "text-embedding-3-large",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).NotTo(HaveOccurred())
		Expect(gotModel).To(Equal("text-embedding-3-large"))
	})

	It("maps a non-200 response to an embedding error", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
		}))
		defer server.Close()

		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  "sk-bad",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, vector.ErrEmbedding)).To(BeTrue())
	})

	It("errors when the response carries no embeddings", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		}))
		defer server.Close()

		embedder, err := openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  "sk-test",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, vector.ErrEmbedding)).To(BeTrue())
	})
})

var _ = Describe("Interface compliance", func() {
	It("implements embeddings.Embedder", func() {
		var _ embeddings.Embedder = (*openai.Embedder)(nil)
	})
})
