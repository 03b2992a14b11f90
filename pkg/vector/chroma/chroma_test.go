package chroma_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/vector"
	"github.com/papercomputeco/shelf/pkg/vector/chroma"
)

func TestChroma(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chroma Suite")
}

const apiBase = "/api/v2/tenants/default_tenant/databases/default_database"

// newCollectionServer serves collection lookup/create plus a per-path
// handler for everything else.
func newCollectionServer(handle func(w http.ResponseWriter, r *http.Request, path string)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, apiBase)

		// Collection lookup: GET /collections/<name> returns an ID
		// derived from the name so tests can assert routing.
		if r.Method == http.MethodGet && strings.HasPrefix(path, "/collections/") && !strings.HasSuffix(path, "/count") {
			name := strings.TrimPrefix(path, "/collections/")
			json.NewEncoder(w).Encode(map[string]string{"id": "id-" + name, "name": name})
			return
		}

		handle(w, r, path)
	}))
}

var _ = Describe("NewDriver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	It("requires a URL", func() {
		_, err := chroma.NewDriver(chroma.Config{IndexName: "idx"}, logger)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("chroma URL is required"))
	})

	It("requires an index name", func() {
		_, err := chroma.NewDriver(chroma.Config{URL: "http://localhost:8000"}, logger)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("index name is required"))
	})
})

var _ = Describe("Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Upsert", func() {
		It("upserts into the index collection for the default namespace", func() {
			var gotPath string
			var gotBody map[string]any
			server := newCollectionServer(func(w http.ResponseWriter, r *http.Request, path string) {
				gotPath = path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, "{}")
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			err = driver.Upsert(ctx, "", []vector.Record{
				{ID: "rec-1", Values: []float32{0.1, 0.2}, Metadata: map[string]any{"text": "hello"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(gotPath).To(Equal("/collections/id-shelf/upsert"))
			Expect(gotBody["ids"]).To(ConsistOf("rec-1"))
		})

		It("maps a named namespace to its own collection", func() {
			var gotPath string
			server := newCollectionServer(func(w http.ResponseWriter, _ *http.Request, path string) {
				gotPath = path
				fmt.Fprint(w, "{}")
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			err = driver.Upsert(ctx, "drafts", []vector.Record{{ID: "a", Values: []float32{0.1}}})
			Expect(err).NotTo(HaveOccurred())
			Expect(gotPath).To(Equal("/collections/id-shelf.drafts/upsert"))
		})

		It("is a no-op for an empty batch", func() {
			server := newCollectionServer(func(_ http.ResponseWriter, _ *http.Request, _ string) {
				Fail("no request expected for an empty batch")
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Upsert(ctx, "", nil)).To(Succeed())
		})
	})

	Describe("Query", func() {
		It("converts distances to similarity scores preserving order", func() {
			server := newCollectionServer(func(w http.ResponseWriter, r *http.Request, path string) {
				Expect(path).To(Equal("/collections/id-shelf/query"))

				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body["n_results"]).To(BeNumerically("==", 2))

				json.NewEncoder(w).Encode(map[string]any{
					"ids":       [][]string{{"a", "b"}},
					"distances": [][]float32{{0.0, 1.0}},
					"metadatas": [][]map[string]any{{{"text": "first"}, {"text": "second"}}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			matches, err := driver.Query(ctx, "", []float32{0.1, 0.2}, 2, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(2))
			Expect(matches[0].ID).To(Equal("a"))
			Expect(matches[0].Score).To(BeNumerically("~", 1.0, 0.0001))
			Expect(matches[1].Score).To(BeNumerically("~", 0.5, 0.0001))
			Expect(matches[0].Metadata["text"]).To(Equal("first"))
		})

		It("returns nil for an empty result set", func() {
			server := newCollectionServer(func(w http.ResponseWriter, _ *http.Request, _ string) {
				json.NewEncoder(w).Encode(map[string]any{
					"ids":       [][]string{{}},
					"distances": [][]float32{{}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			matches, err := driver.Query(ctx, "", []float32{0.1}, 5, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(BeEmpty())
		})
	})

	Describe("Fetch", func() {
		It("retrieves records with metadata and embeddings", func() {
			server := newCollectionServer(func(w http.ResponseWriter, _ *http.Request, path string) {
				Expect(path).To(Equal("/collections/id-shelf/get"))
				json.NewEncoder(w).Encode(map[string]any{
					"ids":        []string{"a"},
					"metadatas":  []map[string]any{{"text": "hello"}},
					"embeddings": [][]float32{{0.1, 0.2}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			records, err := driver.Fetch(ctx, "", []string{"a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("a"))
			Expect(records[0].Metadata["text"]).To(Equal("hello"))
			Expect(records[0].Values).To(Equal([]float32{0.1, 0.2}))
		})
	})

	Describe("Stats", func() {
		It("sums counts across known namespaces", func() {
			server := newCollectionServer(func(w http.ResponseWriter, r *http.Request, path string) {
				if strings.HasSuffix(path, "/count") {
					fmt.Fprint(w, "3")
					return
				}
				fmt.Fprint(w, "{}")
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{URL: server.URL, IndexName: "shelf"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			stats, err := driver.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalVectorCount).To(Equal(3))
			Expect(stats.Namespaces).To(HaveKeyWithValue("", 3))
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Store", func() {
			var _ vector.Store = (*chroma.Driver)(nil)
		})
	})
})
