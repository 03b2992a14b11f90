package corpusutils_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/config"
	corpusutils "github.com/papercomputeco/shelf/pkg/corpus/utils"
)

func TestCorpusUtils(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Corpus Utils Suite")
}

var _ = Describe("New", func() {
	It("reports missing store credentials before building adapters", func() {
		cfg := config.NewDefaultConfig()
		cfg.VectorStore.Index = "my-corpus"

		_, err := corpusutils.New(cfg, zap.NewNop())
		Expect(err).To(HaveOccurred())

		var missing *config.MissingError
		Expect(err).To(BeAssignableToTypeOf(missing))
	})

	It("reports a missing index name", func() {
		cfg := config.NewDefaultConfig()
		cfg.VectorStore.APIKey = "key"
		cfg.Embedding.APIKey = "sk-test"

		_, err := corpusutils.New(cfg, zap.NewNop())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("vector_store.index"))
	})

	It("builds both pipelines from a credential-less local stack", func() {
		cfg := config.NewDefaultConfig()
		cfg.VectorStore.Provider = "chroma"
		cfg.VectorStore.Index = "my-corpus"
		cfg.VectorStore.Host = "http://localhost:8000"
		cfg.Embedding.Provider = "ollama"

		pipelines, err := corpusutils.New(cfg, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(pipelines.Searcher).NotTo(BeNil())
		Expect(pipelines.Inserter).NotTo(BeNil())
		Expect(pipelines.Close()).To(Succeed())
	})
})
