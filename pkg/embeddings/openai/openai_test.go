package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Killi-Poyi/TheCredX/pkg/embeddings"
	"github.com/Killi-Poyi/TheCredX/pkg/embeddings/openai"
)

var _ = Describe("Embedder", func() {
	var (
		server   *httptest.Server
		received map[string]any
		status   int
		body     string
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		body = `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1.0]}],"model":"text-embedding-3-small","usage":{"prompt_tokens":2,"total_tokens":2}}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/v1/embeddings"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer secret"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newEmbedder := func(dims int) *openai.Embedder {
		e, err := openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL:    server.URL + "/v1",
			APIKey:     "secret",
			Dimensions: dims,
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("returns the first embedding", func() {
		v, err := newEmbedder(0).Embed(context.Background(), "A B x y")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]float32{0.5, -0.25, 1.0}))
		Expect(received).To(HaveKeyWithValue("model", openai.DefaultEmbeddingModel))
		Expect(received).To(HaveKeyWithValue("input", ConsistOf("A B x y")))
		Expect(received).NotTo(HaveKey("dimensions"))
	})

	It("requests shortened vectors when dimensions are set", func() {
		_, err := newEmbedder(3).Embed(context.Background(), "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(received).To(HaveKeyWithValue("dimensions", BeNumerically("==", 3)))
	})

	It("wraps API errors", func() {
		status = http.StatusUnauthorized
		body = `{"error":{"message":"bad key","type":"invalid_request_error"}}`

		_, err := newEmbedder(0).Embed(context.Background(), "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("fails when no data comes back", func() {
		body = `{"object":"list","data":[],"model":"m"}`

		_, err := newEmbedder(0).Embed(context.Background(), "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
