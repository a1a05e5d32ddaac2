package vector_test

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Killi-Poyi/TheCredX/pkg/vector"
)

var _ = Describe("Format", func() {
	It("renders the pgvector literal", func() {
		Expect(vector.Format([]float32{0.5, -0.25, 1.0})).To(Equal("[0.5,-0.25,1.0]"))
	})

	It("renders an empty vector", func() {
		Expect(vector.Format(nil)).To(Equal("[]"))
	})

	It("keeps a decimal point on integral components", func() {
		Expect(vector.Format([]float32{0, 3, -2})).To(Equal("[0.0,3.0,-2.0]"))
	})

	It("uses the shortest float32 representation", func() {
		Expect(vector.Format([]float32{0.1})).To(Equal("[0.1]"))
	})
})

var _ = Describe("Parse", func() {
	It("round-trips formatted vectors exactly", func() {
		r := rand.New(rand.NewPCG(1, 2))
		for range 50 {
			v := make([]float32, 1+r.IntN(64))
			for i := range v {
				v[i] = float32(r.NormFloat64())
			}
			parsed, err := vector.Parse(vector.Format(v))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(v))
		}
	})

	It("parses an empty literal", func() {
		v, err := vector.Parse("[]")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeEmpty())
	})

	It("rejects text without brackets", func() {
		_, err := vector.Parse("1,2,3")
		Expect(err).To(MatchError(vector.ErrMalformed))
	})

	It("rejects non-numeric components", func() {
		_, err := vector.Parse("[1.0,abc]")
		Expect(err).To(MatchError(vector.ErrMalformed))
	})
})

var _ = Describe("FromBlob", func() {
	It("decodes little-endian float32 components", func() {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(0.5))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(-2))

		v, err := vector.FromBlob(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]float32{0.5, -2}))
	})

	It("rejects truncated blobs", func() {
		_, err := vector.FromBlob([]byte{1, 2, 3})
		Expect(err).To(MatchError(vector.ErrMalformed))
	})
})

var _ = Describe("math", func() {
	It("computes the norm", func() {
		Expect(vector.Norm([]float32{3, 4})).To(BeNumerically("~", 5, 1e-9))
	})

	It("normalizes to unit length", func() {
		n := vector.Normalize([]float32{3, 4})
		Expect(vector.Norm(n)).To(BeNumerically("~", 1, 1e-6))
		Expect(n[0]).To(BeNumerically("~", 0.6, 1e-6))
	})

	It("leaves zero vectors unchanged", func() {
		Expect(vector.Normalize([]float32{0, 0})).To(Equal([]float32{0, 0}))
	})

	It("does not modify its input", func() {
		in := []float32{3, 4}
		vector.Normalize(in)
		Expect(in).To(Equal([]float32{3, 4}))
	})

	It("builds a unit basis vector", func() {
		Expect(vector.Basis(3)).To(Equal([]float32{1, 0, 0}))
		Expect(vector.Basis(0)).To(BeEmpty())
	})
})
