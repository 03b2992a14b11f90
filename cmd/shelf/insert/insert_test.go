package insertcmder_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	insertcmder "github.com/papercomputeco/shelf/cmd/shelf/insert"
)

func TestInsertCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insert Command Suite")
}

var _ = Describe("NewInsertCmd", func() {
	It("requires exactly one argument", func() {
		cmd := insertcmder.NewInsertCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})

var _ = Describe("ParseMeta", func() {
	It("returns nil for no pairs", func() {
		metadata, err := insertcmder.ParseMeta(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(metadata).To(BeNil())
	})

	It("parses key=value pairs", func() {
		metadata, err := insertcmder.ParseMeta([]string{"category=pricing", "quarter=q3"})
		Expect(err).NotTo(HaveOccurred())
		Expect(metadata).To(HaveKeyWithValue("category", "pricing"))
		Expect(metadata).To(HaveKeyWithValue("quarter", "q3"))
	})

	It("keeps everything after the first equals sign as the value", func() {
		metadata, err := insertcmder.ParseMeta([]string{"note=a=b=c"})
		Expect(err).NotTo(HaveOccurred())
		Expect(metadata).To(HaveKeyWithValue("note", "a=b=c"))
	})

	It("allows an empty value", func() {
		metadata, err := insertcmder.ParseMeta([]string{"empty="})
		Expect(err).NotTo(HaveOccurred())
		Expect(metadata).To(HaveKeyWithValue("empty", ""))
	})

	It("rejects a pair without an equals sign", func() {
		_, err := insertcmder.ParseMeta([]string{"no-separator"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("key=value"))
	})

	It("rejects an empty key", func() {
		_, err := insertcmder.ParseMeta([]string{"=value"})
		Expect(err).To(HaveOccurred())
	})
})
