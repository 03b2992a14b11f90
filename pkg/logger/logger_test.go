package logger_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/shelf/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	Describe("NewLoggerWithWriters", func() {
		It("writes info messages with their fields", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Info("hello")
			_ = l.Sync()

			output := buf.String()
			Expect(output).To(ContainSubstring("hello"))
			Expect(output).To(ContainSubstring("INFO"))
		})

		It("respects debug level", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(true, &buf)
			l.Debug("debug msg")
			_ = l.Sync()

			Expect(buf.String()).To(ContainSubstring("debug msg"))
		})

		It("filters debug when not enabled", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Debug("hidden")
			_ = l.Sync()

			Expect(buf.String()).To(BeEmpty())
		})

		It("fans out to multiple writers", func() {
			var first, second bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &first, &second)
			l.Info("fan out")
			_ = l.Sync()

			Expect(first.String()).To(ContainSubstring("fan out"))
			Expect(second.String()).To(ContainSubstring("fan out"))
		})
	})

	Describe("NewLogger", func() {
		It("returns a usable logger", func() {
			l := logger.NewLogger(false)
			Expect(l).NotTo(BeNil())
		})
	})
})
