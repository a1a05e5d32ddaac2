package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Killi-Poyi/TheCredX/pkg/logger"
)

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	Expect(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("New", func() {
	It("writes text records by default", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Info("found jobs", "count", 3)

		Expect(buf.String()).To(ContainSubstring("found jobs"))
		Expect(buf.String()).To(ContainSubstring("count=3"))
	})

	It("hides debug records unless debug is enabled", func() {
		var quiet, loud bytes.Buffer
		logger.New(logger.WithWriter(&quiet)).Debug("hidden")
		logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("shown")

		Expect(quiet.String()).To(BeEmpty())
		Expect(loud.String()).To(ContainSubstring("shown"))
	})

	It("parses level names", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithLevel("error"))
		l.Warn("dropped")
		l.Error("kept")

		Expect(buf.String()).NotTo(ContainSubstring("dropped"))
		Expect(buf.String()).To(ContainSubstring("kept"))
	})

	It("emits JSON when asked", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		l.Info("promotion activated", "promotion_id", "7")

		parsed := decodeLine(&buf)
		Expect(parsed["msg"]).To(Equal("promotion activated"))
		Expect(parsed["promotion_id"]).To(Equal("7"))
	})

	It("renders pretty output through charmbracelet/log", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
		l.Info("model loaded")

		Expect(buf.String()).To(ContainSubstring("model loaded"))
	})

	It("fans out to several writers", func() {
		var a, b bytes.Buffer
		l := logger.New(logger.WithWriters(&a, &b))
		l.Info("both")

		Expect(a.String()).To(ContainSubstring("both"))
		Expect(b.String()).To(ContainSubstring("both"))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled for every level", func() {
		l := logger.Nop()
		Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		Expect(func() { l.With("k", "v").WithGroup("g").Error("nothing") }).NotTo(Panic())
	})
})

var _ = Describe("Multi", func() {
	It("dispatches each record to all loggers", func() {
		var text, js bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&text)),
			logger.New(logger.WithWriter(&js), logger.WithJSON(true)),
		)
		multi.With("component", "pipeline").Info("run finished")

		Expect(text.String()).To(ContainSubstring("run finished"))
		Expect(decodeLine(&js)["component"]).To(Equal("pipeline"))
	})

	It("respects each handler's level", func() {
		var info, debug bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&info)),
			logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
		)
		multi.Debug("details")

		Expect(info.String()).To(BeEmpty())
		Expect(debug.String()).To(ContainSubstring("details"))
	})

	It("skips nil loggers", func() {
		Expect(func() { logger.Multi(nil, logger.Nop()).Info("x") }).NotTo(Panic())
	})
})
