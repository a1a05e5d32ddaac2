package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/Killi-Poyi/TheCredX/cmd/promoworker/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "promoworker-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .promoworker dir so the manager picks it up
		err = os.MkdirAll(filepath.Join(tmpDir, ".promoworker"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(execute("set", "embedding.provider", "openai")).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, ".promoworker", "promoworker.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`provider = "openai"`))
			Expect(out.String()).To(ContainSubstring("Set embedding.provider = openai"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("set", "invalid_key", "value")).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			Expect(execute("set", "embedding.provider")).To(HaveOccurred())
			Expect(execute("set")).To(HaveOccurred())
		})

		It("rejects invalid uint values", func() {
			Expect(execute("set", "embedding.dimensions", "not-a-number")).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(execute("set", "events.topic", "promo.events")).To(Succeed())
			out.Reset()

			Expect(execute("get", "events.topic")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("events.topic  promo.events"))
		})

		It("shows unset keys", func() {
			Expect(execute("get", "database.sqlite_path")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("<not set>"))
		})

		It("rejects unknown keys", func() {
			Expect(execute("get", "invalid_key")).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			Expect(execute("get")).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("lists defaults when no config exists", func() {
			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`embedding.model      = "nomic-embed-text"`))
			Expect(out.String()).To(ContainSubstring("worker.limit         = <not set>"))
		})

		It("masks secrets", func() {
			Expect(execute("set", "embedding.api_key", "sk-secret")).To(Succeed())
			out.Reset()

			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("embedding.api_key    = <set>"))
			Expect(out.String()).NotTo(ContainSubstring("sk-secret"))
		})

		It("rejects any arguments", func() {
			Expect(execute("list", "extra")).To(HaveOccurred())
		})
	})
})
