package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Killi-Poyi/TheCredX/pkg/config"
)

func writeConfig(dir, data string) {
	err := os.WriteFile(filepath.Join(dir, "promoworker.toml"), []byte(data), 0o600)
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file", func() {
			writeConfig(tmpDir, `version = 0

[database]
url = "postgres://promo@localhost/promo"

[embedding]
provider = "openai"
dimensions = 1536
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Database.URL).To(Equal("postgres://promo@localhost/promo"))
			Expect(cfg.Embedding.Provider).To(Equal("openai"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
		})

		It("loads all config fields", func() {
			writeConfig(tmpDir, `version = 0

[database]
url = "postgres://localhost/promo"
sqlite_path = "/tmp/promo.db"

[embedding]
provider = "openai"
target = "https://api.openai.com/v1"
model = "text-embedding-3-small"
api_key = "sk-test"
dimensions = 512

[events]
provider = "kafka"
brokers = ["kafka-1:9092", "kafka-2:9092"]
topic = "promo.events"

[worker]
limit = 25
dry_run = true

[log]
level = "debug"
pretty = true
json = false
file = "/tmp/promoworker.log"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Database.URL).To(Equal("postgres://localhost/promo"))
			Expect(cfg.Database.SQLitePath).To(Equal("/tmp/promo.db"))
			Expect(cfg.Embedding.Provider).To(Equal("openai"))
			Expect(cfg.Embedding.Target).To(Equal("https://api.openai.com/v1"))
			Expect(cfg.Embedding.Model).To(Equal("text-embedding-3-small"))
			Expect(cfg.Embedding.APIKey).To(Equal("sk-test"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(512)))
			Expect(cfg.Events.Provider).To(Equal("kafka"))
			Expect(cfg.Events.Brokers).To(Equal([]string{"kafka-1:9092", "kafka-2:9092"}))
			Expect(cfg.Events.Topic).To(Equal("promo.events"))
			Expect(cfg.Worker.Limit).To(Equal(uint(25)))
			Expect(cfg.Worker.DryRun).To(BeTrue())
			Expect(cfg.Log.Level).To(Equal("debug"))
			Expect(cfg.Log.Pretty).To(BeTrue())
			Expect(cfg.Log.File).To(Equal("/tmp/promoworker.log"))
		})

		It("fills in defaults for unset fields in a partial config", func() {
			writeConfig(tmpDir, `[events]
provider = "kafka"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Events.Provider).To(Equal("kafka"))
			Expect(cfg.Events.Topic).To(Equal(defaults.Events.Topic))
			Expect(cfg.Embedding).To(Equal(defaults.Embedding))
			Expect(cfg.Log.Level).To(Equal(defaults.Log.Level))
		})

		It("returns error for malformed TOML", func() {
			writeConfig(tmpDir, `[embedding
provider = `)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing config TOML"))
		})

		It("returns error for unsupported config version", func() {
			writeConfig(tmpDir, "version = 7\n")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version 7"))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Database.SQLitePath = "/var/lib/promo.db"
			cfg.Events.Brokers = []string{"localhost:9092"}
			Expect(c.SaveConfig(cfg)).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, "promoworker.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`sqlite_path = "/var/lib/promo.db"`))
			Expect(string(data)).To(ContainSubstring("[events]"))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SaveConfig(nil)).To(MatchError(ContainSubstring("nil config")))
		})
	})

	Describe("SetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets a string config key", func() {
			Expect(c.SetConfigValue("embedding.model", "mxbai-embed-large")).To(Succeed())

			val, err := c.GetConfigValue("embedding.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("mxbai-embed-large"))
		})

		It("sets a uint config key", func() {
			Expect(c.SetConfigValue("worker.limit", "10")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Worker.Limit).To(Equal(uint(10)))
		})

		It("sets a bool config key", func() {
			Expect(c.SetConfigValue("worker.dry_run", "true")).To(Succeed())

			val, err := c.GetConfigValue("worker.dry_run")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("true"))
		})

		It("splits broker lists", func() {
			Expect(c.SetConfigValue("events.brokers", "a:9092, b:9092,,")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Events.Brokers).To(Equal([]string{"a:9092", "b:9092"}))

			val, err := c.GetConfigValue("events.brokers")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("a:9092,b:9092"))
		})

		It("returns error for unknown key", func() {
			err := c.SetConfigValue("proxy.listen", ":8080")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("returns error for invalid values", func() {
			Expect(c.SetConfigValue("embedding.dimensions", "many")).To(MatchError(ContainSubstring("invalid value for embedding.dimensions")))
			Expect(c.SetConfigValue("worker.dry_run", "maybe")).To(MatchError(ContainSubstring("invalid value for worker.dry_run")))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("events.provider", "kafka")).To(Succeed())
			Expect(c.SetConfigValue("events.topic", "promo.events")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Events.Provider).To(Equal("kafka"))
			Expect(cfg.Events.Topic).To(Equal("promo.events"))
		})
	})

	Describe("GetConfigValue", func() {
		It("returns default value when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("embedding.dimensions")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("768"))
		})

		It("returns empty string for key with no default", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := c.GetConfigValue("database.url")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeEmpty())

			val, err = c.GetConfigValue("worker.limit")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeEmpty())
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.GetConfigValue("nope")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("returns keys in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys).To(HaveLen(16))
		Expect(keys[0]).To(Equal("database.url"))
		Expect(keys[len(keys)-1]).To(Equal("log.file"))
		Expect(config.ValidConfigKeys()).To(Equal(keys))
	})

	It("matches IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("proxy.listen")).To(BeFalse())
		Expect(config.IsValidConfigKey("database")).To(BeFalse())
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("returns empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML([]byte{})
		Expect(err).NotTo(HaveOccurred())
		Expect(*cfg).To(Equal(config.Config{}))
	})

	It("rejects unsupported config version", func() {
		_, err := config.ParseConfigTOML([]byte("version = 2\n"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("SplitList", func() {
	It("trims entries and drops blanks", func() {
		Expect(config.SplitList(" a , ,b,")).To(Equal([]string{"a", "b"}))
		Expect(config.SplitList("")).To(BeEmpty())
	})
})
