package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/pipeline-verifier/internal/config"
)

var _ = Describe("Configuration", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		var err error
		cfg, err = config.NewConfigurationWithDefaults()
		Expect(err).NotTo(HaveOccurred())
	})

	Context("defaults", func() {
		It("should point at the pipeline layout one directory up", func() {
			Expect(cfg.Paths.InputArtifact).To(Equal("../agent/inputs/large_1M_events.log"))
			Expect(cfg.Paths.EventLog).To(Equal("../events.log"))
			Expect(cfg.Paths.ConfigRoot).To(Equal(".."))
			Expect(cfg.Paths.ConfigPatterns).To(Equal([]string{"*.json"}))
		})

		It("should provision with docker-compose", func() {
			Expect(cfg.Fleet.ComposeCommand).To(Equal("docker-compose up -d"))
			Expect(cfg.Fleet.ProvisionTimeout).To(BeZero())
			Expect(cfg.Fleet.StopTimeout).To(Equal(uint(10)))
		})

		It("should settle by polling", func() {
			Expect(cfg.Settle.Mode).To(Equal(config.SettleModeStable))
			Expect(cfg.Settle.Period).To(Equal(3 * time.Second))
			Expect(cfg.Settle.MaxWait).To(Equal(2 * time.Minute))
		})

		It("should be valid", func() {
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Runner.Workers).To(Equal(1))
			Expect(cfg.Store.Path).To(BeEmpty())
		})
	})

	Context("Validate", func() {
		It("should reject an unknown settle mode", func() {
			cfg.Settle.Mode = "forever"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("invalid settle mode")))
		})

		It("should reject non-positive stable intervals", func() {
			cfg.Settle.MaxWait = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should accept fixed mode without polling intervals", func() {
			cfg.Settle.Mode = config.SettleModeFixed
			cfg.Settle.MaxWait = 0
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject an empty compose command", func() {
			cfg.Fleet.ComposeCommand = ""
			Expect(cfg.Validate()).To(MatchError("compose command is empty"))
		})

		It("should reject zero workers", func() {
			cfg.Runner.Workers = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject missing config patterns", func() {
			cfg.Paths.ConfigPatterns = nil
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown log format", func() {
			cfg.LogFormat = "xml"
			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})

	It("should expose a debug map", func() {
		m := cfg.DebugMap()
		Expect(m).To(HaveKeyWithValue("settle_mode", "stable"))
		Expect(m).To(HaveKeyWithValue("workers", 1))
	})
})
