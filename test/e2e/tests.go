package main

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/verify"
)

var _ = Describe("Log pipeline", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		Expect(harness.Session.Open(ctx)).To(Succeed())
		if err := harness.Session.ProvisionError(); err != nil {
			GinkgoWriter.Printf("provisioning reported: %v\n", err)
		}
	})

	AfterEach(func() {
		Expect(harness.Session.Close(ctx)).To(Succeed())
	})

	// Given a freshly provisioned fleet
	// When we list the running nodes
	// Then agent, splitter and both targets are there
	It("should create every container", func() {
		f, err := harness.Session.Fleet()
		Expect(err).NotTo(HaveOccurred())

		Expect(f.Missing(models.RequiredNodes)).To(BeEmpty())
	})

	It("should create the event log", func() {
		Expect(harness.Session.OutputExists()).To(BeTrue())
	})

	// Given the agent replays the input artifact
	// When the pipeline has drained
	// Then the event log holds exactly as many lines as the input
	It("should deliver every input line", func() {
		lc, err := harness.Session.CompareLineCounts(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(lc.Output).To(Equal(lc.Input))
	})

	DescribeTable("should ship valid configuration",
		func(role models.Role) {
			results, err := harness.Session.ValidateConfigs(role)
			Expect(err).NotTo(HaveOccurred())

			for _, r := range results {
				Expect(r.Err).NotTo(HaveOccurred(), r.Path)
			}
		},
		Entry("for the agent", models.RoleAgent),
		Entry("for the splitter", models.RoleSplitter),
		Entry("for the targets", models.RoleTarget),
	)

	DescribeTable("should run every node in its role",
		func(node models.Node) {
			text := strings.ToLower(harness.Session.Logs(ctx, node.Name))

			Expect(text).To(ContainSubstring(node.Role.WorkingMarker()))
		},
		Entry("agent", models.RequiredNodes[0]),
		Entry("splitter", models.RequiredNodes[1]),
		Entry("target_1", models.RequiredNodes[2]),
		Entry("target_2", models.RequiredNodes[3]),
	)

	It("should delete every container", func() {
		_, err := harness.Session.Teardown(ctx)
		Expect(err).NotTo(HaveOccurred())

		f, err := harness.Session.Running(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.IsEmpty()).To(BeTrue(), strings.Join(f.List(), ", "))
	})
})

var _ = Describe("Verification run", func() {
	It("should pass every check in one pass", func() {
		run, err := verify.NewRunner(harness.Session, 1, zap.L()).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, r := range run.Results {
			Expect(r.Outcome).To(Equal(models.OutcomePassed), r.Name+": "+r.Detail)
		}
	})
})
