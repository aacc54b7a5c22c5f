package fleet_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/fleet"
	"github.com/kubev2v/pipeline-verifier/internal/models"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
	"github.com/kubev2v/pipeline-verifier/test"
)

var _ = Describe("Controller", func() {
	var (
		ctx         context.Context
		rt          *test.MockRuntime
		provisioner *test.MockProvisioner
		controller  *fleet.Controller
	)

	BeforeEach(func() {
		ctx = context.Background()
		rt = test.NewMockRuntime()
		provisioner = &test.MockProvisioner{}
		controller = fleet.NewController(rt, provisioner, zap.NewNop())
	})

	Context("Provision", func() {
		// Given a provisioner that starts the four pipeline nodes
		// When we provision the fleet
		// Then the observed node set should cover every required node
		It("should return the nodes running after provisioning", func() {
			provisioner.OnProvision = func() {
				for _, n := range models.RequiredNodes {
					rt.Start(models.Container{ID: n.Name, Names: []string{n.Name}})
				}
			}

			f, err := controller.Provision(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(provisioner.Calls).To(Equal(1))
			Expect(f.Covers(models.RequiredNodes)).To(BeTrue())
		})

		// Given a trigger that fails after starting only part of the topology
		// When we provision the fleet
		// Then the partial fleet is returned together with the provisioning error
		It("should return the partial fleet when the trigger fails", func() {
			provisioner.Err = srvErrors.NewProvisioningError(1, "target_2 failed to start")
			provisioner.OnProvision = func() {
				rt.Start(models.Container{ID: "agent", Names: []string{"agent"}})
			}

			f, err := controller.Provision(ctx)

			Expect(srvErrors.IsProvisioningError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("target_2 failed to start"))
			Expect(f.List()).To(Equal([]string{"agent"}))
			Expect(f.Missing(models.RequiredNodes)).To(ContainElement("target_2"))
		})

		It("should report an internal error when listing fails", func() {
			rt.ListErr = errors.New("socket closed")

			f, err := controller.Provision(ctx)

			Expect(srvErrors.IsInternalError(err)).To(BeTrue())
			Expect(f.IsEmpty()).To(BeTrue())
		})
	})

	Context("Teardown", func() {
		It("should stop every node before pruning", func() {
			rt.Start(models.Container{ID: "agent", Names: []string{"agent"}})
			rt.Start(models.Container{ID: "splitter", Names: []string{"splitter"}})

			report, err := controller.Teardown(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(report.Stopped).To(Equal([]string{"agent", "splitter"}))
			Expect(report.Pruned).To(ConsistOf("agent", "splitter"))
			Expect(rt.Calls).To(Equal([]string{"list", "stop:agent", "stop:splitter", "prune"}))

			f, err := controller.Running(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.IsEmpty()).To(BeTrue())
		})

		// Given no running node
		// When we tear down twice
		// Then both calls succeed and the fleet stays empty
		It("should be idempotent on an empty fleet", func() {
			_, err := controller.Teardown(ctx)
			Expect(err).NotTo(HaveOccurred())

			report, err := controller.Teardown(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Stopped).To(BeEmpty())

			f, err := controller.Running(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.IsEmpty()).To(BeTrue())
		})

		It("should skip pruning when a node fails to stop", func() {
			rt.Start(models.Container{ID: "agent", Names: []string{"agent"}})
			rt.Start(models.Container{ID: "splitter", Names: []string{"splitter"}})
			rt.StopErr["agent"] = errors.New("timeout")

			report, err := controller.Teardown(ctx)

			Expect(srvErrors.IsInternalError(err)).To(BeTrue())
			Expect(report.Stopped).To(Equal([]string{"splitter"}))
			Expect(rt.Calls).NotTo(ContainElement("prune"))
			Expect(rt.Stopped()).To(HaveLen(1))
		})

		It("should wrap prune failures", func() {
			rt.PruneErr = errors.New("busy")

			_, err := controller.Teardown(ctx)

			Expect(srvErrors.IsInternalError(err)).To(BeTrue())
		})
	})
})
