package errors_test

import (
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

var _ = Describe("Errors", func() {
	Context("ProvisioningError", func() {
		It("should render the exit code and captured output verbatim", func() {
			err := srvErrors.NewProvisioningError(2, "no such service: agent\n")

			Expect(err.Error()).To(Equal("CalledProcessError (code: 2): no such service: agent\n"))
			Expect(srvErrors.IsProvisioningError(err)).To(BeTrue())
		})

		It("should render timeouts differently", func() {
			err := srvErrors.NewProvisioningTimeoutError("partial output")

			Expect(err.Error()).To(Equal("TimeoutExpired: partial output"))
			Expect(err.TimedOut).To(BeTrue())
		})
	})

	Context("wrapping", func() {
		// Given a typed error wrapped with %w
		// When we test it with the matching predicate
		// Then the predicate should see through the wrapping
		It("should detect wrapped typed errors", func() {
			wrapped := fmt.Errorf("check agent: %w", srvErrors.NewRetrievalMissError("agent"))

			Expect(srvErrors.IsRetrievalMissError(wrapped)).To(BeTrue())
			Expect(srvErrors.IsInternalError(wrapped)).To(BeFalse())
		})

		It("should unwrap to the cause", func() {
			cause := errors.New("socket closed")
			err := srvErrors.NewInternalError("list containers", cause)

			Expect(errors.Is(err, cause)).To(BeTrue())
			Expect(err.Error()).To(Equal("list containers: socket closed"))
		})

		It("should keep the settle timeout details", func() {
			err := srvErrors.NewSettleTimeoutError(30*time.Second, 1200, errors.New("still growing"))

			Expect(srvErrors.IsSettleTimeoutError(err)).To(BeTrue())
			Expect(err.LastCount).To(Equal(1200))
			Expect(err.Error()).To(ContainSubstring("30s"))
		})
	})
})
