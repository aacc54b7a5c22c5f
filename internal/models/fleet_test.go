package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/pipeline-verifier/internal/models"
)

var _ = Describe("Fleet", func() {
	// Given the four nodes of the pipeline plus an unrelated container
	// When we build a fleet from them
	// Then it should cover the required topology
	It("should cover the required nodes as a superset", func() {
		fleet := models.NewFleet([]models.Container{
			{ID: "1", Names: []string{"agent"}},
			{ID: "2", Names: []string{"/splitter"}},
			{ID: "3", Names: []string{"target_1"}},
			{ID: "4", Names: []string{"target_2"}},
			{ID: "5", Names: []string{"registry"}},
		})

		Expect(fleet.Covers(models.RequiredNodes)).To(BeTrue())
		Expect(fleet.Missing(models.RequiredNodes)).To(BeEmpty())
		Expect(fleet.Len()).To(Equal(5))
	})

	It("should report missing nodes in sorted order", func() {
		fleet := models.NewFleet([]models.Container{{ID: "1", Names: []string{"splitter"}}})

		Expect(fleet.Covers(models.RequiredNodes)).To(BeFalse())
		Expect(fleet.Missing(models.RequiredNodes)).To(Equal([]string{"agent", "target_1", "target_2"}))
	})

	It("should be empty when nothing runs", func() {
		fleet := models.NewFleet(nil)

		Expect(fleet.IsEmpty()).To(BeTrue())
		Expect(fleet.List()).To(BeEmpty())
	})
})

var _ = Describe("Container", func() {
	It("should match names case-insensitively", func() {
		c := models.Container{Names: []string{"/Agent"}}

		Expect(c.HasName("agent")).To(BeTrue())
		Expect(c.HasName("AGENT")).To(BeTrue())
		Expect(c.HasName("splitter")).To(BeFalse())
	})
})

var _ = Describe("Run", func() {
	It("should pass only when every check passed", func() {
		run := models.Run{Results: []models.CheckResult{
			{Name: "a", Outcome: models.OutcomePassed},
			{Name: "b", Outcome: models.OutcomeTimedOut},
		}}

		Expect(run.Passed()).To(BeFalse())
		Expect(run.Count(models.OutcomeTimedOut)).To(Equal(1))

		run.Results[1].Outcome = models.OutcomePassed
		Expect(run.Passed()).To(BeTrue())
	})

	It("should not pass without results", func() {
		Expect(models.Run{}.Passed()).To(BeFalse())
	})

	It("should build the working marker from the role", func() {
		Expect(models.RoleTarget.WorkingMarker()).To(Equal("working as target"))
	})
})
