package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/store"
	"github.com/kubev2v/pipeline-verifier/internal/store/migrations"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

func newRun(id string, started time.Time, outcomes ...models.Outcome) models.Run {
	run := models.Run{ID: id, StartedAt: started, FinishedAt: started.Add(time.Minute)}
	for i, o := range outcomes {
		run.Results = append(run.Results, models.CheckResult{
			Name:     []string{"containers-created", "line-count-parity", "agent-config-valid"}[i%3],
			Aspect:   models.AspectContainers,
			Outcome:  o,
			Duration: time.Duration(i+1) * 1500 * time.Millisecond,
		})
	}
	return run
}

var _ = Describe("RunStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
		now time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Now().UTC().Truncate(time.Second)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		It("should return ResourceNotFoundError for an unknown run", func() {
			_, err := s.Runs().Get(ctx, "missing")

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		// Given a saved run with results
		// When we read it back
		// Then the results come back in their recorded order
		It("should return a saved run with its results", func() {
			run := newRun("r1", now, models.OutcomePassed, models.OutcomeTimedOut, models.OutcomeFailed)
			run.ProvisionError = "CalledProcessError (code: 1): boom"
			run.Results[2].Detail = "invalid configuration artifact agent/a.json"
			Expect(s.Runs().Save(ctx, run)).To(Succeed())

			got, err := s.Runs().Get(ctx, "r1")

			Expect(err).NotTo(HaveOccurred())
			Expect(got.StartedAt).To(BeTemporally("==", now))
			Expect(got.FinishedAt).To(BeTemporally("==", now.Add(time.Minute)))
			Expect(got.ProvisionError).To(Equal(run.ProvisionError))
			Expect(got.Results).To(HaveLen(3))
			Expect(got.Results[0].Name).To(Equal("containers-created"))
			Expect(got.Results[1].Outcome).To(Equal(models.OutcomeTimedOut))
			Expect(got.Results[1].Duration).To(Equal(3 * time.Second))
			Expect(got.Results[2].Detail).To(Equal(run.Results[2].Detail))
			Expect(got.Passed()).To(BeFalse())
		})

		It("should save a run without results", func() {
			Expect(s.Runs().Save(ctx, newRun("empty", now))).To(Succeed())

			got, err := s.Runs().Get(ctx, "empty")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Results).To(BeEmpty())
		})
	})

	Context("Save", func() {
		It("should reject a duplicate run id", func() {
			Expect(s.Runs().Save(ctx, newRun("dup", now, models.OutcomePassed))).To(Succeed())

			err := s.Runs().Save(ctx, newRun("dup", now, models.OutcomePassed))

			Expect(err).To(HaveOccurred())
			results, err := s.Runs().Results(ctx, "dup")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			Expect(s.Runs().Save(ctx, newRun("old", now.Add(-2*time.Hour), models.OutcomePassed))).To(Succeed())
			Expect(s.Runs().Save(ctx, newRun("mid", now.Add(-time.Hour), models.OutcomePassed, models.OutcomeErrored))).To(Succeed())
			Expect(s.Runs().Save(ctx, newRun("new", now, models.OutcomePassed, models.OutcomePassed))).To(Succeed())
		})

		It("should list newest first", func() {
			runs, err := s.Runs().List(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
			Expect(runs[0].ID).To(Equal("new"))
			Expect(runs[2].ID).To(Equal("old"))
			Expect(runs[0].Results).To(HaveLen(2))
		})

		It("should honour limit and offset", func() {
			runs, err := s.Runs().List(ctx, store.WithLimit(1), store.WithOffset(1))

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("mid"))
		})

		It("should filter failed runs", func() {
			runs, err := s.Runs().List(ctx, store.OnlyFailed())

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("mid"))
		})

		It("should count runs", func() {
			Expect(s.Runs().Count(ctx)).To(Equal(3))
			Expect(s.Runs().Count(ctx, store.OnlyFailed())).To(Equal(1))
		})
	})
})
