package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/physics"
)

var _ = Describe("Simulator", func() {
	var (
		fx     fixture
		params physics.Params
		cfg    dynamo.Config
	)

	BeforeEach(func() {
		fx = newFixture(GinkgoT(), true)
		params = physics.DefaultParams()
		cfg = dynamo.Config{Steps: 2000, Stride: 100, Baseline: testBaseline}
	})

	run := func() *dynamo.Result {
		s, err := New(fx.grid, params, fx.sources)
		Expect(err).NotTo(HaveOccurred())
		res, err := s.Run(context.Background(), fx.initial, fx.initial, cfg)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("pins both boundaries to the baseline in every snapshot", func() {
		res := run()
		Expect(res.History).To(HaveLen(cfg.ExpectedSnapshots()))
		for _, snap := range res.History {
			Expect(snap.Values[0]).To(Equal(testBaseline))
			Expect(snap.Values[len(snap.Values)-1]).To(Equal(testBaseline))
		}
	})

	It("records only finite values", func() {
		for _, snap := range run().History {
			Expect(snap.Values.IsValid()).To(BeTrue(), "step %d", snap.Step)
		}
	})

	It("records step zero, every stride and the final step", func() {
		cfg.Steps, cfg.Stride = 23, 10
		steps := make([]int, 0)
		for _, snap := range run().History {
			steps = append(steps, snap.Step)
		}
		Expect(steps).To(Equal([]int{0, 10, 20, 22}))
	})

	It("records exactly one snapshot when M is 1", func() {
		for _, k := range []int{1, 2, 1000} {
			cfg.Steps, cfg.Stride = 1, k
			Expect(run().History).To(HaveLen(1), "stride %d", k)
		}
	})

	It("produces bit-identical histories on repeated runs", func() {
		first := run()
		second := run()
		Expect(second.History).To(Equal(first.History))
	})

	Context("with every source density zero", func() {
		It("keeps the field bounded near the baseline", func() {
			cfg.Steps, cfg.Stride = 5000, 250
			limit := 3 * testStrength
			for _, snap := range run().History {
				for i, v := range snap.Values {
					Expect(math.Abs(v-testBaseline)).To(BeNumerically("<=", limit), "step %d point %d", snap.Step, i)
				}
			}
		})

		It("leaves the source term at zero", func() {
			res := run()
			for i := 1; i < len(res.Source)-1; i++ {
				Expect(res.Source[i]).To(BeZero())
			}
		})

		It("evaluates a finite positive coherence multiplier on the initial field", func() {
			samples := fx.sources.Samples()
			for i := 1; i < fx.grid.Len()-1; i++ {
				f := params.Coherence(fx.initial[i], samples[i])
				Expect(math.IsInf(f, 0) || math.IsNaN(f)).To(BeFalse())
				Expect(f).To(BeNumerically(">", 0))
			}
		})
	})
})
