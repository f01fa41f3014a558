package fracture_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

// diamond is a center vertex at the origin ringed by four vertices.
func diamond() *mesh.Mesh {
	positions := []r3.Vec{{}, {Y: 1}, {X: 1}, {Y: -1}, {X: -1}}
	neighbors := [][]int{
		{1, 2, 3, 4},
		{0, 2, 4},
		{0, 1, 3},
		{0, 2, 4},
		{0, 1, 3},
	}
	m, err := mesh.New(positions, neighbors)
	Expect(err).NotTo(HaveOccurred())
	return m
}

func hotspotLattice() (*mesh.Lattice, stress.Field) {
	l, err := mesh.NewLattice(16, 16, mesh.DefaultLatticeOptions())
	Expect(err).NotTo(HaveOccurred())
	field, err := stress.Hotspots(l, stress.DefaultHotspotOptions())
	Expect(err).NotTo(HaveOccurred())
	return l, field
}

func fractureWith(g mesh.Grid, field stress.Field, plates int, opts ...fracture.Option) []*fracture.Region {
	f, err := fracture.New(opts...)
	Expect(err).NotTo(HaveOccurred())
	regions := f.Initialize(g, plates)
	Expect(f.Fracture(g, field, regions)).To(Succeed())
	return regions
}

var moderate = fracture.WithStrengths(0.03, 0.02, 0.03)

var _ = Describe("Fracturing", func() {
	Context("with an always-true predicate", func() {
		It("lets a single region claim every reachable vertex", func() {
			l, err := mesh.NewLattice(5, 4, mesh.DefaultLatticeOptions())
			Expect(err).NotTo(HaveOccurred())

			regions := fractureWith(l, make(stress.Field, l.VertexCount()), 1,
				fracture.WithPredicate(fracture.AlwaysConnected),
				fracture.WithSeedGrowthBudget(0),
				fracture.WithPolicy(fracture.PolicyAllRegions))

			Expect(fracture.Sizes(regions)).To(Equal([]int{l.VertexCount()}))
			Expect(regions[0].State()).To(Equal(fracture.Stable))
		})

		It("grows region zero during seeding under the background policy", func() {
			l, err := mesh.NewLattice(4, 4, mesh.DefaultLatticeOptions())
			Expect(err).NotTo(HaveOccurred())

			regions := fractureWith(l, make(stress.Field, l.VertexCount()), 1,
				fracture.WithPredicate(fracture.AlwaysConnected))

			Expect(regions[0].Size()).To(Equal(l.VertexCount()))
		})
	})

	Context("with an always-false predicate", func() {
		It("keeps every seeded plate at its seed", func() {
			l, field := hotspotLattice()
			regions := fractureWith(l, field, 5, fracture.WithPredicate(fracture.NeverConnected))

			Expect(fracture.Sizes(regions)).To(Equal([]int{1, 1, 1, 1, 1}))
			for _, r := range regions {
				Expect(r.State()).To(Equal(fracture.Stable))
			}
		})

		It("leaves surplus plates empty", func() {
			l, err := mesh.NewLattice(2, 1, mesh.DefaultLatticeOptions())
			Expect(err).NotTo(HaveOccurred())

			regions := fractureWith(l, make(stress.Field, 2), 3, fracture.WithPredicate(fracture.NeverConnected))

			Expect(fracture.Sizes(regions)).To(Equal([]int{1, 1, 0}))
			Expect(regions[2].State()).To(Equal(fracture.Empty))
			Expect(regions[2].Seed()).To(Equal(-1))
		})
	})

	Context("on a diamond", func() {
		It("assigns the center to exactly one of two plates", func() {
			g := diamond()
			field := stress.Field{{}, {Y: 5}, {}, {Y: -5}, {}}

			f, err := fracture.New(
				fracture.WithStrengths(10, 10, 10),
				fracture.WithSeedGrowthBudget(0),
				fracture.WithPolicy(fracture.PolicyAllRegions))
			Expect(err).NotTo(HaveOccurred())
			regions := f.Initialize(g, 2)
			Expect(f.Fracture(g, field, regions)).To(Succeed())

			Expect(regions[0].Seed()).To(Equal(1))
			Expect(regions[1].Seed()).To(Equal(3))

			counts := fracture.Counts(regions)
			Expect(counts[0]).To(Equal(1))
			for _, c := range counts {
				Expect(c).To(BeNumerically("<=", 1))
			}

			plateMap := fracture.Map(regions, f.Policy())
			Expect(plateMap[0]).To(Equal(0))
			Expect(plateMap[1]).To(Equal(0))
			Expect(plateMap[3]).To(Equal(1))
		})

		// Seed 1 pulls on the center with a tensile factor of 5, seed 3 with 3.
		DescribeTable("lets the strengths decide who owns the center",
			func(strength float64, owner int) {
				g := diamond()
				field := stress.Field{{}, {Y: 5}, {}, {Y: -3}, {}}

				f, err := fracture.New(
					fracture.WithStrengths(strength, strength, strength),
					fracture.WithSeedGrowthBudget(0),
					fracture.WithPolicy(fracture.PolicyAllRegions))
				Expect(err).NotTo(HaveOccurred())
				regions := f.Initialize(g, 2)
				Expect(f.Fracture(g, field, regions)).To(Succeed())

				Expect(regions[0].Seed()).To(Equal(1))
				Expect(regions[1].Seed()).To(Equal(3))

				if owner < 0 {
					Expect(fracture.Unclaimed(regions)).To(Equal([]int{0}))
					return
				}
				Expect(regions[owner].Includes(0)).To(BeTrue())
				Expect(regions[1-owner].Includes(0)).To(BeFalse())
				Expect(fracture.Map(regions, f.Policy())[0]).To(Equal(owner))
			},
			Entry("both edges hold, first plate wins", 10.0, 0),
			Entry("only the weaker pull holds", 4.0, 1),
			Entry("neither edge holds", 2.9, -1),
		)
	})

	DescribeTable("keeps plates disjoint and seeded",
		func(opts ...fracture.Option) {
			l, field := hotspotLattice()
			regions := fractureWith(l, field, 6, append([]fracture.Option{moderate}, opts...)...)

			for id, c := range fracture.Counts(regions) {
				Expect(c).To(BeNumerically("<=", 1), "vertex %d", id)
			}
			for j, r := range regions {
				Expect(r.Size()).To(BeNumerically(">=", 1), "plate %d", j)
				Expect(r.Includes(r.Seed())).To(BeTrue())
			}
		},
		Entry("sequential, background policy"),
		Entry("sequential, all regions", fracture.WithPolicy(fracture.PolicyAllRegions)),
		Entry("parallel, background policy", fracture.WithParallel()),
		Entry("parallel, all regions", fracture.WithParallel(), fracture.WithPolicy(fracture.PolicyAllRegions)),
	)

	It("covers the whole sphere when nothing fractures", func() {
		s, err := mesh.NewIcosphere(2, 1)
		Expect(err).NotTo(HaveOccurred())
		regions := fractureWith(s, make(stress.Field, s.VertexCount()), 8,
			fracture.WithPredicate(fracture.AlwaysConnected),
			fracture.WithPolicy(fracture.PolicyAllRegions),
			fracture.WithParallel())

		Expect(fracture.Unclaimed(regions)).To(BeEmpty())
		total := 0
		for _, n := range fracture.Sizes(regions) {
			total += n
		}
		Expect(total).To(Equal(s.VertexCount()))
	})

	It("only ever grows a plate while converging", func() {
		l, field := hotspotLattice()
		f, err := fracture.New(moderate, fracture.WithSeedGrowthBudget(2))
		Expect(err).NotTo(HaveOccurred())
		run, err := f.Start(l, field, f.Initialize(l, 4))
		Expect(err).NotTo(HaveOccurred())

		prev := make([][]int, len(run.Regions()))
		for j, r := range run.Regions() {
			prev[j] = r.Members()
		}
		for !run.Done() {
			run.Step()
			for j, r := range run.Regions() {
				for _, id := range prev[j] {
					Expect(r.Includes(id)).To(BeTrue())
				}
				prev[j] = r.Members()
			}
		}
		Expect(run.Iterations()).To(BeNumerically(">", 0))
	})

	It("is idempotent once converged", func() {
		l, field := hotspotLattice()
		f, err := fracture.New(moderate)
		Expect(err).NotTo(HaveOccurred())
		run, err := f.Start(l, field, f.Initialize(l, 4))
		Expect(err).NotTo(HaveOccurred())
		run.Converge()

		before := fracture.Map(run.Regions(), f.Policy())
		sizes := fracture.Sizes(run.Regions())
		Expect(run.Converge()).To(Equal(0))
		Expect(run.Step()).To(Equal(0))
		Expect(fracture.Map(run.Regions(), f.Policy())).To(Equal(before))
		Expect(fracture.Sizes(run.Regions())).To(Equal(sizes))
	})

	It("is deterministic when sequential", func() {
		l, field := hotspotLattice()
		a := fracture.Assign(fractureWith(l, field, 6, moderate), fracture.PolicyBackgroundReserved)
		b := fracture.Assign(fractureWith(l, field, 6, moderate), fracture.PolicyBackgroundReserved)
		Expect(cmp.Diff(a.Map, b.Map)).To(BeEmpty())
		Expect(cmp.Diff(a.Sizes, b.Sizes)).To(BeEmpty())
		Expect(cmp.Diff(a.Counts, b.Counts)).To(BeEmpty())
	})

	It("rejects a field sized for another grid", func() {
		l, _ := hotspotLattice()
		f, err := fracture.New()
		Expect(err).NotTo(HaveOccurred())
		err = f.Fracture(l, make(stress.Field, 3), f.Initialize(l, 2))
		Expect(err).To(MatchError(fracture.ErrSizeMismatch))
	})
})
