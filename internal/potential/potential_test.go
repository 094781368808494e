package potential_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/potential"
	"github.com/san-kum/polypot/internal/record"
)

func randomTerm(order, degree int, transform, cutoff string, seed int64) *nbody.NBody {
	d, err := dict.New(order, transform, cutoff)
	Expect(err).NotTo(HaveOccurred())
	tuples, err := nbody.GenTuples(order, nbody.DegreeBound(order, degree))
	Expect(err).NotTo(HaveOccurred())

	rng := rand.New(rand.NewSource(seed))
	coeffs := make([]float64, len(tuples))
	for k := range coeffs {
		coeffs[k] = 0.1 * (2*rng.Float64() - 1)
	}
	b, err := nbody.New(d, tuples, coeffs)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func testPotential(opts ...potential.Option) *potential.Potential {
	return potential.New([]nbody.Term{
		nbody.NewOneBody(-1.5),
		randomTerm(2, 6, "inv(1,2)", "sw(1.2,1.9)", 1),
		randomTerm(3, 5, "exp(1,1.5)", "sw(1.0,1.6)", 2),
		randomTerm(4, 4, "inv(1,1)", "sw(1.0,1.5)", 3),
	}, opts...)
}

func rattledFCC(seed int64) *atoms.Atoms {
	at, err := atoms.Lattice("fcc", 1.6, [3]int{2, 2, 2})
	Expect(err).NotTo(HaveOccurred())
	atoms.Rattle(at, 0.04, seed)
	return at
}

var _ = Describe("Potential", func() {
	Describe("1-body term", func() {
		It("contributes a constant per atom and no force", func() {
			pos := make([]r3.Vec, 10)
			for i := range pos {
				pos[i] = r3.Vec{X: float64(i) * 0.37, Y: math.Sin(float64(i)), Z: 0.1 * float64(i*i)}
			}
			at := atoms.New(pos)
			p := potential.New([]nbody.Term{nbody.NewOneBody(-4.0)})

			e, f, err := p.EnergyForces(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(Equal(-40.0))
			Expect(f).To(HaveLen(10))
			for _, fi := range f {
				Expect(fi).To(Equal(r3.Vec{}))
			}

			site, err := p.SiteEnergies(at)
			Expect(err).NotTo(HaveOccurred())
			for _, s := range site {
				Expect(s).To(Equal(-4.0))
			}
		})
	})

	Describe("pair term", func() {
		It("counts each bond once per member atom", func() {
			d, err := dict.New(2, "id", "cos(2,3)")
			Expect(err).NotTo(HaveOccurred())
			b, err := nbody.New(d, []nbody.Tuple{{2, 0}}, []float64{0.5})
			Expect(err).NotTo(HaveOccurred())

			at, _ := atoms.Lattice("dimer", 1.5, [3]int{})
			e, err := potential.Evaluate(b, at)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", 2*0.5*1.5*1.5, 1e-14))

			g, err := potential.EvaluateGradient(b, at)
			Expect(err).NotTo(HaveOccurred())
			// dE/dx of atom 1 = 2 * 0.5 * 2r
			Expect(g[1].X).To(BeNumerically("~", 3.0, 1e-14))
			Expect(g[0].X).To(BeNumerically("~", -3.0, 1e-14))
		})
	})

	Describe("many-body potential", func() {
		var (
			p  *potential.Potential
			at *atoms.Atoms
		)

		BeforeEach(func() {
			p = testPotential()
			at = rattledFCC(5)
		})

		It("reports the largest cutoff and body order", func() {
			Expect(p.Cutoff()).To(Equal(1.9))
			Expect(p.BodyOrder()).To(Equal(4))
		})

		It("returns site energies that sum to the energy", func() {
			e, err := p.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			site, err := p.SiteEnergies(at)
			Expect(err).NotTo(HaveOccurred())
			var sum float64
			for _, s := range site {
				sum += s
			}
			Expect(sum).To(BeNumerically("~", e, 1e-10*math.Max(1, math.Abs(e))))
		})

		It("has forces equal to the negative energy gradient", func() {
			e0, f, err := p.EnergyForces(at)
			Expect(err).NotTo(HaveOccurred())
			e1, err := p.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(e0).To(BeNumerically("~", e1, 1e-12*math.Max(1, math.Abs(e1))))

			const h = 1e-5
			for _, i := range []int{0, 7, 19, 31} {
				for axis := 0; axis < 3; axis++ {
					p0 := at.Pos[i]
					at.Pos[i] = shift(p0, axis, h)
					ep, err := p.Energy(at)
					Expect(err).NotTo(HaveOccurred())
					at.Pos[i] = shift(p0, axis, -h)
					em, err := p.Energy(at)
					Expect(err).NotTo(HaveOccurred())
					at.Pos[i] = p0

					fd := -(ep - em) / (2 * h)
					Expect(component(f[i], axis)).To(BeNumerically("~", fd, 1e-6*math.Max(1, math.Abs(fd))),
						"atom %d axis %d", i, axis)
				}
			}
		})

		It("has forces that sum to zero", func() {
			f, err := p.Forces(at)
			Expect(err).NotTo(HaveOccurred())
			var total r3.Vec
			for _, fi := range f {
				total = r3.Add(total, fi)
			}
			Expect(r3.Norm(total)).To(BeNumerically("<", 1e-10))
		})

		It("gives the same result on one or many workers", func() {
			serial := testPotential(potential.WithWorkers(1))
			parallel := testPotential(potential.WithWorkers(4))

			es, fs, err := serial.EnergyForces(at)
			Expect(err).NotTo(HaveOccurred())
			ep, fp, err := parallel.EnergyForces(at)
			Expect(err).NotTo(HaveOccurred())

			Expect(ep).To(BeNumerically("~", es, 1e-12*math.Max(1, math.Abs(es))))
			for i := range fs {
				Expect(r3.Norm(r3.Sub(fs[i], fp[i]))).To(BeNumerically("<", 1e-12))
			}
		})

		It("has a virial consistent with homogeneous strain", func() {
			w, err := p.Virial(at)
			Expect(err).NotTo(HaveOccurred())

			const h = 1e-6
			for axis := 0; axis < 3; axis++ {
				ep, err := p.Energy(strained(at, axis, h))
				Expect(err).NotTo(HaveOccurred())
				em, err := p.Energy(strained(at, axis, -h))
				Expect(err).NotTo(HaveOccurred())

				fd := -(ep - em) / (2 * h)
				Expect(w.At(axis, axis)).To(BeNumerically("~", fd, 1e-5*math.Max(1, math.Abs(fd))))
			}

			s, err := p.Stress(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.At(0, 0)).To(BeNumerically("~", -w.At(0, 0)/at.Volume(), 1e-12))
		})

		It("is unchanged by compaction", func() {
			c, err := p.Compact()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Terms()).To(HaveLen(4))

			e0, err := p.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			e1, err := c.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(e1).To(BeNumerically("~", e0, 1e-12*math.Max(1, math.Abs(e0))))
		})

		It("evaluates terms separately", func() {
			terms := p.Terms()
			es, err := potential.Energies(terms, at)
			Expect(err).NotTo(HaveOccurred())
			Expect(es).To(HaveLen(len(terms)))

			var sum float64
			for k, t := range terms {
				e, err := potential.Evaluate(t, at)
				Expect(err).NotTo(HaveOccurred())
				Expect(es[k]).To(BeNumerically("~", e, 1e-12*math.Max(1, math.Abs(e))))
				sum += e
			}
			total, err := p.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeNumerically("~", total, 1e-10*math.Max(1, math.Abs(total))))
		})

		It("survives a record round trip", func() {
			v, err := record.Decode(p.ToRecord())
			Expect(err).NotTo(HaveOccurred())
			q, ok := v.(*potential.Potential)
			Expect(ok).To(BeTrue())

			e0, err := p.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			e1, err := q.Energy(at)
			Expect(err).NotTo(HaveOccurred())
			Expect(e1).To(Equal(e0))
		})
	})

	Describe("open boundaries", func() {
		It("rejects stress without a cell", func() {
			at, _ := atoms.Lattice("trimer", 1.1, [3]int{})
			_, err := testPotential().Stress(at)
			Expect(err).To(MatchError(atoms.ErrCell))
		})
	})
})

func shift(p r3.Vec, axis int, h float64) r3.Vec {
	switch axis {
	case 0:
		p.X += h
	case 1:
		p.Y += h
	default:
		p.Z += h
	}
	return p
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// strained stretches positions and cell along one axis by 1+eps.
func strained(at *atoms.Atoms, axis int, eps float64) *atoms.Atoms {
	s := at.Clone()
	for i, p := range s.Pos {
		s.Pos[i] = shift(p, axis, eps*component(p, axis))
	}
	s.Cell = shift(s.Cell, axis, eps*component(s.Cell, axis))
	return s
}
