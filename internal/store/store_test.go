package store_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/md"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/potential"
	"github.com/san-kum/polypot/internal/store"
)

func samplePotential() *potential.Potential {
	d, err := dict.New(3, "exp(1,2)", "sw(1.2,2.2)")
	Expect(err).NotTo(HaveOccurred())
	basis, err := nbody.Basis(d, 3)
	Expect(err).NotTo(HaveOccurred())

	terms := []nbody.Term{nbody.NewOneBody(-0.5)}
	coeffs := []float64{1}
	for k, b := range basis {
		terms = append(terms, b)
		coeffs = append(coeffs, 0.1*float64(k+1))
	}
	combined, err := nbody.Combine(terms, coeffs)
	Expect(err).NotTo(HaveOccurred())
	return potential.New(combined)
}

var _ = Describe("Store", func() {
	var (
		dir string
		st  *store.Store
		p   *potential.Potential
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = store.New(dir)
		Expect(st.Init()).To(Succeed())
		p = samplePotential()
	})

	It("starts empty", func() {
		Expect(st.List()).To(BeEmpty())
	})

	It("lists nothing for a missing directory", func() {
		entries, err := store.New(filepath.Join(dir, "missing")).List()
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("saves metadata and the potential", func() {
		id, err := st.Save("trimer", p, map[string]float64{"rmse": 0.01})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeEmpty())

		Expect(filepath.Join(dir, id, "metadata.json")).To(BeAnExistingFile())
		Expect(filepath.Join(dir, id, "potential.json")).To(BeAnExistingFile())

		meta, err := st.Load(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Name).To(Equal("trimer"))
		Expect(meta.BodyOrder).To(Equal(3))
		Expect(meta.Cutoff).To(Equal(2.2))
		Expect(meta.Terms).To(Equal(2))
		Expect(meta.Functions).To(Equal(p.Len()))
		Expect(meta.Metrics).To(HaveKeyWithValue("rmse", 0.01))

		q, err := st.LoadPotential(id)
		Expect(err).NotTo(HaveOccurred())

		at, _ := atoms.Lattice("trimer", 1.3, [3]int{})
		e0, err := p.Energy(at)
		Expect(err).NotTo(HaveOccurred())
		e1, err := q.Energy(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(e1).To(Equal(e0))
	})

	It("lists entries oldest first", func() {
		a, err := st.Save("a", p, nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := st.Save("b", p, nil)
		Expect(err).NotTo(HaveOccurred())

		// stray files are ignored
		Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(dir, "empty"), 0755)).To(Succeed())

		entries, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].ID).To(Equal(a))
		Expect(entries[1].ID).To(Equal(b))
	})

	It("reports missing entries", func() {
		_, err := st.Load("nope")
		Expect(err).To(MatchError(store.ErrNotFound))
		_, err = st.LoadPotential("nope")
		Expect(err).To(MatchError(store.ErrNotFound))
		Expect(st.SaveScan("nope", "a", nil)).To(MatchError(store.ErrNotFound))
	})

	It("round-trips energy scans", func() {
		id, err := st.Save("scan", p, nil)
		Expect(err).NotTo(HaveOccurred())

		_, _, err = st.LoadScan(id)
		Expect(err).To(MatchError(store.ErrNotFound))

		points := []store.ScanPoint{{Param: 1.1, Energy: -3.25}, {Param: 1.2, Energy: -3.5}, {Param: 1.3, Energy: 0.1}}
		Expect(st.SaveScan(id, "a", points)).To(Succeed())

		param, got, err := st.LoadScan(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(param).To(Equal("a"))
		Expect(got).To(Equal(points))
	})

	It("exports MD trajectories as JSON", func() {
		res := &md.Result{
			Snapshots: []md.Snapshot{
				{Step: 0, Time: 0, Potential: -1, Kinetic: 0.5, Temperature: 0.2},
				{Step: 10, Time: 0.1, Potential: -0.9, Kinetic: 0.4, Temperature: 0.15},
			},
			Metrics:     map[string]float64{"energy_drift": 1e-6},
			EnergyDrift: 1e-6,
			StepsTaken:  10,
		}

		var buf bytes.Buffer
		Expect(store.WriteTrajectory(&buf, 0.01, res)).To(Succeed())

		var tr store.Trajectory
		Expect(json.Unmarshal(buf.Bytes(), &tr)).To(Succeed())
		Expect(tr.Steps).To(Equal(10))
		Expect(tr.Times).To(Equal([]float64{0, 0.1}))
		Expect(tr.Potential).To(Equal([]float64{-1, -0.9}))
		Expect(tr.Metrics).To(HaveKey("energy_drift"))

		path := filepath.Join(dir, "traj.json")
		Expect(store.ExportTrajectory(path, 0.01, res)).To(Succeed())
		Expect(path).To(BeAnExistingFile())
	})
})
