package scene_test

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/procanim/internal/scene"
	"github.com/san-kum/procanim/internal/verlet"
)

var _ = Describe("Scene", func() {
	var w *verlet.World

	BeforeEach(func() {
		log := logrus.New()
		log.SetOutput(io.Discard)
		w = verlet.NewWorld(verlet.DefaultSettings())
		w.SetLogger(log)
	})

	Describe("Demo", func() {
		BeforeEach(func() {
			Expect(scene.Reset(w, "demo")).To(Succeed())
		})

		It("spawns one free particle and two linked triangles", func() {
			Expect(w.Len()).To(Equal(7))
			Expect(w.LinkCount()).To(Equal(7))
		})

		It("mixes every link mode", func() {
			modes := map[verlet.LinkMode]int{}
			w.Links(func(_ verlet.LinkID, l verlet.Link) bool {
				modes[l.Kind.Mode]++
				return true
			})
			Expect(modes).To(HaveKeyWithValue(verlet.ModeExact, 5))
			Expect(modes).To(HaveKeyWithValue(verlet.ModeMax, 1))
			Expect(modes).To(HaveKeyWithValue(verlet.ModeMin, 1))
		})

		It("seeds the free particle with the start offset", func() {
			snap := w.Snapshot()
			Expect(snap.Positions[0]).To(Equal(scene.Start))
			Expect(snap.Previous[0]).To(Equal(scene.Start.Add(scene.PrevOffset)))
		})

		It("keeps every particle inside the exact bounds after each tick", func() {
			bounds := w.Settings().Bounds
			for range 600 {
				_, err := w.Tick(1.0 / 60)
				Expect(err).NotTo(HaveOccurred())

				snap := w.Snapshot()
				Expect(snap.Finite()).To(BeTrue())
				for i, p := range snap.Positions {
					Expect(bounds.Contains(p)).To(BeTrue(), "tick %d: particle %d at %v", w.Ticks(), i, p)
				}
			}
		})
	})

	Describe("Reset", func() {
		It("reproduces the initial motion state exactly", func() {
			Expect(scene.Reset(w, "demo")).To(Succeed())
			initial := w.Snapshot().Fingerprint()

			for range 50 {
				_, _ = w.Tick(1.0 / 60)
			}
			Expect(w.Snapshot().Fingerprint()).NotTo(Equal(initial))

			Expect(scene.Reset(w, "demo")).To(Succeed())
			Expect(w.Snapshot().Fingerprint()).To(Equal(initial))
			Expect(w.Ticks()).To(BeZero())
		})

		It("produces identical trajectories after each reset", func() {
			run := func() uint64 {
				Expect(scene.Reset(w, "demo")).To(Succeed())
				for range 120 {
					_, _ = w.Tick(1.0 / 60)
				}
				return w.Snapshot().Fingerprint()
			}
			Expect(run()).To(Equal(run()))
		})

		It("rejects unknown scenes", func() {
			Expect(scene.Reset(w, "nope")).To(MatchError(ContainSubstring("unknown scene")))
		})

		It("invalidates ids from the previous scene", func() {
			Expect(scene.Reset(w, "triangle")).To(Succeed())
			var first verlet.ParticleID
			w.Particles(func(id verlet.ParticleID, _ verlet.Particle) bool {
				first = id
				return false
			})

			Expect(scene.Reset(w, "triangle")).To(Succeed())
			Expect(w.Contains(first)).To(BeFalse())
		})
	})

	Describe("Triangle", func() {
		It("settles into its link lengths without gravity", func() {
			s := w.Settings()
			s.Gravity = mgl32.Vec3{}
			w.SetSettings(s)
			Expect(scene.Reset(w, "triangle")).To(Succeed())

			for range 600 {
				_, err := w.Tick(1.0 / 60)
				Expect(err).NotTo(HaveOccurred())
			}

			for _, seg := range w.Snapshot().Segments {
				Expect(verlet.Separation(seg.A, seg.B)).To(BeNumerically("~", seg.Kind.Distance, 1e-2))
			}
		})
	})

	Describe("Ring", func() {
		It("requires three particles", func() {
			Expect(scene.Ring(w, 2, 10)).NotTo(Succeed())
		})

		It("links neighbours and opposite pairs", func() {
			Expect(scene.Ring(w, 8, 20)).To(Succeed())
			Expect(w.Len()).To(Equal(8))
			Expect(w.LinkCount()).To(Equal(8 + 2*4))
		})
	})

	It("lists every registered scene", func() {
		for _, name := range scene.Names() {
			_, ok := scene.Lookup(name)
			Expect(ok).To(BeTrue(), name)
		}
	})
})
