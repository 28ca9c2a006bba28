package sim_test

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carrysim/internal/camera"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/physics"
	"github.com/san-kum/carrysim/internal/sim"
)

var _ = Describe("Loop", func() {
	var (
		loop  *sim.Loop
		world *physics.World
		crate dynamo.EntityID
		cfg   sim.Config
	)

	frame := func(f input.Frame) []sim.Sample {
		f.Dt = cfg.FixedDt
		return loop.Frame(f, cfg)
	}

	BeforeEach(func() {
		var err error
		world, err = physics.NewWorld(physics.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		crate = world.Spawn(physics.ObjectSpec{
			Name: "crate", Tag: carry.MoveableTag,
			Position: mgl64.Vec3{0, 1.6, -2}, Radius: 0.25, Mass: 1,
		})
		world.Spawn(physics.ObjectSpec{Name: "pillar", Position: mgl64.Vec3{3, 1, -3}, Radius: 0.5})

		cam := camera.New(mgl64.Vec3{0, 1.6, 0}, 0, 0)
		ctrl, err := carry.New(cam, world, carry.DefaultParams(), nil)
		Expect(err).NotTo(HaveOccurred())

		loop = sim.New(world, ctrl, cam, nil)
		cfg = sim.DefaultConfig()
	})

	Describe("rotating a held body", func() {
		BeforeEach(func() {
			frame(input.Frame{Pressed: []input.Key{input.KeyE}})
			frame(input.Frame{Pressed: []input.Key{input.KeyR}, Pointer: mgl64.Vec2{100, 100}})
		})

		It("enters rotating mode", func() {
			samples := frame(input.Frame{Pointer: mgl64.Vec2{100, 100}})
			Expect(samples).To(HaveLen(1))
			Expect(samples[0].Mode).To(Equal(carry.Rotating))
		})

		It("yaws about world up for horizontal pointer motion", func() {
			frame(input.Frame{Pointer: mgl64.Vec2{110, 100}})

			want := mgl64.QuatRotate(mgl64.DegToRad(-20), dynamo.WorldUp)
			got := loop.Controller().RotationOffset()
			Expect(got.ApproxEqualThreshold(want, 1e-9)).To(BeTrue())

			e, _ := world.Get(crate)
			Expect(e.Rotation().ApproxEqualThreshold(want, 1e-9)).To(BeTrue())
		})

		It("keeps the offset when rotation is toggled off", func() {
			frame(input.Frame{Pointer: mgl64.Vec2{100, 90}})
			before := loop.Controller().RotationOffset()

			samples := frame(input.Frame{Pressed: []input.Key{input.KeyR}, Pointer: mgl64.Vec2{300, 300}})
			Expect(samples[0].Mode).To(Equal(carry.Held))
			frame(input.Frame{Pointer: mgl64.Vec2{0, 0}})

			Expect(loop.Controller().RotationOffset()).To(Equal(before))
		})

		It("ignores scroll on the frame that throws", func() {
			d := loop.Controller().HoldDistance()
			samples := frame(input.Frame{PrimaryPressed: true, Scroll: 3})

			Expect(samples[0].Holding()).To(BeFalse())
			Expect(samples[0].HoldDistance).To(Equal(d))
		})
	})

	It("reports samples from a scripted run", func() {
		src, err := input.NewScript([]input.Event{
			{At: 0, Press: []string{"E"}},
			{At: 0.5, Scroll: 2},
			{At: 1, Look: []float64{45, 0}},
		})
		Expect(err).NotTo(HaveOccurred())

		cfg.Duration = 2
		result, err := loop.Run(context.Background(), src, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())
		Expect(result.Samples).To(HaveEach(HaveField("Held", crate)))

		last := result.Samples[len(result.Samples)-1]
		Expect(last.HoldDistance).To(BeNumerically("~", 4, 1e-9))
		Expect(loop.Camera().Yaw()).To(Equal(45.0))
	})
})
