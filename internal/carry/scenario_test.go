package carry_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/carrysim/internal/camera"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/physics"
)

const fixedDt = 0.02

var _ = Describe("Controller in a physics world", func() {
	var (
		world *physics.World
		cam   *camera.Camera
		ctrl  *carry.Controller
		crate dynamo.EntityID
	)

	tick := func(n int) {
		for i := 0; i < n; i++ {
			ctrl.FixedUpdate(fixedDt)
			world.Step(fixedDt)
		}
	}
	frame := func(f input.Frame) {
		f.Dt = fixedDt
		ctrl.Update(f)
	}
	body := func(id dynamo.EntityID) *physics.Body {
		e, ok := world.Get(id)
		Expect(ok).To(BeTrue())
		return e.RigidBody()
	}

	BeforeEach(func() {
		var err error
		world, err = physics.NewWorld(physics.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		crate = world.Spawn(physics.ObjectSpec{
			Name: "crate", Tag: carry.MoveableTag,
			Position: mgl64.Vec3{0, 1.6, -2}, Radius: 0.25, Mass: 2,
		})
		cam = camera.New(mgl64.Vec3{0, 1.6, 0}, 0, 0)

		ctrl, err = carry.New(cam, world, carry.DefaultParams(), nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when idle", func() {
		It("picks up a Moveable body in range", func() {
			frame(input.Frame{Pressed: []input.Key{input.KeyE}})

			Expect(ctrl.Mode()).To(Equal(carry.Held))
			Expect(ctrl.HeldEntity()).To(Equal(crate))
			b := body(crate)
			Expect(b.UseGravity()).To(BeFalse())
			Expect(b.LinearDamping()).To(Equal(10.0))
			Expect(b.AngularDamping()).To(Equal(5.0))
			Expect(b.Interpolation()).To(Equal(dynamo.Interpolate))
		})

		It("ignores bodies beyond the pickup distance", func() {
			e, _ := world.Get(crate)
			e.SetPosition(mgl64.Vec3{0, 1.6, -4})

			frame(input.Frame{Pressed: []input.Key{input.KeyE}})
			Expect(ctrl.Mode()).To(Equal(carry.Idle))
		})

		It("ignores static colliders tagged Moveable", func() {
			Expect(world.Remove(crate)).To(BeTrue())
			world.Spawn(physics.ObjectSpec{Tag: carry.MoveableTag, Position: mgl64.Vec3{0, 1.6, -2}, Radius: 0.25})

			frame(input.Frame{Pressed: []input.Key{input.KeyE}})
			Expect(ctrl.Holding()).To(BeFalse())
		})
	})

	Context("while holding", func() {
		BeforeEach(func() {
			frame(input.Frame{Pressed: []input.Key{input.KeyE}})
			Expect(ctrl.Holding()).To(BeTrue())
		})

		It("settles the body at the hold target", func() {
			tick(200)

			e, _ := world.Get(crate)
			Expect(e.Position().Sub(ctrl.HoldTarget()).Len()).To(BeNumerically("<", 1e-3))
		})

		It("follows the camera as it turns", func() {
			tick(100)
			cam.Look(90, 0)
			frame(input.Frame{})
			tick(200)

			e, _ := world.Get(crate)
			Expect(e.Position()[0]).To(BeNumerically("<", -1.5))
			Expect(e.Rotation().ApproxEqualThreshold(cam.Orientation(), 1e-9)).To(BeTrue())
		})

		It("keeps the hold distance clamped under heavy scrolling", func() {
			for _, s := range []float64{10, -30, 2.5, 100} {
				frame(input.Frame{Scroll: s})
				Expect(ctrl.HoldDistance()).To(And(
					BeNumerically(">=", 1.0),
					BeNumerically("<=", 5.0),
				))
			}
		})

		It("throws the body forward with gravity restored", func() {
			tick(50)
			frame(input.Frame{PrimaryPressed: true})

			Expect(ctrl.Mode()).To(Equal(carry.Idle))
			b := body(crate)
			Expect(b.UseGravity()).To(BeTrue())
			Expect(b.LinearDamping()).To(Equal(0.0))
			Expect(b.AngularDamping()).To(Equal(0.05))
			Expect(b.LinearVelocity()[2]).To(BeNumerically("<", -9))

			e, _ := world.Get(crate)
			z0 := e.Position()[2]
			tick(10)
			Expect(e.Position()[2]).To(BeNumerically("<", z0-1))
		})

		It("drops the body in place on a second pickup press", func() {
			tick(50)
			frame(input.Frame{Pressed: []input.Key{input.KeyE}})

			Expect(ctrl.Holding()).To(BeFalse())
			Expect(body(crate).LinearVelocity().Len()).To(BeNumerically("<", 1))
		})

		It("returns to idle when the world destroys the body", func() {
			frame(input.Frame{Pressed: []input.Key{input.KeyR}})
			Expect(ctrl.Mode()).To(Equal(carry.Rotating))

			world.Remove(crate)
			_, ok := ctrl.FixedUpdate(fixedDt)

			Expect(ok).To(BeFalse())
			Expect(ctrl.Mode()).To(Equal(carry.Idle))
			Expect(ctrl.Rotating()).To(BeFalse())
		})
	})
})
