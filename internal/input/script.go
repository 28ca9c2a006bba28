package input

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Event is one timed input action in a scripted scenario.
type Event struct {
	At      float64   `yaml:"at"`
	Press   []string  `yaml:"press,omitempty"`
	Click   bool      `yaml:"click,omitempty"`
	Scroll  float64   `yaml:"scroll,omitempty"`
	Pointer []float64 `yaml:"pointer,omitempty"`
	Look    []float64 `yaml:"look,omitempty"`

	keys    []Key
	pointer *mgl64.Vec2
	look    mgl64.Vec2
}

// Script replays timed events as frames. Events fire on the first frame
// whose window [t, t+dt) contains their timestamp.
type Script struct {
	events  []Event
	next    int
	pointer mgl64.Vec2
}

func NewScript(events []Event) (*Script, error) {
	compiled := make([]Event, len(events))
	copy(compiled, events)

	for i := range compiled {
		ev := &compiled[i]
		if ev.At < 0 {
			return nil, fmt.Errorf("event %d: negative time %.3f", i, ev.At)
		}
		for _, name := range ev.Press {
			k, err := ParseKey(name)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			ev.keys = append(ev.keys, k)
		}
		if len(ev.Pointer) > 0 {
			if len(ev.Pointer) != 2 {
				return nil, fmt.Errorf("event %d: pointer needs 2 values, got %d", i, len(ev.Pointer))
			}
			p := mgl64.Vec2{ev.Pointer[0], ev.Pointer[1]}
			ev.pointer = &p
		}
		if len(ev.Look) > 0 {
			if len(ev.Look) != 2 {
				return nil, fmt.Errorf("event %d: look needs 2 values, got %d", i, len(ev.Look))
			}
			ev.look = mgl64.Vec2{ev.Look[0], ev.Look[1]}
		}
	}

	sort.SliceStable(compiled, func(i, j int) bool { return compiled[i].At < compiled[j].At })
	return &Script{events: compiled}, nil
}

func (s *Script) Next(t, dt float64) Frame {
	f := Frame{Time: t, Dt: dt}
	end := t + dt
	for s.next < len(s.events) && s.events[s.next].At < end {
		ev := s.events[s.next]
		s.next++

		f.Pressed = append(f.Pressed, ev.keys...)
		f.PrimaryPressed = f.PrimaryPressed || ev.Click
		f.Scroll += ev.Scroll
		f.Look = f.Look.Add(ev.look)
		if ev.pointer != nil {
			s.pointer = *ev.pointer
		}
	}
	f.Pointer = s.pointer
	return f
}

// Done reports whether every event has been emitted.
func (s *Script) Done() bool {
	return s.next >= len(s.events)
}

func (s *Script) Reset() {
	s.next = 0
	s.pointer = mgl64.Vec2{}
}
