// Package viz is the terminal front end for live carry sessions, built on
// Bubble Tea.
//
//   - [Model]: one live session driving a sim.Loop from keyboard and mouse
//   - [Canvas]: braille dot canvas the scene is drawn on
//   - [RenderView] and [RenderTopDown]: first-person and overhead renderers
//
// # Key Bindings
//
//	E        - Pick up / drop (the configured pickup key)
//	R        - Toggle rotate mode (the configured rotate key)
//	Click    - Throw (space or F also throw)
//	Wheel    - Push / pull the held object (+ and - also work)
//	WASD     - Walk
//	Arrows   - Look
//	V        - Switch first-person / top-down view
//	T        - Cycle color themes
//	P        - Pause
//	Ctrl+R   - Reset the scene
//	?        - Show help
package viz
