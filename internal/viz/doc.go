// Package viz draws verlet worlds in the terminal.
//
//   - [Canvas]: braille dot canvas, 2x4 dots per cell
//   - [RenderSnapshot]: projects a snapshot's XY plane onto a canvas
//   - [LiveModel]: Bubble Tea model that ticks a world at 60 fps
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single tick while paused
//	R     - Rebuild the scene
//	G     - Toggle gravity
//	+/-   - Relaxation iterations per link
//	Q     - Quit
package viz
