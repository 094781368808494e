// Package viz provides a terminal view of a running MD simulation.
//
// The view is a Bubble Tea program: atoms are drawn on a Braille canvas
// as an orthographic projection of the cell, next to plots of the total
// energy and temperature.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial configuration
//	+/-   - More or fewer MD steps per frame
//	X/Y   - Rotate the view
//	T     - Cycle color themes
//	Q     - Quit
package viz
