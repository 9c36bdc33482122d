// Package viz provides the terminal views of the winding transform.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view with the winding trace, spectrum and signal panes
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [RenderHelix]: the trace lifted into 3D with time along the axis
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Animate the winding / cancel
//	Tab     - Cycle oscillators
//	↑↓ ←→   - Frequency and phase of the selected oscillator
//	+ - [ ] - Lap rate
//	N X     - Add / remove an oscillator
//	V       - Half-lap grid on the signal pane
//	M , .   - Time marker
//	P       - Play the composite tone
//	3       - Helix view
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
