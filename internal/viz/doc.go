// Package viz renders SIR trajectories in the terminal.
//
//   - [Plot] and [PlotCurves]: static line charts of stored or collected runs
//   - [LiveModel]: a Bubble Tea program that integrates a trajectory while
//     drawing it, with the (s, i) phase portrait on a braille [Canvas]
//   - [MetricsPanel] and [StatePanel]: lipgloss summaries of a run
//
// # Key Bindings
//
//	Space - Pause/Resume integration
//	+/-   - Samples pulled per frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
