// Package viz renders numerical results in the terminal.
//
//   - [PlotSeries], [PlotFunction]: line charts drawn with asciigraph
//   - [Table]: lipgloss tables for result listings
//   - [Canvas]: Braille-based pixel canvas for function curves
//   - [Explorer]: Bubble Tea model stepping through the brackets of a 1D
//     minimum search
//
// # Key Bindings
//
//	←/h  previous iteration
//	→/l  next iteration
//	g/G  first/last iteration
//	q    quit
package viz
