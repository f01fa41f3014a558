// Package viz renders plate assignments for the terminal and for files.
//
//   - [RenderLattice]: one coloured glyph per lattice vertex
//   - [RenderProjection]: equirectangular view of any grid
//   - [SizeChart], [GrowthChart]: asciigraph line charts
//   - [WriteSizeChart]: PNG bar chart through gonum/plot
//
// Plate colours come from the palette of the current [Theme]; palettes
// wrap when a grid has more plates than colours.
package viz
