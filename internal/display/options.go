// Package display holds the geometry options shared between the decoding
// backends and the terminal renderers, and the scale-to-fit computation
// that maps a source image onto the available terminal area.
package display

// Options describes the display area and the fitting policy for one
// viewing operation. Width and Height are a pixel budget, typically the
// terminal size in cells multiplied by the renderer's per-cell pixel
// footprint. Callers fill it once per invocation; it is never mutated by
// the fit computation.
type Options struct {
	Width  int
	Height int

	// Upscale allows images smaller than the display area to grow.
	// UpscaleInteger restricts that growth to whole-number factors so
	// pixel-art is duplicated evenly.
	Upscale        bool
	UpscaleInteger bool

	// FillWidth/FillHeight allow the image to overflow the named axis
	// as long as the other one is filled edge to edge.
	FillWidth  bool
	FillHeight bool

	// WidthStretch compensates for terminal cells that are not square:
	// the horizontal pixel size of a cell divided by what a square cell
	// would have. 1.0 means no correction.
	WidthStretch float64

	// CellXPx/CellYPx are the pixel footprint of one terminal cell in
	// the active rendering mode. Block modes use 1 or 2; graphics
	// protocols report the real cell size (e.g. 8x16).
	CellXPx int
	CellYPx int

	// Viewer behavior, passed through to the renderers.
	Antialias     bool
	Center        bool
	ShowTitle     bool
	TitleTemplate string

	// Background is the color transparent frames are flattened onto,
	// as "#rrggbb". Empty keeps the alpha channel.
	Background string
}
