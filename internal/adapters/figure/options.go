package figure

// Default figure geometry: 12 x 5 inches at 100 dpi.
const (
	defaultWidth  = 1200
	defaultHeight = 500
	defaultDPI    = 100
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the figure size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithDPI sets the rendering resolution used for font sizing.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithTitle sets an optional chart title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}
