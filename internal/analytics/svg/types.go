package svg

// Series is one set of bars, one value per label.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// Defaults for the report charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 6
)

var defaultColors = []string{"#22c55e", "#ef4444", "#3b82f6", "#f97316", "#a855f7"}
