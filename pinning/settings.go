package pinning

// Default values applied when settings are absent or zero.
const (
	DefaultMaxPinnedColumns     = 3
	DefaultMaxPinnedRows        = 5
	DefaultMinScrollableColumns = 2
	DefaultAnimationDuration    = 200

	DefaultColumnZIndex       = 10
	DefaultRowZIndex          = 20
	DefaultHeaderZIndex       = 40
	DefaultIntersectionZIndex = 30

	// PinnedHeaderBoost lifts headers of pinned columns above regular headers
	// and pinned body cells.
	PinnedHeaderBoost = 10

	DefaultPinnedRowBackground = "hsl(var(--muted))"
)

// ZIndexLayers holds the stacking base for each pinned surface.
type ZIndexLayers struct {
	Column       int `json:"column"`
	Row          int `json:"row"`
	Header       int `json:"header"`
	Intersection int `json:"intersection"`
}

// Settings configures pinning behavior for one table.
type Settings struct {
	EnableColumnPinning  bool         `json:"enableColumnPinning"`
	EnableRowPinning     bool         `json:"enableRowPinning"`
	MaxPinnedColumns     int          `json:"maxPinnedColumns"`
	MaxPinnedRows        int          `json:"maxPinnedRows"`
	MinScrollableColumns int          `json:"minScrollableColumns"`
	PinnedColumnShadow   bool         `json:"pinnedColumnShadow"`
	AnimatePinning       bool         `json:"animatePinning"`
	AnimationDuration    int          `json:"animationDuration"`
	PinnedZIndex         ZIndexLayers `json:"pinnedZIndex"`
	PinnedRowBackground  string       `json:"pinnedRowBackground"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		EnableColumnPinning:  true,
		EnableRowPinning:     true,
		MaxPinnedColumns:     DefaultMaxPinnedColumns,
		MaxPinnedRows:        DefaultMaxPinnedRows,
		MinScrollableColumns: DefaultMinScrollableColumns,
		PinnedColumnShadow:   true,
		AnimatePinning:       true,
		AnimationDuration:    DefaultAnimationDuration,
		PinnedZIndex: ZIndexLayers{
			Column:       DefaultColumnZIndex,
			Row:          DefaultRowZIndex,
			Header:       DefaultHeaderZIndex,
			Intersection: DefaultIntersectionZIndex,
		},
		PinnedRowBackground: DefaultPinnedRowBackground,
	}
}

// normalized fills unset numeric fields with defaults. A cap of zero is kept
// and blocks pinning on that axis; only negative caps count as unset.
// Booleans are taken as given since false is a meaningful value.
func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.MaxPinnedColumns < 0 {
		s.MaxPinnedColumns = def.MaxPinnedColumns
	}
	if s.MaxPinnedRows < 0 {
		s.MaxPinnedRows = def.MaxPinnedRows
	}
	if s.MinScrollableColumns < 0 {
		s.MinScrollableColumns = 0
	}
	if s.AnimationDuration <= 0 {
		s.AnimationDuration = def.AnimationDuration
	}
	if s.PinnedZIndex.Column == 0 {
		s.PinnedZIndex.Column = def.PinnedZIndex.Column
	}
	if s.PinnedZIndex.Row == 0 {
		s.PinnedZIndex.Row = def.PinnedZIndex.Row
	}
	if s.PinnedZIndex.Header == 0 {
		s.PinnedZIndex.Header = def.PinnedZIndex.Header
	}
	if s.PinnedZIndex.Intersection == 0 {
		s.PinnedZIndex.Intersection = def.PinnedZIndex.Intersection
	}
	if s.PinnedRowBackground == "" {
		s.PinnedRowBackground = def.PinnedRowBackground
	}
	return s
}

// SettingsPatch represents a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	EnableColumnPinning  *bool
	EnableRowPinning     *bool
	MaxPinnedColumns     *int
	MaxPinnedRows        *int
	MinScrollableColumns *int
	PinnedColumnShadow   *bool
	AnimatePinning       *bool
	AnimationDuration    *int
	PinnedZIndex         *ZIndexLayers
	PinnedRowBackground  *string
}

// Apply merges the patch onto base and returns the result.
func (p SettingsPatch) Apply(base Settings) Settings {
	if p.EnableColumnPinning != nil {
		base.EnableColumnPinning = *p.EnableColumnPinning
	}
	if p.EnableRowPinning != nil {
		base.EnableRowPinning = *p.EnableRowPinning
	}
	if p.MaxPinnedColumns != nil {
		base.MaxPinnedColumns = *p.MaxPinnedColumns
	}
	if p.MaxPinnedRows != nil {
		base.MaxPinnedRows = *p.MaxPinnedRows
	}
	if p.MinScrollableColumns != nil {
		base.MinScrollableColumns = *p.MinScrollableColumns
	}
	if p.PinnedColumnShadow != nil {
		base.PinnedColumnShadow = *p.PinnedColumnShadow
	}
	if p.AnimatePinning != nil {
		base.AnimatePinning = *p.AnimatePinning
	}
	if p.AnimationDuration != nil {
		base.AnimationDuration = *p.AnimationDuration
	}
	if p.PinnedZIndex != nil {
		base.PinnedZIndex = *p.PinnedZIndex
	}
	if p.PinnedRowBackground != nil {
		base.PinnedRowBackground = *p.PinnedRowBackground
	}
	return base.normalized()
}
