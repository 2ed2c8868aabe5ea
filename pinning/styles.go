package pinning

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultHeaderHeight = 40
	DefaultRowHeight    = 40

	DefaultBackground = "hsl(var(--background))"
	DefaultAccent     = "hsl(var(--accent))"

	shadowLeftLast   = "2px 0 5px -2px rgba(0,0,0,0.1)"
	shadowRightFirst = "-2px 0 5px -2px rgba(0,0,0,0.1)"
	shadowTop        = "0 2px 5px -2px rgba(0,0,0,0.1)"
	shadowBottom     = "0 -2px 5px -2px rgba(0,0,0,0.1)"
)

// Style is the positioning descriptor applied to a pinned (or unpinned) cell.
// Nil edges are not emitted.
type Style struct {
	Position        string
	Top             *float64
	Right           *float64
	Bottom          *float64
	Left            *float64
	ZIndex          int
	BackgroundColor string
	BoxShadow       string
	Transition      string
}

// CSS renders the style as an inline declaration list.
func (s Style) CSS() string {
	parts := make([]string, 0, 9)
	add := func(prop, value string) {
		if value != "" {
			parts = append(parts, prop+": "+value)
		}
	}
	add("position", s.Position)
	add("top", px(s.Top))
	add("right", px(s.Right))
	add("bottom", px(s.Bottom))
	add("left", px(s.Left))
	parts = append(parts, "z-index: "+strconv.Itoa(s.ZIndex))
	add("background-color", s.BackgroundColor)
	add("box-shadow", s.BoxShadow)
	add("transition", s.Transition)
	return strings.Join(parts, "; ")
}

// Palette holds the color tokens used for pinned surfaces.
type Palette struct {
	Background string
	Accent     string
}

// StyleOptions parameterizes the calculator. Zero values fall back to the
// documented defaults.
type StyleOptions struct {
	Settings     *Settings
	BaseZIndex   int
	HeaderHeight float64
	RowHeight    float64
	Palette      Palette
}

func (o StyleOptions) settings() Settings {
	if o.Settings == nil {
		return DefaultSettings()
	}
	return o.Settings.normalized()
}

func (o StyleOptions) headerHeight() float64 {
	if o.HeaderHeight > 0 {
		return o.HeaderHeight
	}
	return DefaultHeaderHeight
}

func (o StyleOptions) rowHeight() float64 {
	if o.RowHeight > 0 {
		return o.RowHeight
	}
	return DefaultRowHeight
}

func (o StyleOptions) background() string {
	if o.Palette.Background != "" {
		return o.Palette.Background
	}
	return DefaultBackground
}

func (o StyleOptions) accent() string {
	if o.Palette.Accent != "" {
		return o.Palette.Accent
	}
	return DefaultAccent
}

func transition(settings Settings) string {
	if !settings.AnimatePinning {
		return ""
	}
	return fmt.Sprintf("all %dms ease-in-out", settings.AnimationDuration)
}

func neutralStyle(settings Settings) Style {
	return Style{Position: "relative", ZIndex: 0, Transition: transition(settings)}
}

// ColumnStyles computes the sticky positioning of a body cell in col.
func ColumnStyles(col ColumnInfo, opts StyleOptions) Style {
	settings := opts.settings()
	if !col.Position.Pinned() {
		return neutralStyle(settings)
	}
	style := Style{
		Position:        "sticky",
		ZIndex:          settings.PinnedZIndex.Column + opts.BaseZIndex,
		BackgroundColor: opts.background(),
		Transition:      transition(settings),
	}
	offset := col.Offset
	if col.Position == ColumnLeft {
		style.Left = &offset
		if settings.PinnedColumnShadow && col.IsLastLeft {
			style.BoxShadow = shadowLeftLast
		}
		return style
	}
	style.Right = &offset
	if settings.PinnedColumnShadow && col.IsFirstRight {
		style.BoxShadow = shadowRightFirst
	}
	return style
}

// RowStyles computes the sticky positioning of a pinned row. pinnedIndex is
// the row's position within its side, starting at zero.
func RowStyles(row RowInfo, pinnedIndex int, opts StyleOptions) Style {
	settings := opts.settings()
	if !row.Position.Pinned() {
		return neutralStyle(settings)
	}
	if pinnedIndex < 0 {
		pinnedIndex = 0
	}
	style := Style{
		Position:        "sticky",
		ZIndex:          settings.PinnedZIndex.Row + opts.BaseZIndex,
		BackgroundColor: settings.PinnedRowBackground,
		Transition:      transition(settings),
	}
	stack := float64(pinnedIndex) * opts.rowHeight()
	if row.Position == RowTop {
		top := opts.headerHeight() + stack
		style.Top = &top
		if settings.PinnedColumnShadow {
			style.BoxShadow = shadowTop
		}
		return style
	}
	style.Bottom = &stack
	if settings.PinnedColumnShadow {
		style.BoxShadow = shadowBottom
	}
	return style
}

// IntersectionStyles computes the style of a cell at a pinned column and a
// pinned row. When both axes are pinned the cell always stacks above either
// axis alone. With a single pinned axis the style with the higher z-index
// wins and the column wins ties.
func IntersectionStyles(col ColumnInfo, row RowInfo, opts StyleOptions) Style {
	colStyle := ColumnStyles(col, opts)
	rowStyle := RowStyles(row, row.PinnedIndex, opts)
	if !col.Position.Pinned() || !row.Position.Pinned() {
		if rowStyle.ZIndex > colStyle.ZIndex {
			return rowStyle
		}
		return colStyle
	}

	settings := opts.settings()
	z := settings.PinnedZIndex.Intersection + opts.BaseZIndex
	if floor := max(colStyle.ZIndex, rowStyle.ZIndex); z <= floor {
		z = floor + 1
	}
	shadows := make([]string, 0, 2)
	for _, s := range []string{colStyle.BoxShadow, rowStyle.BoxShadow} {
		if s != "" {
			shadows = append(shadows, s)
		}
	}
	return Style{
		Position:        "sticky",
		Top:             rowStyle.Top,
		Bottom:          rowStyle.Bottom,
		Left:            colStyle.Left,
		Right:           colStyle.Right,
		ZIndex:          z,
		BackgroundColor: opts.accent(),
		BoxShadow:       strings.Join(shadows, ", "),
		Transition:      colStyle.Transition,
	}
}

// HeaderStyles computes the style of the header cell for col. Headers are
// always sticky to the top; headers of pinned columns are lifted above both
// plain headers and pinned body cells.
func HeaderStyles(col ColumnInfo, opts StyleOptions) Style {
	settings := opts.settings()
	top := 0.0
	style := Style{
		Position:        "sticky",
		Top:             &top,
		ZIndex:          settings.PinnedZIndex.Header + opts.BaseZIndex,
		BackgroundColor: opts.background(),
		Transition:      transition(settings),
	}
	if !col.Position.Pinned() {
		return style
	}
	style.ZIndex += PinnedHeaderBoost
	offset := col.Offset
	if col.Position == ColumnLeft {
		style.Left = &offset
		if settings.PinnedColumnShadow && col.IsLastLeft {
			style.BoxShadow = shadowLeftLast
		}
	} else {
		style.Right = &offset
		if settings.PinnedColumnShadow && col.IsFirstRight {
			style.BoxShadow = shadowRightFirst
		}
	}
	return style
}

func px(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "px"
}
