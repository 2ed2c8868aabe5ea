package pinning

const (
	ClassPinned             = "pinned"
	ClassPinnedLeft         = "pinned-left"
	ClassPinnedLeftLast     = "pinned-left-last"
	ClassPinnedRight        = "pinned-right"
	ClassPinnedRightFirst   = "pinned-right-first"
	ClassPinnedRow          = "pinned-row"
	ClassPinnedTop          = "pinned-top"
	ClassPinnedBottom       = "pinned-bottom"
	ClassPinnedIntersection = "pinned-cell-intersection"
	ClassSelected           = "selected"
	ClassWithShadow         = "with-shadow"
	ClassAnimatePinning     = "animate-pinning"
)

// ColumnClasses returns the semantic class names for a column.
func ColumnClasses(col ColumnInfo, opts StyleOptions) []string {
	settings := opts.settings()
	classes := []string{}
	if settings.AnimatePinning {
		classes = append(classes, ClassAnimatePinning)
	}
	switch col.Position {
	case ColumnLeft:
		classes = append(classes, ClassPinned, ClassPinnedLeft)
		if col.IsLastLeft {
			classes = append(classes, ClassPinnedLeftLast)
			if settings.PinnedColumnShadow {
				classes = append(classes, ClassWithShadow)
			}
		}
	case ColumnRight:
		classes = append(classes, ClassPinned, ClassPinnedRight)
		if col.IsFirstRight {
			classes = append(classes, ClassPinnedRightFirst)
			if settings.PinnedColumnShadow {
				classes = append(classes, ClassWithShadow)
			}
		}
	}
	return classes
}

// RowClasses returns the semantic class names for a row.
func RowClasses(row RowInfo, selected bool) []string {
	classes := []string{}
	switch row.Position {
	case RowTop:
		classes = append(classes, ClassPinnedRow, ClassPinnedTop)
	case RowBottom:
		classes = append(classes, ClassPinnedRow, ClassPinnedBottom)
	}
	if selected {
		classes = append(classes, ClassSelected)
	}
	return classes
}

// CellClasses returns the semantic class names for the cell at col and row.
func CellClasses(col ColumnInfo, row RowInfo, selected bool) []string {
	classes := []string{}
	switch col.Position {
	case ColumnLeft:
		classes = append(classes, ClassPinnedLeft)
		if col.IsLastLeft {
			classes = append(classes, ClassPinnedLeftLast)
		}
	case ColumnRight:
		classes = append(classes, ClassPinnedRight)
		if col.IsFirstRight {
			classes = append(classes, ClassPinnedRightFirst)
		}
	}
	if row.Position.Pinned() {
		classes = append(classes, ClassPinnedRow)
	}
	if col.Position.Pinned() && row.Position.Pinned() {
		classes = append(classes, ClassPinnedIntersection)
	}
	if selected {
		classes = append(classes, ClassSelected)
	}
	return classes
}
