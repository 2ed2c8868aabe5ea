package pinning

// Message keys emitted by the controller. Text is resolved by the host's
// translator; parameters are listed next to each key.
const (
	MsgColumnPinned          = "table.pinning.columnPinned"          // column, position
	MsgColumnUnpinned        = "table.pinning.columnUnpinned"        // column
	MsgMaxColumnsReached     = "table.pinning.maxColumnsReached"     // max
	MsgMinScrollableRequired = "table.pinning.minScrollableRequired" // min
	MsgRowPinned             = "table.pinning.rowPinned"             // row, position
	MsgRowUnpinned           = "table.pinning.rowUnpinned"           // row
	MsgMaxRowsReached        = "table.pinning.maxRowsReached"        // max
	MsgAllPinsCleared        = "table.pinning.allPinsCleared"
	MsgColumnPinsCleared     = "table.pinning.columnPinsCleared" // position
	MsgRowPinsCleared        = "table.pinning.rowPinsCleared"    // position
	MsgSettingsUpdated       = "table.pinning.settingsUpdated"
	MsgSettingsReset         = "table.pinning.settingsReset"
	MsgPreferencesSaved      = "table.pinning.preferencesSaved"
	MsgPreferencesCleared    = "table.pinning.preferencesCleared"
	MsgPreferencesRestored   = "table.pinning.preferencesRestored" // columns, rows
	MsgNoSavedPreferences    = "table.pinning.noSavedPreferences"
	MsgPinningDisabled       = "table.pinning.pinningDisabled" // target
	MsgPinningError          = "table.pinning.error"
)
