package notify

// DefaultMessages returns the built in English templates for every message
// key emitted by the table controllers.
func DefaultMessages() map[string]string {
	return map[string]string{
		"table.pinning.columnPinned":          "Column {column} pinned {position}",
		"table.pinning.columnUnpinned":        "Column {column} unpinned",
		"table.pinning.maxColumnsReached":     "You can pin at most {max} columns per side",
		"table.pinning.minScrollableRequired": "At least {min} columns must remain scrollable",
		"table.pinning.rowPinned":             "Row pinned to the {position}",
		"table.pinning.rowUnpinned":           "Row unpinned",
		"table.pinning.maxRowsReached":        "You can pin at most {max} rows per side",
		"table.pinning.allPinsCleared":        "All pins cleared",
		"table.pinning.columnPinsCleared":     "Column pins cleared ({position})",
		"table.pinning.rowPinsCleared":        "Row pins cleared ({position})",
		"table.pinning.settingsUpdated":       "Pinning settings updated",
		"table.pinning.settingsReset":         "Pinning settings reset",
		"table.pinning.preferencesSaved":      "Pinning layout saved",
		"table.pinning.preferencesCleared":    "Saved pinning layout removed",
		"table.pinning.preferencesRestored":   "Restored {columns} pinned columns and {rows} pinned rows",
		"table.pinning.noSavedPreferences":    "No saved pinning layout",
		"table.pinning.pinningDisabled":       "Pinning is disabled for {target}",
		"table.pinning.error":                 "Pinning failed",

		"table.view.updated":   "View updated ({field})",
		"table.view.reset":     "View reset to the table default",
		"table.view.saveError": "Could not save view preferences",

		"table.records.loadError":           "Could not load records",
		"table.records.created":             "Record created",
		"table.records.createError":         "Could not create record",
		"table.records.updated":             "Record updated",
		"table.records.updateError":         "Could not update record",
		"table.records.deleted":             "Record deleted",
		"table.records.deleteError":         "Could not delete record",
		"table.records.batchDeleted":        "{count} records deleted",
		"table.records.batchDeleteError":    "Could not delete the selected records",
		"table.records.batchDuplicated":     "{count} records duplicated",
		"table.records.batchDuplicateError": "Could not duplicate the selected records",
		"table.records.noSelection":         "No records selected",
		"table.records.exported":            "Exported {count} records to {filename}",
		"table.records.exportError":         "Export failed",
		"table.records.exportComingSoon":    "{format} export is coming soon",
		"table.records.invalidFilter":       "Invalid filter expression",

		"tables.loadError":          "Could not load tables",
		"tables.created":            "Table {name} created",
		"tables.createError":        "Could not create table",
		"tables.updated":            "Table {name} updated",
		"tables.updateError":        "Could not update table",
		"tables.deleted":            "Table deleted",
		"tables.deleteError":        "Could not delete table",
		"tables.batchDeleted":       "{count} tables deleted",
		"tables.batchDeletePartial": "{count} tables deleted, {failed} failed",
		"tables.batchDeleteError":   "Could not delete the selected tables",
		"tables.renamed":            "Table renamed to {name}",
		"tables.property.added":     "Property {property} added",
		"tables.property.updated":   "Property {property} updated",
		"tables.property.removed":   "Property {property} removed",
		"tables.property.error":     "Property change failed",
	}
}
