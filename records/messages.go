package records

// Message keys emitted by the controller.
const (
	MsgLoadError           = "table.records.loadError"
	MsgCreated             = "table.records.created"
	MsgCreateError         = "table.records.createError"
	MsgUpdated             = "table.records.updated"
	MsgUpdateError         = "table.records.updateError"
	MsgDeleted             = "table.records.deleted"
	MsgDeleteError         = "table.records.deleteError"
	MsgBatchDeleted        = "table.records.batchDeleted" // count
	MsgBatchDeleteError    = "table.records.batchDeleteError"
	MsgBatchDuplicated     = "table.records.batchDuplicated" // count
	MsgBatchDuplicateError = "table.records.batchDuplicateError"
	MsgNoSelection         = "table.records.noSelection"
	MsgExported            = "table.records.exported" // count, filename
	MsgExportError         = "table.records.exportError"
	MsgExportComingSoon    = "table.records.exportComingSoon" // format
	MsgInvalidFilter       = "table.records.invalidFilter"
)
