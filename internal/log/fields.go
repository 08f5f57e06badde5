package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldSheetID     = "spreadsheet_id"
	FieldRange       = "range"
	FieldEntity      = "entity"
	FieldRecordID    = "record_id"
	FieldRowIndex    = "row_index"
	FieldTokenExpiry = "token_expiry"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSheets   = "sheets"
	ComponentToken    = "token"
	ComponentRegistry = "registry"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
	ComponentTrace    = "trace"
)

// Operations defines standard operation names
const (
	OpRead     = "read"
	OpAppend   = "append"
	OpUpdate   = "update"
	OpClear    = "clear"
	OpAuth     = "authenticate"
	OpList     = "list"
	OpSwitch   = "switch"
	OpRemove   = "remove"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
