package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldDate       = "date"
	FieldCategory   = "category"
	FieldItemName   = "item_name"
	FieldPriceCents = "price_cents"
	FieldRecordRef  = "record_ref"
)

// Standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStats   = "stats"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackup  = "backup"
	ComponentCache   = "cache"
)

// Standard operation names
const (
	OpUpsert   = "upsert"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpCompute  = "compute"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
