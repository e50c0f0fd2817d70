package log

// Field names shared by the request logging middleware
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
)

// Component names for the two binaries
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
