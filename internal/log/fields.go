// Package log defines the shared field and component names used in
// structured log output, so the same concept is always logged under the
// same key across binaries.
package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"

	FieldMovementID = "id"
	FieldDate       = "date"
	FieldType       = "type"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldMonth      = "month"
	FieldYear       = "year"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentRates   = "rates"
	ComponentCLI     = "cli"
)
