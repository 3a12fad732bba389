package types

// Category represents service categories
type Category string

const (
	CategoryTerminal Category = "terminal"
	CategorySystem   Category = "system"
)

// Service represents a service definition
type Service struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     Category    `json:"category"`
	Capabilities []string    `json:"capabilities"`
	Tools        []Tool      `json:"tools"`
	DataModels   []DataModel `json:"data_models,omitempty"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// DataModel represents a data structure
type DataModel struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// Context provides execution context for services
type Context struct {
	RequestID *string `json:"request_id,omitempty"`
	ClientID  *string `json:"client_id,omitempty"`
}

// Result represents a service execution result. Code carries a stable
// error kind (e.g. SESSION_NOT_FOUND) that callers can match on without
// parsing the message.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
	Code    *string                `json:"code,omitempty"`
}

// Success builds a successful result with the given data.
func Success(data map[string]interface{}) *Result {
	return &Result{Success: true, Data: data}
}

// Failure builds a failed result with the given message.
func Failure(msg string) *Result {
	return &Result{Success: false, Error: &msg}
}

// FailureCode builds a failed result carrying a stable error code.
func FailureCode(code, msg string) *Result {
	return &Result{Success: false, Error: &msg, Code: &code}
}
