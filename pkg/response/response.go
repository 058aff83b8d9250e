package response

// Response is the envelope used for error replies and the wizard, catalog and i18n endpoints
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // mirrors the HTTP status
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{Status: "success", StatusCode: statusCode, Data: data}
}

// Error wraps a user-facing message in an error envelope
func Error(statusCode int, err string) Response {
	return Response{Status: "error", StatusCode: statusCode, Error: err}
}

// ErrorWithData is Error with machine-readable detail the client can act on
func ErrorWithData(statusCode int, err string, data interface{}) Response {
	resp := Error(statusCode, err)
	resp.Data = data
	return resp
}
