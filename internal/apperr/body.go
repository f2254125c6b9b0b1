package apperr

// payload is the wire shape of a single error.
type payload struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Body is the JSON error envelope every endpoint returns:
// {"error": {"code", "message", "field?"}}
type Body struct {
	Error payload `json:"error"`
}

func (e *Error) Body() Body {
	return Body{Error: payload{
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
	}}
}
