// Package response builds the envelope every endpoint answers with:
//
//	{"success": true,  "data": {...}, "error": null}
//	{"success": false, "data": null,  "error": "Post not found"}
package response

// Envelope is the uniform response body.
//
// Data and Error are never omitted: exactly one of them is null.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

// Success wraps data in a successful envelope.
func Success(data any) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// Failure wraps message in a failed envelope with null data.
func Failure(message string) Envelope {
	return Envelope{
		Success: false,
		Error:   &message,
	}
}
