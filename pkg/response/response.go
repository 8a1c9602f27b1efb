package response

import "github.com/AMFarhan21/fres"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Error(code, message string, details any) ErrorBody {
	return ErrorBody{Code: code, Message: message, Details: details}
}

// Message is the body of a success that carries no resource.
func Message(message string) fres.SuccessResponse {
	return fres.SuccessResponse{Message: message}
}
