package boundary

// errorResponse is the JSON body returned on every non-2xx response,
// grounded in the {code, message} envelope the retrieval pack's Fiber
// backend uses for its controller error paths.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errResp(code int, message string) errorResponse {
	return errorResponse{Code: code, Message: message}
}
