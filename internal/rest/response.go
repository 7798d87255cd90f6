package rest

// ResponseError is the bare error envelope for 4xx/5xx replies.
type ResponseError struct {
	Message string `json:"message"`
}
