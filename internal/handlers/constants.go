package handlers

const (
	VisitorCookieName = "visitor_id"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrInternalServerError = "Something went wrong, try again"
	ErrSessionNotFound     = "Session not found"
	ErrTooManyRequests     = "Too many requests"
)
