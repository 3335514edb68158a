// Package dto provides request and response types for the Shelfwise API.
// These types are used by huma to generate OpenAPI documentation and decode input.
package dto

// Envelope is the success body shared by every operation.
type Envelope[T any] struct {
	Success bool   `json:"success" doc:"Always true for successful responses"`
	Message string `json:"message" doc:"Human-readable outcome"`
	Data    T      `json:"data" doc:"Operation payload; null when there is nothing to return"`
}

// Output wraps an envelope for huma.
type Output[T any] struct {
	Body Envelope[T]
}

// OK builds a success output.
func OK[T any](message string, data T) *Output[T] {
	return &Output[T]{Body: Envelope[T]{Success: true, Message: message, Data: data}}
}

// IDParam is a path parameter for resource IDs.
type IDParam struct {
	ID string `path:"id" doc:"Resource identifier"`
}

// PageQuery carries raw paging parameters. They are strings so malformed
// values produce field messages instead of a generic decode failure.
type PageQuery struct {
	Page  string `query:"page" doc:"Page number, starting at 1 (default 1)"`
	Limit string `query:"limit" doc:"Items per page, 1-100 (default 10)"`
}

// HealthData reports server status.
type HealthData struct {
	Status      string `json:"status" doc:"Always ok when the process serves requests"`
	Database    string `json:"database" enum:"ok,unavailable" doc:"Result of a database ping"`
	Environment string `json:"environment" doc:"Deployment environment"`
}
