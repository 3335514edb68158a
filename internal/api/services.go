package api

import "github.com/shelfwise/shelfwise-server/internal/service"

// Services groups the business logic used by the API server.
type Services struct {
	Auth   *service.AuthService
	Book   *service.BookService
	Review *service.ReviewService
}
