package api

// Success messages.
const (
	msgServerRunning    = "Server is running!"
	msgUserRegistered   = "User registered successfully"
	msgLoginSuccessful  = "Login successful"
	msgUserRetrieved    = "User retrieved successfully"
	msgBooksRetrieved   = "Books retrieved successfully"
	msgBookRetrieved    = "Book retrieved successfully"
	msgBookCreated      = "Book created successfully"
	msgBookUpdated      = "Book updated successfully"
	msgBookDeleted      = "Book deleted successfully"
	msgReviewsRetrieved = "Reviews retrieved successfully"
	msgReviewAdded      = "Review added successfully"
	msgPageInvalid      = "Page must be a positive integer"
	msgLimitOutOfRange  = "Limit must be between 1 and 100"
	healthStatusOK      = "ok"
	healthDBOK          = "ok"
	healthDBUnavailable = "unavailable"
)

// Operation tags for the OpenAPI document.
const (
	tagHealth  = "Health"
	tagAuth    = "Authentication"
	tagUsers   = "Users"
	tagBooks   = "Books"
	tagReviews = "Reviews"
)
