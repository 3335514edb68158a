package errors

// User-facing error messages. Clients match on these strings, so keep them stable.
const (
	MsgServerError         = "Server error"
	MsgRouteNotFound       = "Route not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgValidationFailed    = "Validation failed"
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid token"
	MsgUserNotFound        = "User not found"
	MsgAdminRequired       = "Admin access required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUserExists          = "User with this email already exists"
	MsgBookNotFound        = "Book not found"
	MsgBookExists          = "A book with the same title, author, and genre already exists."
	MsgReviewExists        = "You have already reviewed this book"
	MsgNoFieldsToUpdate    = "No fields to update"
	MsgResourceExists      = "Resource already exists"
	MsgReferenceMissing    = "Referenced record does not exist"
	MsgRequiredMissing     = "Required field is missing"
	MsgTooManyRequests     = "Too many requests. Please try again later."
	MsgSearchQueryRequired = "Search query is required"
	MsgSearchUnavailable   = "Search is not enabled"
)
