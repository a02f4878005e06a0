package user

// User is the API response model for a user.
type User struct {
	ID    string `json:"id" doc:"User UUID"`
	Name  string `json:"name" doc:"Display name"`
	Email string `json:"email" doc:"Email address"`
	Role  string `json:"role" enum:"admin,user,read-only" doc:"Access level"`
}

// MessageBody is the response body of the informational auth routes.
type MessageBody struct {
	Message string `json:"message"`
}
