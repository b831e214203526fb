package entity

// UserProfile is the authenticated user as returned by /login and persisted in the session.
// JSON tags follow the backend so the stored object is the server's own shape.
type UserProfile struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name,omitempty"`
	RealName   string `json:"real_name,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Credentials are the login form fields
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput is the registration form payload
type RegisterInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RealName   string `json:"realName"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}
