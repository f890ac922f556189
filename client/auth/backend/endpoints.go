package backend

// Endpoints represents token endpoint paths relative to the backend base URL
type Endpoints struct {
	Token   string
	Refresh string
	Logout  string
}

// DefaultEndpoints returns the simplejwt gateway layout
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Token:   "/api/auth/token/",
		Refresh: "/api/auth/token/refresh/",
		Logout:  "/api/auth/logout/",
	}
}
