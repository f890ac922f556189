package schema

type (
	// LoginRequest represents token-issue payload
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// TokenPair represents token-issue and token-refresh responses; Refresh is optional on refresh.
	TokenPair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh,omitempty"`
	}

	// RefreshRequest represents token-refresh and logout payload
	RefreshRequest struct {
		Refresh string `json:"refresh"`
	}

	// Detail represents backend human-readable message
	Detail struct {
		Detail string `json:"detail"`
	}
)
