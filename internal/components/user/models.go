package user

type (
	User struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		PasswordHash string `json:"-"` // Never serialize password hash
	}

	CredentialsIn struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginOut struct {
		JWTToken string `json:"jwt_token"`
	}
)
