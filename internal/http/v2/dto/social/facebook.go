package social

// FacebookLoginRequest body de POST /v2/auth/social/facebook.
type FacebookLoginRequest struct {
	Token string `json:"token"`
}

// FacebookLoginResponse access token emitido tras verificar la identidad.
type FacebookLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // segundos
}
