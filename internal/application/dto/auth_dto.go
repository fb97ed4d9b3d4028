package dto

// LoginRequest acepta JSON o formulario (username/password).
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse par de tokens emitido en login y refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Username     string `json:"username"`
	Admin        bool   `json:"admin"`
}

// TokenData identidad contenida en un access token válido.
type TokenData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// ForgotPasswordRequest email por JSON, formulario o query (?email=).
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" query:"email"`
}

// ResetPasswordRequest token recibido por correo y la nueva contraseña.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// LogoutRequest refresh token opcional a revocar junto con el access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
