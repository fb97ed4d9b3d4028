package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/jwt"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
	"github.com/jhoicas/andromeda-crm/pkg/password"
)

// TokenConfig secretos, emisor y vigencias de los tres tipos de token.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
	// FrontendURL base del enlace de restablecimiento ({FrontendURL}/reset-password?token=...).
	FrontendURL string
	// MailTimeout límite del envío asíncrono del correo de restablecimiento.
	MailTimeout time.Duration
}

// AuthUseCase casos de uso de autenticación: login, verificación, refresh, logout y restablecimiento.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   ports.TokenStore
	mailer   ports.Mailer
	cfg      TokenConfig

	// runAsync ejecuta el envío de correo fuera de la petición. Los tests lo reemplazan por una llamada directa.
	runAsync func(func())
}

// NewAuthUseCase construye el caso de uso de auth. mailer puede ser nil (no se envía correo).
func NewAuthUseCase(userRepo repository.UserRepository, tokens ports.TokenStore, mailer ports.Mailer, cfg TokenConfig) *AuthUseCase {
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 30 * time.Second
	}
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		cfg:      cfg,
		runAsync: func(fn func()) { go fn() },
	}
}

// Login verifica username/password y emite el par de tokens.
// Usuario inexistente, contraseña incorrecta e inactivo devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	username := normalize.Username(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	// Sin usuario se compara contra un hash vacío: el costo bcrypt es el mismo y no revela si existe.
	var hash string
	if user != nil {
		hash = user.PasswordHash
	}
	if !password.Verify(hash, in.Password) || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issuePair(user.ID, user.Username, user.Admin)
}

// VerifyAccessToken valida firma, expiración, tipo y que el jti no esté revocado.
func (uc *AuthUseCase) VerifyAccessToken(ctx context.Context, token string) (*dto.TokenData, error) {
	claims, err := jwt.Parse(uc.cfg.AccessSecret, token, jwt.TypeAccess)
	if err != nil {
		log.Debug().Err(err).Msg("access token rechazado")
		return nil, domain.ErrInvalidToken
	}
	if err := uc.checkNotRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	return &dto.TokenData{ID: claims.Subject, Username: claims.Username, Admin: claims.Admin}, nil
}

// VerifyRefreshToken valida un refresh token y devuelve sus claims.
func (uc *AuthUseCase) VerifyRefreshToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.cfg.RefreshSecret, token, jwt.TypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rechazado")
		return nil, domain.ErrInvalidToken
	}
	if err := uc.checkNotRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

// Refresh rota el refresh token: revoca el presentado y emite un par nuevo con los datos actuales del usuario.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := uc.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidToken
	}
	first, err := uc.tokens.Consume(ctx, claims.ID, claims.Remaining(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("revocar refresh token: %w", err)
	}
	if !first {
		// Otra petición concurrente ya rotó este token.
		return nil, domain.ErrInvalidToken
	}
	return uc.issuePair(user.ID, user.Username, user.Admin)
}

// Logout revoca el access token y, si se envía, el refresh token. Un refresh inválido se ignora.
func (uc *AuthUseCase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := jwt.Parse(uc.cfg.AccessSecret, accessToken, jwt.TypeAccess)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if err := uc.tokens.Revoke(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("revocar access token: %w", err)
	}
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	rc, err := jwt.Parse(uc.cfg.RefreshSecret, refreshToken, jwt.TypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("logout: refresh token ignorado")
		return nil
	}
	if rc.Subject != claims.Subject {
		return nil
	}
	if err := uc.tokens.Revoke(ctx, rc.ID, rc.Remaining(time.Now())); err != nil {
		return fmt.Errorf("revocar refresh token: %w", err)
	}
	return nil
}

// ForgotPassword emite un token de restablecimiento y lo envía por correo si el email existe.
// Nunca revela si la cuenta existe: los errores de envío solo se registran.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := normalize.Email(in.Email)
	if email == "" {
		return nil
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		log.Info().Msg("forgot-password: email sin cuenta activa")
		return nil
	}
	token, _, err := jwt.GenerateReset(uc.cfg.ResetSecret, uc.cfg.Issuer, user.ID, uc.cfg.ResetTTL)
	if err != nil {
		return err
	}
	if uc.mailer == nil {
		log.Warn().Str("user_id", user.ID).Msg("forgot-password: correo deshabilitado, token no enviado")
		return nil
	}
	msg := ports.PasswordResetEmail{
		To:       user.Email,
		Name:     user.FullName(),
		ResetURL: uc.resetURL(token),
		ValidFor: uc.cfg.ResetTTL,
	}
	uc.runAsync(func() {
		mctx, cancel := context.WithTimeout(context.Background(), uc.cfg.MailTimeout)
		defer cancel()
		if err := uc.mailer.SendPasswordReset(mctx, msg); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("forgot-password: error enviando correo")
			return
		}
		log.Info().Str("user_id", user.ID).Msg("forgot-password: correo enviado")
	})
	return nil
}

// ResetPassword valida el token (un solo uso), aplica la política y guarda el nuevo hash.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	claims, err := jwt.Parse(uc.cfg.ResetSecret, in.Token, jwt.TypeReset)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if err := password.CheckPolicy(in.NewPassword); err != nil {
		return domain.PasswordPolicy(err)
	}
	user, err := uc.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return domain.ErrInvalidToken
	}
	first, err := uc.tokens.Consume(ctx, claims.ID, claims.Remaining(time.Now()))
	if err != nil {
		return fmt.Errorf("consumir token de restablecimiento: %w", err)
	}
	if !first {
		return domain.ErrInvalidToken
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	log.Info().Str("user_id", user.ID).Msg("contraseña restablecida")
	return nil
}

func (uc *AuthUseCase) issuePair(userID, username string, admin bool) (*dto.TokenResponse, error) {
	access, _, err := jwt.GenerateAccess(uc.cfg.AccessSecret, uc.cfg.Issuer, userID, username, admin, uc.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := jwt.GenerateRefresh(uc.cfg.RefreshSecret, uc.cfg.Issuer, userID, uc.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		Username:     username,
		Admin:        admin,
	}, nil
}

func (uc *AuthUseCase) checkNotRevoked(ctx context.Context, jti string) error {
	revoked, err := uc.tokens.IsRevoked(ctx, jti)
	if err != nil {
		return fmt.Errorf("consultar revocación: %w", err)
	}
	if revoked {
		return domain.ErrInvalidToken
	}
	return nil
}

func (uc *AuthUseCase) resetURL(token string) string {
	base := strings.TrimRight(uc.cfg.FrontendURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}
