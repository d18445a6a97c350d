package service

import (
	"context"
	"time"

	"ventesca/internal/apierror"
	"ventesca/internal/config"
	"ventesca/internal/dto"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token kinds carried in the "tipo" claim.
const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

var (
	ErrCredencialesInvalidas = apierror.Wrap(apierror.ErrUnauthorized, "credenciales invalidas")
	ErrTokenInvalido         = apierror.Wrap(apierror.ErrUnauthorized, "refresh token invalido o expirado")
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, negocioID uuid.UUID, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["tipo"] != TokenRefresco {
		return nil, ErrTokenInvalido
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrTokenInvalido
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenInvalido
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, ErrTokenInvalido
	}

	return s.emitirTokens(user)
}

func (s *authService) CrearUsuario(ctx context.Context, negocioID uuid.UUID, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		ID:           uuid.New(),
		NegocioID:    negocioID,
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsuarioDuplicado
		}
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresco, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"negocio_id": user.NegocioID.String(),
		"username":   user.Username,
		"rol":        user.Rol,
		"tipo":       tipo,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		NegocioID: u.NegocioID.String(),
		Username:  u.Username,
		Nombre:    u.Nombre,
		Email:     u.Email,
		Rol:       u.Rol,
	}
}
