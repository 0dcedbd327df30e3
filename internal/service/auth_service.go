package service

import (
	"context"
	"errors"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOwnerAlreadyExists   = errors.New("owner with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// AuthService handles owner account registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Owner, error)
	Login(ctx context.Context, email, password string) (token string, owner *domain.Owner, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	owners        repository.OwnerRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(owners repository.OwnerRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		owners:        owners,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new owner registration.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Owner, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrValidationFailed
	}
	if role != domain.RoleAdmin && role != domain.RoleCoach {
		return nil, ErrValidationFailed
	}

	_, err := s.owners.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrOwnerAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	owner := &domain.Owner{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	ownerID, err := s.owners.Create(ctx, owner)
	if err != nil {
		// The unique email index closes the check-then-create race.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrOwnerAlreadyExists
		}
		return nil, err
	}
	owner.ID = ownerID

	owner.PasswordHash = ""
	return owner, nil
}

// Login handles owner authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, owner *domain.Owner, err error) {
	if email == "" || password == "" {
		err = ErrAuthenticationFailed
		return
	}

	owner, err = s.owners.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		owner = nil
		return
	}

	token, err = s.generateJWT(owner)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	owner.PasswordHash = ""
	return token, owner, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	OwnerID string      `json:"uid"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given owner.
func (s *authService) generateJWT(owner *domain.Owner) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		OwnerID: owner.ID.Hex(),
		Role:    owner.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitness-content",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
