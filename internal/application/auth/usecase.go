package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mokpokpo/supply-api/internal/application/dto"
	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
	"github.com/mokpokpo/supply-api/pkg/jwt"
)

// JWTConfig is the token generation configuration.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase covers registration and login. Self-service registration is for
// wholesalers only; staff accounts (manager, stock, driver) are created by
// a manager through CreateStaff.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase builds the auth use case.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterWholesaler creates a wholesaler account: hashes the password with
// bcrypt, lowercases the username, persists. ErrDuplicate if the username
// is taken.
func (uc *UseCase) RegisterWholesaler(in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password required", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s", domain.ErrDuplicate, username)
	}
	user, err := uc.newUser(in, username, entity.RoleWholesaler)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// CreateStaff creates an account with any role from the closed set.
// Exposed to managers only (enforced at the HTTP layer).
func (uc *UseCase) CreateStaff(in dto.RegisterRequest, role string) (*dto.UserResponse, error) {
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password required", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s", domain.ErrDuplicate, username)
	}
	user, err := uc.newUser(in, username, role)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UseCase) newUser(in dto.RegisterRequest, username, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         role,
		Active:       true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Login checks username/password, generates the JWT and returns token + user.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(in.Username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
