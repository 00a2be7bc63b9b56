package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"staffdir/internal/common"
	"staffdir/internal/common/security"
	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	// Pre-check for a friendly message; the unique indexes on users are the
	// backstop under concurrent registration.
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.Wrap(common.ErrConflict, "User already exists with this email or username")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.Wrap(common.ErrConflict, "User already exists with this email or username")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := security.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear before returning
	return &AuthPayload{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthPayload, error) {
	// Identical message whether the email is unknown or the password is
	// wrong.
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Wrap(common.ErrUnauthenticated, "Invalid credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.Wrap(common.ErrUnauthenticated, "Invalid credentials")
	}

	token, err := security.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthPayload{Token: token, User: user}, nil
}

// ResolveIdentity maps a bearer token to an account. Missing, malformed,
// expired or badly signed tokens all yield a nil identity rather than an
// error; so does a token whose account no longer exists.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenString string) *model.User {
	if tokenString == "" {
		return nil
	}
	claims, err := security.VerifyToken(tokenString)
	if err != nil {
		return nil
	}
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	user.HashedPassword = ""
	return user
}

// RequireAuth guards operations open to any authenticated account.
func RequireAuth(identity *model.User) error {
	if identity == nil {
		return common.Wrap(common.ErrUnauthenticated, "Authentication required")
	}
	return nil
}

// RequireAdmin guards mutations; evaluated before any store access.
func RequireAdmin(identity *model.User) error {
	if err := RequireAuth(identity); err != nil {
		return err
	}
	if !identity.IsAdmin() {
		return common.Wrap(common.ErrForbidden, "Admin access required")
	}
	return nil
}

func validateRegister(req RegisterRequest) error {
	var violations []common.FieldViolation
	if len(req.Username) < 3 {
		violations = append(violations, common.FieldViolation{Field: "username", Message: "must be at least 3 characters"})
	}
	if !emailRe.MatchString(req.Email) {
		violations = append(violations, common.FieldViolation{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < 6 {
		violations = append(violations, common.FieldViolation{Field: "password", Message: "must be at least 6 characters"})
	}
	if req.Role != "" && !model.ValidRole(req.Role) {
		violations = append(violations, common.FieldViolation{Field: "role", Message: "must be admin or employee"})
	}
	if len(violations) > 0 {
		return &common.ValidationError{Violations: violations}
	}
	return nil
}
