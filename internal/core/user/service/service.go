package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userEntity "snapfeed/internal/core/user"
	followerPort "snapfeed/internal/ports/follower"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer     = "snapfeed"
	DefaultTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("username, email and password are required")
)

// UserService handles accounts and profiles.
type UserService struct {
	UserRepository     userPort.UserRepository
	PostRepository     postPort.PostRepository
	FollowerRepository followerPort.FollowerRepository
	jwtKey             []byte
	tokenTTL           time.Duration
	logger             *zap.Logger
	now                func() time.Time
}

func NewUserService(
	repo userPort.UserRepository,
	postRepo postPort.PostRepository,
	followerRepo followerPort.FollowerRepository,
	jwtKey []byte,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		UserRepository:     repo,
		PostRepository:     postRepo,
		FollowerRepository: followerRepo,
		jwtKey:             jwtKey,
		tokenTTL:           DefaultTokenTTL,
		logger:             logger,
		now:                time.Now,
	}
}

// WithTokenTTL overrides the lifetime of issued tokens.
func (s *UserService) WithTokenTTL(ttl time.Duration) *UserService {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// LoginUser checks the password of the account matching login (a username or
// an email) and issues a signed JWT.
func (s *UserService) LoginUser(ctx context.Context, login string, password string) (*userPort.LoginResponse, error) {
	user, err := s.UserRepository.FindByUsernameOrEmail(ctx, login, login)
	if errors.Is(err, userPort.ErrUserNotFound) {
		s.logger.Info("login for unknown account", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("invalid password", zap.String("userID", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		s.logger.Error("could not sign token", zap.Error(err))
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      userPort.ToDTO(user, true),
	}, nil
}

func (s *UserService) generateJWT(user *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   user.ID.String(),
		Issuer:    TokenIssuer,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// RegisterUser creates an account with a bcrypt password hash.
func (s *UserService) RegisterUser(ctx context.Context, username, email, fullName, password string) (*userPort.UserDTO, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.UserRepository.FindByUsernameOrEmail(ctx, username, email)
	if err == nil && existing != nil {
		return nil, userPort.ErrUserExists
	}
	if err != nil && !errors.Is(err, userPort.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Email:    email,
		FullName: strings.TrimSpace(fullName),
		Password: string(hashedPassword),
	}

	u, err := s.UserRepository.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("userID", u.ID.String()), zap.String("username", u.Username))
	return userPort.ToDTO(u, true), nil
}

// GetProfile returns a user with follower, following and post counts as seen
// by viewerID. The email is included only on the viewer's own profile.
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID string) (*userPort.ProfileDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.FollowerRepository.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := s.FollowerRepository.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	posts, err := s.PostRepository.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	isFollowing := false
	if viewerID != "" && viewerID != userID {
		if isFollowing, err = s.FollowerRepository.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, fmt.Errorf("follow state: %w", err)
		}
	}

	return &userPort.ProfileDTO{
		User:           userPort.ToDTO(u, viewerID == userID),
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     posts,
		IsFollowing:    isFollowing,
	}, nil
}
