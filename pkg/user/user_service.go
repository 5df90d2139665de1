package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/avtale/avtale/internal/event_bus"
	"github.com/avtale/avtale/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Service interface {
	Register(ctx context.Context, username, password string) (User, error)
	Authenticate(ctx context.Context, username, password string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByUid(ctx context.Context, uid string) (User, error)
	CountUsers(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	repo  Repo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewUserService(repo Repo, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: clock}
}

// Register creates a new account with a bcrypt password hash. New accounts
// always get the User role; administrators are provisioned directly in the
// store.
func (s *ServiceImpl) Register(ctx context.Context, username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrMissingCredentials
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return User{}, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := User{
		Uid:          uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         RoleUser,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, newUser); err != nil {
		return User{}, fmt.Errorf("failed to store user: %w", err)
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.UserRegisteredEventType, event_bus.UserRegistered{
		Uid:      newUser.Uid,
		Username: newUser.Username,
	})); err != nil {
		log.Errorf("failed to publish user registered event: %v", err)
	}

	return newUser, nil
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password are indistinguishable to the caller.
func (s *ServiceImpl) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *ServiceImpl) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) CountUsers(ctx context.Context) (int, error) {
	return s.repo.CountUsers(ctx)
}
