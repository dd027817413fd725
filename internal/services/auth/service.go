package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/othello/internal/dependencies/clock"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	// ErrInvalidInput is wrapped with the field that failed
	ErrInvalidInput = errors.New("invalid input")
)

// Input limits
const (
	MaxDisplayNameLength = 32
	MinUsernameLength    = 3
	MaxUsernameLength    = 32
	MinPasswordLength    = 6
)

// Service owns players and their sessions
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	sessions *sessionStore

	sessionDuration time.Duration
	bcryptCost      int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// BcryptCost is the password hashing cost; tests lower it to bcrypt.MinCost
	BcryptCost int
}

func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// New creates an auth service. Zero config fields take their defaults
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = def.SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = def.BcryptCost
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger.With(slog.String("component", "auth-service")),
		sessions:        newSessionStore(),
		sessionDuration: cfg.SessionDuration,
		bcryptCost:      cfg.BcryptCost,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func normalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return "", invalid("display name must be 1-%d characters", MaxDisplayNameLength)
	}
	return name, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// validateCredentials expects an already normalised username
func validateCredentials(username, password string) error {
	if n := len(username); n < MinUsernameLength || n > MaxUsernameLength {
		return invalid("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}
	if len(password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// newPlayer builds and saves a human player
func (s *Service) newPlayer(ctx context.Context, displayName string, guest bool) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID(newToken("p_")),
		DisplayName: displayName,
		IsGuest:     guest,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// CreateGuestPlayer creates an anonymous player and logs them in
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	displayName, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	player, err := s.newPlayer(ctx, displayName, true)
	if err != nil {
		return nil, err
	}
	return s.createSession(player), nil
}

// RegisterPlayer creates an account and logs it in. The display name
// defaults to the username
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = normalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	displayName, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	switch _, err := s.storage.GetRegisteredPlayerByUsername(ctx, username); {
	case err == nil:
		return nil, ErrUsernameExists
	case !errors.Is(err, model.ErrPlayerNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	player, err := s.newPlayer(ctx, displayName, false)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.storage.SaveRegisteredPlayer(ctx, &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)

	return s.createSession(player), nil
}

// Login checks a username and password and opens a new session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = normalizeUsername(username)
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}
	return s.createSession(player), nil
}
