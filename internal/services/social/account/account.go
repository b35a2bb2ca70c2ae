// Package account implements registration, password login, browser
// sessions and password resets.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/platform/id"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/mail"
	"github.com/louisbranch/murmur/internal/services/social/profile"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/social/username"
)

const (
	defaultSessionTTL    = 30 * 24 * time.Hour
	defaultRememberTTL   = 365 * 24 * time.Hour
	defaultResetTokenTTL = 10 * time.Minute
)

// Config controls session lifetimes and reset tokens.
type Config struct {
	// SecretKey signs reset tokens. Required.
	SecretKey     []byte
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	ResetTokenTTL time.Duration
	// BaseURL prefixes links in outgoing emails.
	BaseURL string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Service owns accounts and sessions.
type Service struct {
	users    storage.UserStore
	sessions storage.SessionStore
	mailer   mail.Sender
	cfg      Config
	validate *validator.Validate
	clock    func() time.Time
	newID    func() (string, error)
	pageSize pagination.PageSizeConfig
}

// Login is the result of a successful sign-in.
type Login struct {
	User    storage.User
	Session storage.Session
}

// RegisterInput carries registration form values.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewService creates an account service.
func NewService(users storage.UserStore, sessions storage.SessionStore, mailer mail.Sender, cfg Config) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = defaultRememberTTL
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = defaultResetTokenTTL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Service{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		validate: validator.New(),
		clock:    time.Now,
		newID:    id.NewID,
		pageSize: pagination.PageSizeConfig{Default: 50, Max: 200},
	}, nil
}

func (s *Service) ready() error {
	if s == nil || s.users == nil || s.sessions == nil {
		return errors.New("account service is not configured")
	}
	return nil
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (storage.User, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	canonical, err := username.Canonicalize(in.Username)
	if err != nil {
		return storage.User{}, err
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return storage.User{}, err
	}
	if _, err := s.users.GetUserByUsername(ctx, canonical); err == nil {
		return storage.User{}, usernameTaken(canonical)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.User{}, fmt.Errorf("get user by username: %w", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return storage.User{}, apperrors.New(apperrors.CodeEmailTaken, "email is already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.User{}, fmt.Errorf("get user by email: %w", err)
	}

	hash, err := HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return storage.User{}, err
	}
	userID, err := s.newID()
	if err != nil {
		return storage.User{}, fmt.Errorf("generate user id: %w", err)
	}
	now := s.clock().UTC()
	user := storage.User{
		ID:           userID,
		Username:     canonical,
		Email:        email,
		PasswordHash: hash,
		LastSeen:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return storage.User{}, mapUserConflict(err, canonical)
	}
	return user, nil
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, rawUsername string, password string, remember bool) (Login, error) {
	if err := s.ready(); err != nil {
		return Login{}, err
	}
	invalid := apperrors.New(apperrors.CodeInvalidCredentials, "invalid username or password")
	canonical, err := username.Canonicalize(rawUsername)
	if err != nil {
		return Login{}, invalid
	}
	user, err := s.users.GetUserByUsername(ctx, canonical)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Login{}, invalid
		}
		return Login{}, fmt.Errorf("get user by username: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return Login{}, invalid
	}

	sessionID, err := s.newID()
	if err != nil {
		return Login{}, fmt.Errorf("generate session id: %w", err)
	}
	now := s.clock().UTC()
	ttl := s.cfg.SessionTTL
	if remember {
		ttl = s.cfg.RememberTTL
	}
	session := storage.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.PutSession(ctx, session); err != nil {
		return Login{}, fmt.Errorf("put session: %w", err)
	}
	return Login{User: user, Session: session}, nil
}

// ResolveSession returns the signed-in user of an active session.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (storage.User, storage.Session, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, storage.Session{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.User{}, storage.Session{}, apperrors.New(apperrors.CodeAuthRequired, "session is required")
	}
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, storage.Session{}, apperrors.Wrap(apperrors.CodeAuthRequired, "session not found", err)
		}
		return storage.User{}, storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !session.Active(s.clock().UTC()) {
		return storage.User{}, storage.Session{}, apperrors.New(apperrors.CodeAuthRequired, "session is no longer active")
	}
	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, storage.Session{}, apperrors.Wrap(apperrors.CodeAuthRequired, "session user not found", err)
		}
		return storage.User{}, storage.Session{}, fmt.Errorf("get user: %w", err)
	}
	return user, session, nil
}

// Logout revokes a session. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, sessionID, s.clock().UTC()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RequestPasswordReset emails a reset link when email belongs to a user.
// Unknown addresses succeed silently so callers cannot discover which emails are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, rawEmail string, loc mail.Localizer) error {
	if err := s.ready(); err != nil {
		return err
	}
	email, err := s.normalizeEmail(rawEmail)
	if err != nil {
		return err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}
	if s.mailer == nil {
		return errors.New("mailer is not configured")
	}
	token, err := s.signResetToken(user)
	if err != nil {
		return err
	}
	msg := mail.RenderReset(loc, mail.ResetInput{
		To:       user.Email,
		Username: user.Username,
		Link:     s.cfg.BaseURL + "/reset_password/" + token,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (s *Service) ResetPassword(ctx context.Context, token string, password string) (storage.User, error) {
	user, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return storage.User{}, err
	}
	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return storage.User{}, err
	}
	now := s.clock().UTC()
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash, now); err != nil {
		return storage.User{}, fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = now
	return user, nil
}

// UpdateProfile changes the username and about-me text of userID.
func (s *Service) UpdateProfile(ctx context.Context, userID string, rawUsername string, aboutMe string) (storage.User, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	normalized, err := profile.Normalize(rawUsername, aboutMe)
	if err != nil {
		return storage.User{}, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return storage.User{}, err
	}
	if normalized.Username != user.Username {
		if _, err := s.users.GetUserByUsername(ctx, normalized.Username); err == nil {
			return storage.User{}, usernameTaken(normalized.Username)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, fmt.Errorf("get user by username: %w", err)
		}
	}

	now := s.clock().UTC()
	if err := s.users.UpdateProfile(ctx, user.ID, normalized.Username, normalized.AboutMe, now); err != nil {
		return storage.User{}, mapUserConflict(err, normalized.Username)
	}
	user.Username = normalized.Username
	user.AboutMe = normalized.AboutMe
	user.UpdatedAt = now
	return user, nil
}

// TouchLastSeen records activity of userID.
func (s *Service) TouchLastSeen(ctx context.Context, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.users.TouchLastSeen(ctx, userID, s.clock().UTC()); err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

// GetUser loads one account by id.
func (s *Service) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	user, err := s.users.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.Wrap(apperrors.CodeUserNotFound, "user not found", err)
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of the user directory, ordered by username.
func (s *Service) ListUsers(ctx context.Context, page int, pageSize int) (pagination.Page[storage.User], error) {
	if err := s.ready(); err != nil {
		return pagination.Page[storage.User]{}, err
	}
	page = pagination.ClampPage(page)
	size := pagination.ClampPageSize(pageSize, s.pageSize)
	offset, ok := pagination.Offset(page, size)
	if !ok {
		return pagination.FromLookahead[storage.User](nil, page, size), nil
	}
	rows, err := s.users.ListUsers(ctx, size+1, offset)
	if err != nil {
		return pagination.Page[storage.User]{}, fmt.Errorf("list users: %w", err)
	}
	return pagination.FromLookahead(rows, page, size), nil
}

func (s *Service) normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if err := s.validate.Var(email, "required,email,max=120"); err != nil {
		return "", apperrors.Wrap(apperrors.CodeEmailInvalid, "email is invalid", err)
	}
	return email, nil
}

func usernameTaken(name string) error {
	return apperrors.WithMetadata(
		apperrors.CodeUsernameTaken,
		"username is already taken",
		map[string]string{"Username": name},
	)
}

func mapUserConflict(err error, name string) error {
	var conflict *storage.ConflictError
	if errors.As(err, &conflict) {
		switch conflict.Field {
		case "username":
			return usernameTaken(name)
		case "email":
			return apperrors.New(apperrors.CodeEmailTaken, "email is already registered")
		}
	}
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeUserNotFound, "user not found", err)
	}
	return fmt.Errorf("write user: %w", err)
}
