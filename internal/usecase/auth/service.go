package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"skill-hire/internal/domain/business"
	"skill-hire/internal/domain/user"
	"skill-hire/internal/domain/worker"
	"skill-hire/internal/pkg/jwt"
	"skill-hire/internal/pkg/logger"
	"skill-hire/internal/pkg/validation"
	"skill-hire/internal/repository"
	"skill-hire/internal/session"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrTokenExpired           = errors.New("token expired")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=business worker"`
	Name     string `json:"name" validate:"required"`
	Skill    string `json:"skill" validate:"required_if=Role worker"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Result struct {
	User         user.User       `json:"user"`
	Session      session.Session `json:"session"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

type Users interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type Workers interface {
	Create(ctx context.Context, w worker.Worker) (worker.Worker, error)
	GetByEmail(ctx context.Context, email string) (worker.Worker, error)
	GetByPhone(ctx context.Context, phone string) (worker.Worker, error)
}

type Businesses interface {
	Create(ctx context.Context, b business.Business) (business.Business, error)
	GetByEmail(ctx context.Context, email string) (business.Business, error)
}

type Service struct {
	users      Users
	workers    Workers
	businesses Businesses
	sessions   session.Store
	tokens     jwt.Service
	sessionTTL time.Duration
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewService(users Users, workers Workers, businesses Businesses, sessions session.Store, tokens jwt.Service, sessionTTL time.Duration, log logrus.FieldLogger) *Service {
	return &Service{
		users:      users,
		workers:    workers,
		businesses: businesses,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger.OrDefault(log),
		now:        time.Now,
	}
}

// Register creates the login and, when missing, the worker or business record
// it acts as.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	in.Skill = strings.TrimSpace(in.Skill)
	if err := validation.Check(ErrInvalidInput, &in); err != nil {
		return Result{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}
	if exists {
		return Result{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}

	u, err := s.users.Create(ctx, user.User{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         user.Role(in.Role),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Result{}, ErrEmailAlreadyRegistered
		}
		return Result{}, errors.Join(ErrInternal, err)
	}

	if err := s.ensureRecord(ctx, u, in); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("could not create role record")
	}

	return s.open(ctx, u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Result{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, errors.Join(ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}

	return s.open(ctx, u)
}

// Refresh rotates both tokens. The session keeps its id but the record is
// resolved again in case it was created after login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Result, error) {
	if refreshToken == "" {
		return Result{}, ErrUnauthorized
	}
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{}, ErrTokenExpired
		}
		return Result{}, ErrUnauthorized
	}
	if !s.tokens.IsRefreshToken(claims) {
		return Result{}, ErrUnauthorized
	}

	if _, err := s.sessions.Load(ctx, claims.SessionID); err != nil {
		return Result{}, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrUnauthorized
		}
		return Result{}, errors.Join(ErrInternal, err)
	}

	sess := s.newSession(ctx, u)
	sess.ID = claims.SessionID
	return s.issue(ctx, u, sess)
}

func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Authenticate turns an access token into the live session it belongs to.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (session.Session, error) {
	if strings.TrimSpace(accessToken) == "" {
		return session.Session{}, ErrUnauthorized
	}
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return session.Session{}, ErrTokenExpired
		}
		return session.Session{}, ErrUnauthorized
	}
	if s.tokens.IsRefreshToken(claims) {
		return session.Session{}, ErrUnauthorized
	}

	sess, err := s.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		return session.Session{}, ErrUnauthorized
	}
	if sess.UserID != claims.UserID {
		return session.Session{}, ErrUnauthorized
	}
	return sess, nil
}

func (s *Service) open(ctx context.Context, u user.User) (Result, error) {
	return s.issue(ctx, u, s.newSession(ctx, u))
}

func (s *Service) issue(ctx context.Context, u user.User, sess session.Session) (Result, error) {
	sub := jwt.Subject{
		SessionID: sess.ID,
		UserID:    u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
	}
	access, err := s.tokens.GenerateAccessToken(sub)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(sub)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}

	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		s.logger.WithError(err).WithField("session_id", sess.ID).Warn("session not persisted to cache")
	}

	return Result{User: sanitizeUser(u), Session: sess, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) newSession(ctx context.Context, u user.User) session.Session {
	return session.Session{
		ID:       uuid.New(),
		UserID:   u.ID,
		RecordID: s.ResolveRecord(ctx, u),
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		IssuedAt: s.now().UTC(),
	}
}

// ResolveRecord finds the worker (by phone, then email) or business (by
// email) row for u. It returns uuid.Nil when there is none.
func (s *Service) ResolveRecord(ctx context.Context, u user.User) uuid.UUID {
	switch u.Role {
	case user.RoleWorker:
		if w, err := FindWorker(ctx, s.workers, u.Phone, u.Email); err == nil {
			return w.ID
		}
	case user.RoleBusiness:
		if b, err := s.businesses.GetByEmail(ctx, u.Email); err == nil {
			return b.ID
		}
	}
	return uuid.Nil
}

func (s *Service) ensureRecord(ctx context.Context, u user.User, in RegisterInput) error {
	switch u.Role {
	case user.RoleWorker:
		_, err := FindWorker(ctx, s.workers, u.Phone, u.Email)
		if err == nil || !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		_, err = s.workers.Create(ctx, worker.Worker{
			Name:   in.Name,
			Email:  u.Email,
			Phone:  u.Phone,
			Skill:  in.Skill,
			Status: worker.StatusAvailable,
		})
		return err
	case user.RoleBusiness:
		_, err := s.businesses.GetByEmail(ctx, u.Email)
		if err == nil || !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		_, err = s.businesses.Create(ctx, business.Business{
			Name:  in.Name,
			Email: u.Email,
			Phone: u.Phone,
		})
		return err
	}
	return nil
}

type workerLookup interface {
	GetByEmail(ctx context.Context, email string) (worker.Worker, error)
	GetByPhone(ctx context.Context, phone string) (worker.Worker, error)
}

// FindWorker matches by phone first and falls back to email.
func FindWorker(ctx context.Context, workers workerLookup, phone, email string) (worker.Worker, error) {
	if p := strings.TrimSpace(phone); p != "" {
		w, err := workers.GetByPhone(ctx, p)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return worker.Worker{}, err
		}
	}
	if e := normalizeEmail(email); e != "" {
		return workers.GetByEmail(ctx, e)
	}
	return worker.Worker{}, repository.ErrNotFound
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
