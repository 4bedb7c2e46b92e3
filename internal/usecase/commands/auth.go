package commands

import (
	"context"
	"errors"
	"log/slog"

	"boxcric-api/internal/domain/otp"
	"boxcric-api/internal/domain/user"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/pkg/jwt"
	"boxcric-api/internal/pkg/password"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserAlreadyExists    = errs.New("user already exists")
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrInvalidOTP           = errs.New("invalid or expired otp")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type RegisterResult struct {
	TempToken string
	Email     string
}

type AuthResult struct {
	UserID uuid.UUID
	Token  string
	User   *queries.AuthorizedUserView
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*RegisterResult, error)
	VerifyRegistration(ctx context.Context, req reqdto.VerifyRegistrationRequest) (*AuthResult, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error)
}

type authCommandsImpl struct {
	userRepo   UserRepository
	otpRepo    OTPRepository
	userStore  queries.UserReadStore
	jwtService *jwt.Service
	mailer     Mailer
	db         db.Pool
	clock      clock.Clock
	otpCfg     config.OTPConfig
}

func NewAuthCommands(
	userRepo UserRepository,
	otpRepo OTPRepository,
	userStore queries.UserReadStore,
	jwtService *jwt.Service,
	mailer Mailer,
	db db.Pool,
	clock clock.Clock,
	otpCfg config.OTPConfig,
) AuthCommands {
	return &authCommandsImpl{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		userStore:  userStore,
		jwtService: jwtService,
		mailer:     mailer,
		db:         db,
		clock:      clock,
		otpCfg:     otpCfg,
	}
}

// Register validates the signup, parks the payload in a short-lived token
// and mails a one-time code. No user row is written until the code checks
// out, so abandoned signups leave nothing behind.
func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*RegisterResult, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	phone, err := user.NewPhone(req.Phone)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	if _, err := user.NewPassword(req.Password); err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	exists, err := a.userRepo.ExistsByEmail(ctx, email.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to check existing user")
	}
	if !exists {
		exists, err = a.userRepo.ExistsByPhone(ctx, phone.Value())
		if err != nil {
			return nil, errs.Wrap(err, "failed to check existing user")
		}
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := password.HashPassword(req.Password)
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	code := otp.New(email.Value(), otp.PurposeRegistration, a.otpCfg.TTL, a.clock.Now())
	if err := a.otpRepo.Create(ctx, a.db, code); err != nil {
		return nil, errs.Wrap(err, "failed to store otp")
	}

	tempToken, err := a.jwtService.GenerateRegistrationToken(req.Name, email.Value(), req.Phone, passwordHash)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	if err := a.mailer.SendOTP(ctx, email.Value(), code.Code(), a.otpCfg.TTL); err != nil {
		// The code is persisted; delivery failure should not lose the signup
		slog.Warn("failed to send otp email", "email", email.Value(), "error", err.Error())
	}

	return &RegisterResult{TempToken: tempToken, Email: email.Value()}, nil
}

func (a *authCommandsImpl) VerifyRegistration(ctx context.Context, req reqdto.VerifyRegistrationRequest) (*AuthResult, error) {
	claims, err := a.jwtService.ValidateRegistrationToken(req.TempToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	code, err := a.otpRepo.FindLatest(ctx, claims.Email, otp.PurposeRegistration)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, errs.Wrap(err, "failed to load otp")
	}

	if err := code.Verify(req.OTP, a.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidOTP)
	}

	email, err := user.NewEmail(claims.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	phone, err := user.NewPhone(claims.Phone)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	newUser, err := user.NewUser(claims.Name, email, phone, claims.PasswordHash, user.RoleUser)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	tx, err := a.db.Begin(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := a.userRepo.Create(ctx, tx, newUser); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, errs.Wrap(err, "failed to create user")
	}

	if err := a.otpRepo.MarkUsed(ctx, tx, code.ID()); err != nil {
		return nil, errs.Wrap(err, "failed to consume otp")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Wrap(err, "failed to commit transaction")
	}

	token, err := a.jwtService.GenerateToken(newUser.ID(), newUser.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	view := &queries.AuthorizedUserView{
		ID:        newUser.ID(),
		Name:      newUser.Name(),
		Email:     newUser.Email().Value(),
		Phone:     newUser.Phone().Value(),
		Role:      newUser.Role().String(),
		CreatedAt: newUser.CreatedAt(),
	}

	return &AuthResult{UserID: newUser.ID(), Token: token, User: view}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		// Same error as a wrong password to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	view, hashedPassword, err := a.userStore.FindByEmail(ctx, email.Value())
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if view == nil {
		return nil, ErrInvalidCredentials
	}

	if err := password.ComparePassword(hashedPassword, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	// Best effort; a login must not fail because the timestamp write did
	if err := a.userRepo.RecordLogin(ctx, a.db, view.ID, a.clock.Now()); err != nil {
		slog.Warn("failed to record login time", "user_id", view.ID, "error", err.Error())
	}

	return &AuthResult{UserID: view.ID, Token: token, User: view}, nil
}
