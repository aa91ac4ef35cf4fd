package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/services"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	"github.com/playvault/game-store/utils"
	"gorm.io/gorm"
)

// LoginFlow handles authentication, activation and password recovery
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	ActivationLogin(ctx context.Context, request *dto.ActivationLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	NewPasswordLogin(ctx context.Context, request *dto.NewPasswordLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, request *dto.PasswordResetRequest, metadata *ClientMetadata) error
	RequestReactivation(ctx context.Context, request *dto.ReactivationRequest, metadata *ClientMetadata) error
	ResendActivationCode(ctx context.Context, email string) error
	ResendValidationCode(ctx context.Context, email string) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo        repository.UserRepository
	auditRepo       repository.AuditLogRepository
	hasher          services.PasswordHasher
	tokenService    services.TokenService
	notificationSvc services.NotificationService
	locks           *accountLocks
	db              *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	hasher services.PasswordHasher,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		hasher:          hasher,
		tokenService:    tokenService,
		notificationSvc: notificationSvc,
		locks:           newAccountLocks(),
		db:              db,
	}
}

// Login authenticates a user with handle and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	lf.locks.lock(request.Handle)
	defer lf.locks.unlock(request.Handle)

	// Access validation runs outside the transaction: the failed-attempt
	// counter and the lockout must stay committed when the login errors out
	user, err := lf.validateAccess(ctx, request.Handle, request.Password, false)
	if err == nil {
		user.LastLoginAt = utils.UTCNowPtr()
		err = repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
			return lf.userRepo.Update(ctx, user)
		})
	}

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = lf.logAttempt(ctx, user, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in successfully: %d", user.ID)
	_ = lf.logAttempt(ctx, user, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return lf.buildLoginResponse(user)
}

// ActivationLogin authenticates a pending user and activates the account with
// the emailed code. The inactive check is skipped: the whole point is that the
// account is not active yet.
func (lf *LoginFlowImpl) ActivationLogin(ctx context.Context, request *dto.ActivationLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	lf.locks.lock(request.Handle)
	defer lf.locks.unlock(request.Handle)

	user, err := lf.activateAccount(ctx, request)

	if err != nil {
		errMsg := fmt.Sprintf("Activation login failed: %s", err.Error())
		_ = lf.logAttempt(ctx, user, models.AuditActionActivationFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("ACTIVATION_LOGIN_FAILED", "Activation login failed", err)
	}

	msg := fmt.Sprintf("User activated successfully: %d", user.ID)
	_ = lf.logAttempt(ctx, user, models.AuditActionActivationCompleted, msg, true, nil, metadata)

	return lf.buildLoginResponse(user)
}

// activateAccount verifies the credentials and the activation code. The
// punitive deactivation on a code mismatch is committed on its own before the
// error return; only the success-path update runs inside a transaction.
func (lf *LoginFlowImpl) activateAccount(ctx context.Context, request *dto.ActivationLoginRequest) (*models.User, error) {
	user, err := lf.validateAccess(ctx, request.Handle, request.Password, true)
	if err != nil {
		return user, err
	}

	if !user.ValidateActivationCode(request.ActivationCode) {
		if err := lf.userRepo.Update(ctx, user); err != nil {
			return user, err
		}
		return user, ErrInvalidActivationCode
	}

	err = repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		return lf.userRepo.Update(ctx, user)
	})
	return user, err
}

// NewPasswordLogin completes password recovery: the emailed validation code
// authorizes replacing the credentials and reactivates the account.
func (lf *LoginFlowImpl) NewPasswordLogin(ctx context.Context, request *dto.NewPasswordLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	lf.locks.lock(request.Handle)
	defer lf.locks.unlock(request.Handle)

	user, err := lf.resetPassword(ctx, request)

	if err != nil {
		errMsg := fmt.Sprintf("Password reset failed: %s", err.Error())
		_ = lf.logAttempt(ctx, user, models.AuditActionPasswordResetFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("PASSWORD_RESET_FAILED", "Password reset failed", err)
	}

	msg := fmt.Sprintf("Password reset completed successfully: %d", user.ID)
	_ = lf.logAttempt(ctx, user, models.AuditActionPasswordResetCompleted, msg, true, nil, metadata)

	return lf.buildLoginResponse(user)
}

// resetPassword verifies the validation code and replaces the credentials. As
// with activation, a wrong code deactivates the account and that write commits
// before the failure is reported.
func (lf *LoginFlowImpl) resetPassword(ctx context.Context, request *dto.NewPasswordLoginRequest) (*models.User, error) {
	user, err := lf.userRepo.ByHandle(ctx, request.Handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Same error as a wrong code: do not leak handle existence
		return nil, ErrInvalidValidationCode
	}

	if !models.PasswordStrong(request.NewPassword) {
		return user, ErrWeakPassword
	}

	if !user.ValidateValidationCode(request.ValidationCode) {
		if err := lf.userRepo.Update(ctx, user); err != nil {
			return user, err
		}
		return user, ErrInvalidValidationCode
	}

	salt := lf.hasher.NewSalt()
	hash, err := lf.hasher.Hash(request.NewPassword, salt)
	if err != nil {
		return user, fmt.Errorf("failed to hash password: %w", err)
	}
	user.SetCredentials(hash, salt)

	err = repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		return lf.userRepo.Update(ctx, user)
	})
	return user, err
}

// RequestPasswordReset issues a fresh validation code and emails it
func (lf *LoginFlowImpl) RequestPasswordReset(ctx context.Context, request *dto.PasswordResetRequest, metadata *ClientMetadata) error {
	user, err := lf.userRepo.ByEmail(ctx, request.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return NewBusinessError("PASSWORD_RESET_REQUEST_FAILED", "Password reset request failed", ErrUserNotFound)
	}

	user.GenerateValidationCode()
	if err := lf.userRepo.Update(ctx, user); err != nil {
		return NewBusinessError("PASSWORD_RESET_REQUEST_FAILED", "Password reset request failed", err)
	}

	if user.ValidationCode != nil {
		if err := lf.notificationSvc.SendValidationCode(user.Email, user.Name, *user.ValidationCode); err != nil {
			log.Printf("validation email failed for user %d: %v", user.ID, err)
		}
	}

	msg := fmt.Sprintf("Password reset requested: %d", user.ID)
	_ = lf.logAttempt(ctx, user, models.AuditActionPasswordResetRequested, msg, true, nil, metadata)

	return nil
}

// RequestReactivation issues a fresh activation code for an inactive account
func (lf *LoginFlowImpl) RequestReactivation(ctx context.Context, request *dto.ReactivationRequest, metadata *ClientMetadata) error {
	user, err := lf.userRepo.ByEmail(ctx, request.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return NewBusinessError("REACTIVATION_REQUEST_FAILED", "Reactivation request failed", ErrUserNotFound)
	}

	if utils.IsTrue(user.IsActive) {
		return NewBusinessError("REACTIVATION_REQUEST_FAILED", "Reactivation request failed", ErrAccountAlreadyActive)
	}

	if err := user.GenerateActivationCode(); err != nil {
		return NewBusinessError("REACTIVATION_REQUEST_FAILED", "Reactivation request failed", err)
	}
	if err := lf.userRepo.Update(ctx, user); err != nil {
		return NewBusinessError("REACTIVATION_REQUEST_FAILED", "Reactivation request failed", err)
	}

	if user.ActivationCode != nil {
		if err := lf.notificationSvc.SendActivationCode(user.Email, user.Name, *user.ActivationCode); err != nil {
			log.Printf("activation email failed for user %d: %v", user.ID, err)
		}
	}

	return nil
}

// ResendActivationCode re-sends a pending activation code without regenerating it
func (lf *LoginFlowImpl) ResendActivationCode(ctx context.Context, email string) error {
	user, err := lf.userRepo.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ActivationCode == nil || *user.ActivationCode == "" {
		return ErrNoActivationCode
	}

	return lf.notificationSvc.SendActivationCode(user.Email, user.Name, *user.ActivationCode)
}

// ResendValidationCode re-sends a pending validation code without regenerating it
func (lf *LoginFlowImpl) ResendValidationCode(ctx context.Context, email string) error {
	user, err := lf.userRepo.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ValidationCode == nil || *user.ValidationCode == "" {
		return ErrNoValidationCode
	}

	return lf.notificationSvc.SendValidationCode(user.Email, user.Name, *user.ValidationCode)
}

// validateAccess verifies handle and password, maintaining the failed-attempt
// counter and the lockout transition. It must not run inside a caller
// transaction: the counter and lockout writes commit immediately, so a failed
// login cannot roll them back. Unknown handle and wrong password produce the
// same error so responses cannot be used to enumerate handles.
func (lf *LoginFlowImpl) validateAccess(ctx context.Context, handle, password string, isActivationFlow bool) (*models.User, error) {
	user, err := lf.userRepo.ByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !isActivationFlow && !utils.IsTrue(user.IsActive) {
		return user, ErrAccountLocked
	}

	ok, err := lf.hasher.Verify(user.PasswordHash, password, user.PasswordSalt)
	if err != nil {
		return user, fmt.Errorf("failed to verify password: %w", err)
	}

	if !ok {
		if utils.IsTrue(user.IsActive) {
			lockedNow := user.RecordFailedAttempt()
			if err := lf.userRepo.Update(ctx, user); err != nil {
				return user, err
			}

			if lockedNow {
				if err := lf.userRepo.Deactivate(ctx, user.ID); err != nil {
					return user, err
				}
				return user, ErrAccountLockedNow
			}
		}
		return user, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		user.ResetFailedAttempts()
		if err := lf.userRepo.Update(ctx, user); err != nil {
			return user, err
		}
	}

	return user, nil
}

func (lf *LoginFlowImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Token generation failed", err)
	}

	return &dto.LoginResponse{
		User: ToUserInfo(*user),
		Session: dto.SessionInfo{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
		},
	}, nil
}

func (lf *LoginFlowImpl) logAttempt(ctx context.Context, user *models.User, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if user != nil {
		userID = &user.ID
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      &success,
		ErrorMessage: errMsg,
	}
	applyMetadata(audit, ctx, metadata)

	return lf.auditRepo.Save(ctx, audit)
}
