package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/services"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	"gorm.io/gorm"
)

// SignupFlow handles user registration
type SignupFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo        repository.UserRepository
	auditRepo       repository.AuditLogRepository
	hasher          services.PasswordHasher
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	hasher services.PasswordHasher,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		hasher:          hasher,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// Signup registers a new user in the pending-activation state and emails the
// activation code. The account stays inactive until an activation login.
func (sf *SignupFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	if err := sf.validateSignupRequest(ctx, request); err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	var user *models.User

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		salt := sf.hasher.NewSalt()
		hash, err := sf.hasher.Hash(request.Password, salt)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user = &models.User{
			UUID:         uuid.New(),
			Name:         request.Name,
			Handle:       request.Handle,
			Email:        request.Email,
			PasswordHash: hash,
			PasswordSalt: salt,
			Role:         models.RoleStandard,
		}
		user.Deactivate()

		if err := user.GenerateActivationCode(); err != nil {
			return fmt.Errorf("failed to generate activation code: %w", err)
		}

		if err := sf.userRepo.Save(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) || isDuplicateKey(err) {
				return duplicateSignupError(err)
			}
			return err
		}

		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed: %s", err.Error())
		_ = sf.logSignupAttempt(ctx, user, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	// Fire-and-forget: the account is committed even if the email never leaves
	if user.ActivationCode != nil {
		if err := sf.notificationSvc.SendActivationCode(user.Email, user.Name, *user.ActivationCode); err != nil {
			log.Printf("activation email failed for user %d: %v", user.ID, err)
		}
	}

	msg := fmt.Sprintf("User registered successfully: %d", user.ID)
	_ = sf.logSignupAttempt(ctx, user, msg, true, nil, metadata)

	return &dto.SignupResponse{User: ToUserInfo(*user)}, nil
}

// duplicateSignupError maps a unique violation that raced past the pre-checks
// to the conflict matching the index that rejected the insert. An unrecognized
// constraint falls back to the handle conflict.
func duplicateSignupError(err error) error {
	if strings.Contains(repository.UniqueViolationConstraint(err), "email") {
		return ErrEmailAlreadyExists
	}
	return ErrHandleAlreadyExists
}

func (sf *SignupFlowImpl) validateSignupRequest(ctx context.Context, request *dto.SignupRequest) error {
	if !models.EmailValid(request.Email) {
		return ErrInvalidEmailFormat
	}
	if !models.PasswordStrong(request.Password) {
		return ErrWeakPassword
	}

	// Pre-checks for friendly errors; the unique indexes stay authoritative
	existing, err := sf.userRepo.ByHandle(ctx, request.Handle)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrHandleAlreadyExists
	}

	existing, err = sf.userRepo.ByEmail(ctx, request.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	return nil
}

func (sf *SignupFlowImpl) logSignupAttempt(ctx context.Context, user *models.User, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if user != nil && user.ID != 0 {
		userID = &user.ID
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       models.AuditActionSignupCompleted,
		Description:  &description,
		Success:      &success,
		ErrorMessage: errMsg,
	}
	applyMetadata(audit, ctx, metadata)

	return sf.auditRepo.Save(ctx, audit)
}
