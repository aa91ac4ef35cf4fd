// Package models contains domain entities and business models for the game store platform
package models

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playvault/game-store/utils"
)

// User roles
const (
	RoleStandard      = "standard"
	RoleAdministrator = "administrator"
)

type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	Name   string `gorm:"size:255;not null" json:"name"`
	Handle string `gorm:"size:60;not null;uniqueIndex:uk_users_handle" json:"handle"`
	Email  string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`

	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize credentials
	PasswordSalt string `gorm:"size:64;not null" json:"-"`

	Role string `gorm:"size:20;not null;default:'standard';index:idx_users_role" json:"role"`

	// Security state
	FailedLoginAttempts int     `gorm:"not null;default:0" json:"-"`
	ActivationCode      *string `gorm:"size:8" json:"-"`
	ValidationCode      *string `gorm:"size:36" json:"-"`

	IsActive *bool `gorm:"default:false;index:idx_users_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Handle        *string
	Email         *string
	Role          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

func (u *User) MakeAdministrator() {
	u.Role = RoleAdministrator
}

func (u *User) MakeStandard() {
	u.Role = RoleStandard
}

func (u *User) Activate() {
	u.IsActive = utils.ToPtr(true)
}

func (u *User) Deactivate() {
	u.IsActive = utils.ToPtr(false)
}

// IsLocked reports whether the account was deactivated by the failed-attempt threshold
func (u *User) IsLocked() bool {
	return !utils.IsTrue(u.IsActive) && u.FailedLoginAttempts >= utils.MaxLoginAttempts
}

// RecordFailedAttempt increments the failed-login counter and deactivates the
// account once the threshold is reached. The counter is deliberately left at the
// triggering value so the lockout cause stays visible. Returns true when this
// attempt tripped the lockout.
func (u *User) RecordFailedAttempt() bool {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= utils.MaxLoginAttempts {
		u.Deactivate()
		return true
	}
	return false
}

// ResetFailedAttempts zeroes the failed-login counter
func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

// SetCredentials replaces the stored hash and salt. Activation state is untouched.
func (u *User) SetCredentials(hash, salt string) {
	u.PasswordHash = hash
	u.PasswordSalt = salt
}

// GenerateActivationCode assigns a fresh 8-character code drawn from A-Z0-9
func (u *User) GenerateActivationCode() error {
	code, err := NewActivationCode()
	if err != nil {
		return err
	}
	u.ActivationCode = &code
	return nil
}

// ValidateActivationCode checks the candidate against the stored activation code.
// A match clears the code, activates the account and resets the failed-login
// counter. Any mismatch, including an empty candidate, deactivates the account:
// every wrong code is treated as hostile, so a legitimate typo locks the
// account too. See the usability note in the tests.
func (u *User) ValidateActivationCode(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		u.Deactivate()
		return false
	}

	if u.ActivationCode != nil && *u.ActivationCode == candidate {
		u.ActivationCode = nil
		u.ResetFailedAttempts()
		u.Activate()
		return true
	}

	u.Deactivate()
	return false
}

// GenerateValidationCode assigns a fresh upper-cased canonical token for password recovery
func (u *User) GenerateValidationCode() {
	code := NewValidationCode()
	u.ValidationCode = &code
}

// ValidateValidationCode checks the candidate against the stored validation code.
// A candidate that does not parse as a canonical token deactivates and fails;
// match/mismatch semantics otherwise follow ValidateActivationCode.
func (u *User) ValidateValidationCode(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		u.Deactivate()
		return false
	}

	if _, err := uuid.Parse(candidate); err != nil {
		u.Deactivate()
		return false
	}

	if u.ValidationCode != nil && *u.ValidationCode == candidate {
		u.ValidationCode = nil
		u.ResetFailedAttempts()
		u.Activate()
		return true
	}

	u.Deactivate()
	return false
}

// NewActivationCode produces an 8-character code drawn uniformly from A-Z0-9
func NewActivationCode() (string, error) {
	alphabet := utils.ActivationCodeAlphabet
	code := make([]byte, utils.ActivationCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}

// NewValidationCode produces an upper-cased hyphenated 128-bit random token
func NewValidationCode() string {
	return strings.ToUpper(uuid.New().String())
}

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	letterPattern  = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?"{}|<>]`)
)

// EmailValid reports whether the address has a plausible mailbox@domain.tld shape
func EmailValid(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// PasswordStrong requires at least one letter, one digit and one special character
func PasswordStrong(password string) bool {
	if strings.TrimSpace(password) == "" {
		return false
	}
	return letterPattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}
