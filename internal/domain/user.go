package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidPreferences  = errors.New("invalid user preferences")
)

// Preference defaults applied when a user has not configured their own.
const (
	DefaultPomodoroMinutes     = 25
	DefaultReminderLeadMinutes = 1440
	DefaultReminderHour        = 9
)

// Preferences holds per-user coaching settings. Zero values mean "use
// the default", so a freshly registered user needs no preference row.
type Preferences struct {
	PomodoroMinutes     int    `json:"pomodoro_minutes,omitempty"`
	ReminderLeadMinutes int    `json:"reminder_lead_minutes,omitempty"`
	Timezone            string `json:"timezone,omitempty"`
}

// EffectivePomodoroMinutes returns the configured session length, or the
// default when unset.
func (p Preferences) EffectivePomodoroMinutes() int {
	if p.PomodoroMinutes > 0 {
		return p.PomodoroMinutes
	}
	return DefaultPomodoroMinutes
}

// EffectiveReminderLeadMinutes returns how far ahead of a due time a
// reminder should fire, or the default when unset.
func (p Preferences) EffectiveReminderLeadMinutes() int {
	if p.ReminderLeadMinutes > 0 {
		return p.ReminderLeadMinutes
	}
	return DefaultReminderLeadMinutes
}

// Validate checks that any configured preference is in range.
func (p Preferences) Validate() error {
	if p.PomodoroMinutes < 0 || p.ReminderLeadMinutes < 0 {
		return ErrInvalidPreferences
	}
	return nil
}

// User represents a registered student of the coaching application.
// It contains essential user information and authentication details.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	DisplayName    string      `json:"display_name,omitempty"`
	Password       string      `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string      `json:"-"` // Never expose password hash in JSON
	Preferences    Preferences `json:"preferences"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// During user creation/update we need to validate the provided password
	if u.Password != "" {
		if !validatePasswordLength(u.Password) {
			if len(u.Password) < 12 {
				return ErrPasswordTooShort
			}
			return ErrPasswordTooLong
		}
	} else {
		// When no plaintext password is provided, the user must have a hashed
		// password (existing users loaded from the database).
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
	}

	return u.Preferences.Validate()
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	// Must contain an @ that is neither first nor last
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Domain part needs an interior dot
	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

// validatePasswordLength checks that a password is between 12 and 72
// characters. 72 is bcrypt's practical limit. Length is favored over
// character-class rules.
func validatePasswordLength(password string) bool {
	passLen := len(password)
	return passLen >= 12 && passLen <= 72
}
