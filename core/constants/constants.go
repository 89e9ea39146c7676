package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Timeouts
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist    = "token:blacklist:"
	RedisKeyRegistrationCount = "event:regcount:"
	RedisKeyPasswordReset     = "password:reset:"
)

// PasswordResetTokenTTL bounds how long an emailed reset token stays valid.
const PasswordResetTokenTTL = 15 * time.Minute

// RegistrationCountTTL bounds the staleness of the cached per-event
// registration counter shown to students. The database stays authoritative.
const RegistrationCountTTL = 15 * time.Second

// User roles
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Scheduler defaults (minutes since local midnight). Overridable via config.
const (
	SchedulerWorkingHoursStart = 9 * 60  // 09:00
	SchedulerWorkingHoursEnd   = 18 * 60 // 18:00
	SchedulerMinGapMinutes     = 60
	SchedulerMaxSuggestions    = 3
)
