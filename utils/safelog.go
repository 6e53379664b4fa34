// utils/safelog.go
// ============================================================================
// SAFE LOGGING - Masks personal data in production logs
// ============================================================================
// Journal titles, emails and earnings amounts are personal data. These
// helpers mask them whenever the server runs in release mode.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
)

var (
	// IsProduction controls whether sensitive data is masked.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// MaskID shortens an identifier to its first 8 characters.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// MaskEmail masks an email address.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// MaskAmount masks an earnings amount.
func MaskAmount(amount float64) string {
	if IsProduction {
		return "***"
	}
	return fmt.Sprintf("%.2f", amount)
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// LogAuthAction logs an authentication attempt without leaking the email
// in production.
func LogAuthAction(action string, email string, success bool) {
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	log.Printf("[Auth] %s - Email: %s Status: %s", action, MaskEmail(email), status)
}

// LogTimerAction logs a timer start/stop without exposing earnings.
func LogTimerAction(action string, userID string, categoryID string, earnings float64) {
	log.Printf("[MBB] %s - User: %s Category: %s Earnings: %s",
		action, MaskID(userID), MaskID(categoryID), MaskAmount(earnings))
}

// LogImport logs a CSV batch import outcome.
func LogImport(userID string, imported, updated, skipped int) {
	log.Printf("[Import] User: %s Imported: %d Updated: %d Skipped: %d",
		MaskID(userID), imported, updated, skipped)
}
