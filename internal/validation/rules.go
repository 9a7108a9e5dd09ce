package validation

import (
	"regexp"
	"strings"
)

// Errors is a per-field validation record. Fields without problems carry no
// key; an empty record means the form may be submitted.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

const (
	MaxIDUploadBytes    = 5 * 1024 * 1024
	MaxReportImageBytes = 10 * 1024 * 1024
	MaxReportImages     = 5
)

func checkFullName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Full name is required"
	}
	if len(trimmed) < 2 || len(trimmed) > 255 {
		return "Name must be between 2-255 characters"
	}
	return ""
}

func checkEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(trimmed) {
		return "Please enter a valid email address"
	}
	if len(trimmed) > 255 {
		return "Email must not exceed 255 characters"
	}
	return ""
}

func checkPassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}
	if !passwordLower.MatchString(password) ||
		!passwordUpper.MatchString(password) ||
		!passwordDigit.MatchString(password) ||
		!passwordSpecial.MatchString(password) {
		return "Must include uppercase, lowercase, number & special character"
	}
	return ""
}

// checkPhone validates an Indian mobile number after stripping spaces and dashes.
func checkPhone(phone string) string {
	if phone == "" {
		return "Phone number is required"
	}
	stripped := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !phonePattern.MatchString(stripped) {
		return "Please enter a valid 10-digit mobile number"
	}
	return ""
}

// NormalizePhone strips the separators accepted by checkPhone.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(phone)
}
