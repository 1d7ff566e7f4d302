package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmailWellKnownProvider(t *testing.T) {
	res := ValidateEmail("john.doe@gmail.com")

	assert.True(t, res.IsValid)
	assert.Equal(t, LevelValid, res.Level)
	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.Issues)
}

func TestValidateEmailEmpty(t *testing.T) {
	res := ValidateEmail("")

	assert.False(t, res.IsValid)
	assert.Equal(t, LevelError, res.Level)
	assert.Contains(t, res.Issues, "Email is required")
}

func TestValidateEmailTooShortAndTooLong(t *testing.T) {
	res := ValidateEmail("a@b")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Issues, "Email is too short")

	long := strings.Repeat("a", 250) + "@example.com"
	res = ValidateEmail(long)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Issues, "Email is too long (max 254 characters)")
}

func TestValidateEmailBadFormat(t *testing.T) {
	for _, email := range []string{"plainaddress", "user@@example.com", "user @example.com", "user@.com"} {
		res := ValidateEmail(email)
		assert.False(t, res.IsValid, email)
		assert.Equal(t, LevelError, res.Level, email)
	}
}

func TestValidateEmailDisposableDomain(t *testing.T) {
	res := ValidateEmail("someone@mailinator.com")

	assert.False(t, res.IsValid)
	assert.Equal(t, LevelError, res.Level)
	assert.Contains(t, res.Issues, "Temporary/disposable email addresses are not allowed")
}

func TestValidateEmailTypoSuggestion(t *testing.T) {
	res := ValidateEmail("user@gmial.com")

	// A typo costs points but does not hard-fail the address.
	assert.True(t, res.IsValid)
	assert.Equal(t, 80, res.Score)
	assert.Contains(t, res.Suggestions, "Did you mean user@gmail.com?")
}

func TestValidateEmailWarningLevel(t *testing.T) {
	// Long local part (no length bonus) plus a typo domain lands between
	// the warning and valid thresholds.
	res := ValidateEmail("verylongusernameabcdefgh@gmial.com")

	assert.True(t, res.IsValid)
	assert.Equal(t, LevelWarning, res.Level)
	assert.Equal(t, 70, res.Score)
}

func TestValidateEmailConsecutiveDots(t *testing.T) {
	res := ValidateEmail("user..name@example.com")

	assert.False(t, res.IsValid)
	assert.Contains(t, res.Issues, "Email cannot contain consecutive dots")
}

func TestValidateEmailSpecialCharacterPenalty(t *testing.T) {
	res := ValidateEmail("a.b.c@gmail.com")

	assert.True(t, res.IsValid)
	assert.Contains(t, res.Suggestions, "Consider using fewer special characters")
}

func TestValidateEmailBusinessDomainBonus(t *testing.T) {
	res := ValidateEmail("user@mail.example.com")

	assert.True(t, res.IsValid)
	assert.Equal(t, 100, res.Score)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "johndoe@gmail.com", NormalizeEmail("John.Doe+news@gmail.com"))
	assert.Equal(t, "johndoe@gmail.com", NormalizeEmail("john.doe@googlemail.com"))
	assert.Equal(t, "user.name+tag@example.com", NormalizeEmail("User.Name+tag@Example.com"))
	assert.Equal(t, "noatsign", NormalizeEmail("noatsign"))
}

func TestSupportsPlusAddressing(t *testing.T) {
	assert.True(t, SupportsPlusAddressing("user@gmail.com"))
	assert.True(t, SupportsPlusAddressing("user@Outlook.com"))
	assert.False(t, SupportsPlusAddressing("user@example.com"))
	assert.False(t, SupportsPlusAddressing("not-an-email"))
}

func TestQuickValidate(t *testing.T) {
	assert.True(t, QuickValidate("user@example.com"))
	assert.False(t, QuickValidate(""))
	assert.False(t, QuickValidate("user@nodot"))
	assert.False(t, QuickValidate("no at sign.com"))
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "Email looks great!", ValidationMessage(ValidateEmail("john.doe@gmail.com")))
	assert.Equal(t, "Email is required", ValidationMessage(ValidateEmail("")))

	warning := ValidateEmail("verylongusernameabcdefgh@gmial.com")
	assert.Contains(t, ValidationMessage(warning), "Did you mean")
}
