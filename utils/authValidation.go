package utils

import (
	"RadCase/models"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidRole        = errors.New("role must be technician or doctor")
)

// ValidateSignup validates a new account's fields using ozzo-validation.
func ValidateSignup(user models.User) error {
	return validation.ValidateStruct(&user,
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.FullName, validation.Required, validation.Length(2, 255)),
		validation.Field(&user.Role, validation.Required, validation.By(validateRole)),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(ValidatePassword)),
	)
}

// ValidateProfileUpdate validates the mutable profile fields.
func ValidateProfileUpdate(fullName, email, mobileNumber string) error {
	return validation.Errors{
		"full_name":     validation.Validate(fullName, validation.Required, validation.Length(2, 255)),
		"email":         validation.Validate(email, validation.Required, is.Email),
		"mobile_number": validation.Validate(mobileNumber, validation.Length(0, 30)),
	}.Filter()
}

// ValidateNewCase checks the scalar case-creation fields.
func ValidateNewCase(patientName, patientID, studyType, assignedTo string) error {
	return validation.Errors{
		"patient_name": validation.Validate(patientName, validation.Required),
		"patient_id":   validation.Validate(patientID, validation.Required),
		"study_type":   validation.Validate(studyType, validation.Required),
		"assigned_to":  validation.Validate(assignedTo, validation.Required, is.UUIDv4),
	}.Filter()
}

func validateRole(value interface{}) error {
	role, _ := value.(string)
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword checks the password for length and complexity.
func ValidatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
