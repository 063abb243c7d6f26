// internal/utils/validation.go
package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/constants"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator with custom validations
func InitValidator() {
	// Create a new validator instance
	validate = validator.New()

	// Register function to get json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations(validate)

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct
// with improved error handling and size limits
func DecodeJSON(r *http.Request, v interface{}) error {
	// Limit the size of the request body to prevent DOS attacks
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case err.Error() == "http: request body too large":
			return NewBadRequestError(constants.MsgRequestBodyTooLarge)

		case err == io.EOF:
			return NewBadRequestError(constants.MsgEmptyRequestBody)

		case err == io.ErrUnexpectedEOF:
			return NewBadRequestError(constants.MsgMalformedJSON)

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return NewValidationError("unknown_field", fmt.Sprintf("Request body contains unknown field %s", fieldName))

		case errors.As(err, &syntaxError):
			return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

		case errors.As(err, &invalidUnmarshalError):
			return NewInternalServerError(err)

		default:
			return NewBadRequestError(fmt.Sprintf("Error decoding JSON: %s", err.Error()))
		}
	}

	// Check for additional JSON data that would be ignored
	if dec.More() {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(v interface{}) error {
	if validate == nil {
		InitValidator()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	// Handle validation errors
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		// If only one field has an error, return a specific field error
		if len(validationErrors) == 1 {
			e := validationErrors[0]
			fieldName := e.Field()
			errorMessage := getErrorMessage(e)
			return NewValidationError(fieldName, errorMessage)
		}

		// Create a validation error with details for all fields
		details := make(map[string]string)
		for _, e := range validationErrors {
			fieldName := e.Field()
			errorMessage := getErrorMessage(e)
			details[fieldName] = errorMessage
		}

		return NewValidationErrorWithDetails("Multiple validation errors", details)
	}

	// Handle other validation errors
	return NewBadRequestError(err.Error())
}

// DecodeAndValidate decodes a JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateStruct(v)
}

// getErrorMessage returns a user-friendly error message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "oneof":
		allowedValues := strings.Replace(e.Param(), " ", ", ", -1)
		return fmt.Sprintf("Must be one of: %s", allowedValues)
	case "alphanum":
		return "Must contain only alphanumeric characters"
	case "url":
		return "Must be a valid URL"
	case "idea_tag":
		return fmt.Sprintf("Must be one of: %s", strings.Join(constants.IdeaTags, ", "))
	case "social_provider":
		return fmt.Sprintf("Must be one of: %s", strings.Join(constants.SocialLinkProviders, ", "))
	default:
		return fmt.Sprintf("Failed validation on the '%s' tag", e.Tag())
	}
}

// registerCustomValidations adds custom validation functions to the validator
func registerCustomValidations(v *validator.Validate) {
	if err := v.RegisterValidation("idea_tag", validateIdeaTag); err != nil {
		log.Error().Err(err).Msg("Failed to register idea_tag validation")
	}
	if err := v.RegisterValidation("social_provider", validateSocialProvider); err != nil {
		log.Error().Err(err).Msg("Failed to register social_provider validation")
	}
}

// validateIdeaTag accepts an empty tag or one of the fixed tag values
func validateIdeaTag(fl validator.FieldLevel) bool {
	tag := fl.Field().String()
	if tag == "" {
		return true
	}
	for _, t := range constants.IdeaTags {
		if tag == t {
			return true
		}
	}
	return false
}

// validateSocialProvider accepts one of the supported social providers
func validateSocialProvider(fl validator.FieldLevel) bool {
	provider := fl.Field().String()
	for _, p := range constants.SocialLinkProviders {
		if provider == p {
			return true
		}
	}
	return false
}

// NewValidationErrorWithDetails creates a validation error with multiple field details
func NewValidationErrorWithDetails(message string, details map[string]string) *AppError {
	detailsMap := make(map[string]interface{})
	for k, v := range details {
		detailsMap[k] = v
	}

	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Details:    detailsMap,
	}
}

// IsValidEmail checks if a string is a valid email address
func IsValidEmail(email string) bool {
	return GetValidator().Var(email, "email") == nil
}

// ValidateAccountID validates a profile handle. Lengths are measured in
// runes, matching the min/max validator tags on the request models.
func ValidateAccountID(accountID string) error {
	length := utf8.RuneCountInString(accountID)
	if length < constants.MinAccountIDLength {
		return NewValidationError("account_id", fmt.Sprintf("Account ID must be at least %d characters long", constants.MinAccountIDLength))
	}
	if length > constants.MaxAccountIDLength {
		return NewValidationError("account_id", fmt.Sprintf("Account ID must be at most %d characters long", constants.MaxAccountIDLength))
	}
	return nil
}

// ValidateNickname validates a display name. Lengths are measured in runes
// so multibyte names are bounded the same way as ASCII ones.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	length := utf8.RuneCountInString(trimmed)
	if length < constants.MinNicknameLength {
		return NewValidationError("nickname", "Nickname must not be empty")
	}
	if length > constants.MaxNicknameLength {
		return NewValidationError("nickname", fmt.Sprintf("Nickname must be at most %d characters long", constants.MaxNicknameLength))
	}
	return nil
}

// ValidatePassword validates a password
func ValidatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return NewWeakPasswordError(fmt.Sprintf("Password must be at least %d characters long", constants.MinPasswordLength))
	}
	return nil
}

// ValidateAvatar validates an avatar reference. An avatar may be empty, an
// http(s) URL, or an inline data URL carrying a base64 image payload.
func ValidateAvatar(avatar string) error {
	if avatar == "" {
		return nil
	}

	if strings.HasPrefix(avatar, "http://") || strings.HasPrefix(avatar, "https://") {
		if err := GetValidator().Var(avatar, "url"); err != nil {
			return NewInvalidImageError("avatar", "not a valid URL")
		}
		return nil
	}

	if !strings.HasPrefix(avatar, "data:image/") {
		return NewInvalidImageError("avatar", "must be an image URL or an image data URL")
	}

	idx := strings.Index(avatar, ";base64,")
	if idx < 0 {
		return NewInvalidImageError("avatar", "data URL must carry base64 content")
	}

	payload := avatar[idx+len(";base64,"):]
	if payload == "" {
		return NewInvalidImageError("avatar", "data URL payload is empty")
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return NewInvalidImageError("avatar", "data URL payload is not valid base64")
	}
	if len(decoded) > constants.MaxAvatarBytes {
		return NewInvalidImageError("avatar", fmt.Sprintf("image exceeds the %d byte limit", constants.MaxAvatarBytes))
	}

	return nil
}
