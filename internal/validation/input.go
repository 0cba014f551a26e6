package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength        = 3
	MaxUsernameLength        = 30
	MinItemNameLength        = 2
	MaxItemNameLength        = 200
	MinItemDescriptionLength = 5
	MaxItemDescriptionLength = 5000
	MaxItemFeaturesLength    = 2000
	MaxPhoneLength           = 15
	MaxDormitoryLength       = 100
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateItemName проверяет название вещи в заявке.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название вещи обязательно")
	}

	return ValidateLength("название вещи", strings.TrimSpace(name), MinItemNameLength, MaxItemNameLength)
}

// ValidateItemDescription проверяет описание вещи.
func ValidateItemDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("описание вещи обязательно")
	}

	return ValidateLength("описание вещи", strings.TrimSpace(description), MinItemDescriptionLength, MaxItemDescriptionLength)
}

// ValidateItemFeatures проверяет приметы вещи. Поле необязательное.
func ValidateItemFeatures(features string) error {
	return ValidateLength("приметы вещи", strings.TrimSpace(features), 0, MaxItemFeaturesLength)
}

// ValidatePhone проверяет номер телефона. Поле необязательное.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if err := ValidateLength("номер телефона", phone, 0, MaxPhoneLength); err != nil {
		return err
	}

	phoneRegex := regexp.MustCompile(`^\+?[0-9\- ]+$`)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("номер телефона содержит недопустимые символы")
	}

	return nil
}
