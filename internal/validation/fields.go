package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения полей профиля исполнителя.
const (
	MaxNameLength  = 50
	MaxEmailLength = 255
	MaxPhoneLength = 32
	MaxSkillLength = 50
	MaxSkillsCount = 50
)

var (
	emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// ValidateLength проверяет, что value не длиннее max символов.
func ValidateLength(label, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s cannot exceed %d characters", label, max)
	}
	return nil
}

// ValidateName проверяет имя или фамилию.
func ValidateName(label, name string) error {
	return ValidateLength(label, strings.TrimSpace(name), MaxNameLength)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return errors.New("Please provide a valid email")
	}
	return nil
}

// ValidatePhone допускает цифры, пробелы, дефисы, скобки и ведущий плюс.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) > MaxPhoneLength || !phoneRegex.MatchString(phone) {
		return errors.New("Please provide a valid phone number")
	}
	return nil
}

// ValidateSkills проверяет количество и длину навыков. Пустые значения
// пропускаются: их отбрасывает нормализация.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("Skills cannot contain more than %d entries", MaxSkillsCount)
	}
	for _, skill := range skills {
		if utf8.RuneCountInString(strings.TrimSpace(skill)) > MaxSkillLength {
			return fmt.Errorf("Skill cannot exceed %d characters", MaxSkillLength)
		}
	}
	return nil
}

// WorkerFields: проверяемые поля профиля. nil означает, что поле не меняется.
type WorkerFields struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Skills      []string
}

// Validate возвращает первую найденную ошибку формата.
func (f WorkerFields) Validate() error {
	if f.FirstName != nil {
		if err := ValidateName("First name", *f.FirstName); err != nil {
			return err
		}
	}
	if f.LastName != nil {
		if err := ValidateName("Last name", *f.LastName); err != nil {
			return err
		}
	}
	if f.Email != nil {
		if err := ValidateEmail(*f.Email); err != nil {
			return err
		}
	}
	if f.PhoneNumber != nil {
		if err := ValidatePhone(*f.PhoneNumber); err != nil {
			return err
		}
	}
	return ValidateSkills(f.Skills)
}
