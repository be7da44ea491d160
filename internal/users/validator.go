package users

import (
	"regexp"
	"strings"
)

const (
	minAge = 13
	maxAge = 120
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

func ValidateNew(user User) error {
	var problems []string
	if strings.TrimSpace(user.Username) == "" {
		problems = append(problems, "Username is required")
	}
	if !emailRegex.MatchString(user.Email) {
		problems = append(problems, "Invalid email format")
	}
	if user.Password == "" {
		problems = append(problems, "Password is required")
	}
	problems = append(problems, validateCommon(user.Age, user.Gender, user.FitnessLevel)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func ValidateUpdate(req UpdateRequest) error {
	var problems []string
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		problems = append(problems, "Username cannot be blank")
	}
	if req.Email != nil && !emailRegex.MatchString(*req.Email) {
		problems = append(problems, "Invalid email format")
	}
	var gender Gender
	if req.Gender != nil {
		gender = *req.Gender
	}
	var level FitnessLevel
	if req.FitnessLevel != nil {
		level = *req.FitnessLevel
	}
	problems = append(problems, validateCommon(req.Age, gender, level)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateCommon(age *int, gender Gender, level FitnessLevel) []string {
	var problems []string
	if age != nil && (*age < minAge || *age > maxAge) {
		problems = append(problems, "Age must be between 13 and 120")
	}
	if gender != "" {
		if _, err := ParseGender(string(gender)); err != nil {
			problems = append(problems, "Invalid gender")
		}
	}
	if level != "" {
		if _, err := ParseFitnessLevel(string(level)); err != nil {
			problems = append(problems, "Invalid fitness level")
		}
	}
	return problems
}
