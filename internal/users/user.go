package users

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("invalid gender: %q", s)
}

type FitnessLevel string

const (
	FitnessLevelBeginner     FitnessLevel = "BEGINNER"
	FitnessLevelIntermediate FitnessLevel = "INTERMEDIATE"
	FitnessLevelAdvanced     FitnessLevel = "ADVANCED"
)

func ParseFitnessLevel(s string) (FitnessLevel, error) {
	switch l := FitnessLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case FitnessLevelBeginner, FitnessLevelIntermediate, FitnessLevelAdvanced:
		return l, nil
	}
	return "", fmt.Errorf("invalid fitness level: %q", s)
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// Password is accepted on input only, the repo stores PasswordHash.
	Password            string       `json:"password,omitempty"`
	PasswordHash        string       `json:"-"`
	Age                 *int         `json:"age,omitempty"`
	Height              *float64     `json:"height,omitempty"`
	Weight              *float64     `json:"weight,omitempty"`
	Gender              Gender       `json:"gender,omitempty"`
	FitnessLevel        FitnessLevel `json:"fitnessLevel,omitempty"`
	PrimaryGoal         string       `json:"primaryGoal,omitempty"`
	WeeklyWorkoutTarget *int         `json:"weeklyWorkoutTarget,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// UpdateRequest carries a partial update, nil fields are left untouched.
type UpdateRequest struct {
	Username            *string       `json:"username"`
	Email               *string       `json:"email"`
	Password            *string       `json:"password"`
	Age                 *int          `json:"age"`
	Height              *float64      `json:"height"`
	Weight              *float64      `json:"weight"`
	Gender              *Gender       `json:"gender"`
	FitnessLevel        *FitnessLevel `json:"fitnessLevel"`
	PrimaryGoal         *string       `json:"primaryGoal"`
	WeeklyWorkoutTarget *int          `json:"weeklyWorkoutTarget"`
}

func (u UpdateRequest) ApplyTo(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.Age != nil {
		user.Age = u.Age
	}
	if u.Height != nil {
		user.Height = u.Height
	}
	if u.Weight != nil {
		user.Weight = u.Weight
	}
	if u.Gender != nil {
		user.Gender = *u.Gender
	}
	if u.FitnessLevel != nil {
		user.FitnessLevel = *u.FitnessLevel
	}
	if u.PrimaryGoal != nil {
		user.PrimaryGoal = *u.PrimaryGoal
	}
	if u.WeeklyWorkoutTarget != nil {
		user.WeeklyWorkoutTarget = u.WeeklyWorkoutTarget
	}
}
