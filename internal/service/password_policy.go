package service

import (
	"unicode"

	"github.com/sabor-next/internal/config"
)

// validatePassword 按策略校验密码强度
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber {
		return nil
	}

	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return ErrPasswordPolicy
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return ErrPasswordPolicy
	}
	if policy.RequireLower && !hasLower {
		return ErrPasswordPolicy
	}
	if policy.RequireNumber && !hasNumber {
		return ErrPasswordPolicy
	}
	return nil
}
