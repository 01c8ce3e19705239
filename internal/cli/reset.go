package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/flowlog/internal/db"
	"github.com/terraincognita07/flowlog/internal/models"
	"github.com/terraincognita07/flowlog/internal/security"
	"github.com/terraincognita07/flowlog/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 16

type PasswordStore interface {
	FindByNormalizedEmail(email string) (models.User, error)
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

type ResetOptions struct {
	Email string
	// Prompt asks for the new password on the terminal instead of issuing a
	// temporary one.
	Prompt bool
}

// passwordReader returns one line typed by the operator.
type passwordReader func(label string) (string, error)

func RunResetPasswordCommand(dbPath string, options ResetOptions, out io.Writer) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	read := func(label string) (string, error) {
		fmt.Fprint(out, label)
		value, err := readPasswordNoEcho(os.Stdin)
		fmt.Fprintln(out)
		return string(value), err
	}
	return resetPassword(db.NewUserRepository(database), options, read, out)
}

func resetPassword(users PasswordStore, options ResetOptions, read passwordReader, out io.Writer) error {
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return errors.New("a valid email is required")
	}

	user, err := users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	password, mustChange, err := chooseNewPassword(options.Prompt, read)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, string(passwordHash), mustChange); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", email)
	if mustChange {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
		fmt.Fprintln(out, "The user must change it on next login.")
	}
	return nil
}

func chooseNewPassword(prompt bool, read passwordReader) (string, bool, error) {
	if !prompt {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	password, err := read("New password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	confirmation, err := read("Repeat password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	// Login trims the password, so the stored hash must be of the trimmed value.
	password = strings.TrimSpace(password)
	if password != strings.TrimSpace(confirmation) {
		return "", false, errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", false, fmt.Errorf("password rejected: %w", err)
	}
	return password, false, nil
}
