// file: internals/features/scholarship/registrations/service/intake.go
package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

const tempPasswordLen = 10

// RegisterInput is the public registration payload after DTO validation.
type RegisterInput struct {
	StudentName  string
	Email        string
	Phone        string
	GuardianName *string
	Address      *string
	CurrentClass *string
	School       *string
	CustomFields datatypes.JSON
}

// GenerateRegistrationNumber issues <EXAMCODE>-<5-digit seq> for the exam.
// Counts soft-deleted rows too so numbers are never reissued. Callers
// must serialize per exam (the register transaction takes an advisory
// lock).
func GenerateRegistrationNumber(tx *gorm.DB, exam *examModel.ScholarshipExam) (string, error) {
	var count int64
	if err := tx.Unscoped().
		Model(&model.ExamRegistration{}).
		Where("registration_exam_id = ?", exam.ExamID).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", exam.ExamCode, count+1), nil
}

// usernameBase lowercases the email local part and strips everything
// that is not a letter or digit.
func usernameBase(email string) string {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "student"
	}
	return base
}

// GenerateUsername derives a portal username from the email local part,
// deduplicating with a numeric suffix.
func GenerateUsername(tx *gorm.DB, email string) (string, error) {
	base := usernameBase(email)

	candidate := base
	for i := 1; ; i++ {
		var n int64
		if err := tx.Unscoped().
			Model(&model.ExamRegistration{}).
			Where("registration_username = ?", candidate).
			Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// generateTempPassword returns a random alphanumeric password.
func generateTempPassword() (string, error) {
	const alphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"
	var sb strings.Builder
	for i := 0; i < tempPasswordLen; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[idx.Int64()])
	}
	return sb.String(), nil
}

// Register creates a public exam registration: checks the window,
// rejects duplicate email/phone within the exam, issues the
// registration number and portal credentials. Returns the row and the
// plaintext temp password (shown once, only the hash is stored).
func Register(db *gorm.DB, exam *examModel.ScholarshipExam, in RegisterInput) (*model.ExamRegistration, string, error) {
	now := time.Now()
	if now.Before(exam.ExamRegistrationStart) {
		return nil, "", fiber.NewError(fiber.StatusConflict, "Registration has not opened yet")
	}
	if now.After(exam.ExamRegistrationEnd) {
		return nil, "", fiber.NewError(fiber.StatusConflict, "Registration is closed")
	}
	if exam.ExamStatus != examModel.ExamStatusActive {
		return nil, "", fiber.NewError(fiber.StatusConflict, "Exam is not open for registration")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var reg *model.ExamRegistration
	err = db.Transaction(func(tx *gorm.DB) error {
		// Serialize number generation per exam.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?::text))", exam.ExamID.String()).Error; err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&model.ExamRegistration{}).
			Where("registration_exam_id = ? AND registration_deleted_at IS NULL", exam.ExamID).
			Where("registration_email = ? OR registration_phone = ?", in.Email, in.Phone).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict, "Already registered with this email or phone")
		}

		number, err := GenerateRegistrationNumber(tx, exam)
		if err != nil {
			return err
		}
		username, err := GenerateUsername(tx, in.Email)
		if err != nil {
			return err
		}

		hashStr := string(hash)
		reg = &model.ExamRegistration{
			RegistrationTenantID:     exam.ExamTenantID,
			RegistrationExamID:       exam.ExamID,
			RegistrationNumber:       number,
			RegistrationStudentName:  in.StudentName,
			RegistrationEmail:        in.Email,
			RegistrationPhone:        in.Phone,
			RegistrationGuardianName: in.GuardianName,
			RegistrationAddress:      in.Address,
			RegistrationCurrentClass: in.CurrentClass,
			RegistrationSchool:       in.School,
			RegistrationCustomFields: in.CustomFields,
			RegistrationUsername:     &username,
			RegistrationPasswordHash: &hashStr,
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return nil, "", fe
		}
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return reg, tempPassword, nil
}
