// file: internals/features/scholarship/registrations/service/ranking.go
package service

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

// ClassifyResult derives the result state from exam-day facts.
// Not attended -> absent. Attended without marks -> pending (a valid
// intermediate state, excluded from ranking). Otherwise pass/fail against
// the passing threshold.
func ClassifyResult(hasAttended bool, marks *int, passingMarks int) model.RegistrationResult {
	if !hasAttended {
		return model.ResultAbsent
	}
	if marks == nil {
		return model.ResultPending
	}
	if *marks >= passingMarks {
		return model.ResultPass
	}
	return model.ResultFail
}

// AssignRanks orders the cohort by marks descending and writes rank +
// percentage in place. Standard competition ranking: tied marks share a
// rank and the following ranks are skipped. Ties are ordered by
// registration time then id so repeated runs are deterministic.
// Only entries with marks set belong in the cohort slice.
func AssignRanks(cohort []*model.ExamRegistration, totalMarks int) {
	sort.SliceStable(cohort, func(i, j int) bool {
		mi, mj := *cohort[i].RegistrationMarksObtained, *cohort[j].RegistrationMarksObtained
		if mi != mj {
			return mi > mj
		}
		ti, tj := cohort[i].RegistrationRegisteredAt, cohort[j].RegistrationRegisteredAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return cohort[i].RegistrationID.String() < cohort[j].RegistrationID.String()
	})

	for i, reg := range cohort {
		rank := i + 1
		if i > 0 && *reg.RegistrationMarksObtained == *cohort[i-1].RegistrationMarksObtained {
			rank = *cohort[i-1].RegistrationRank
		}
		reg.RegistrationRank = &rank

		pct := float64(*reg.RegistrationMarksObtained) / float64(totalMarks) * 100
		reg.RegistrationPercentage = &pct
	}
}

// RecomputeExamResults re-ranks the entire cohort of one exam and
// re-resolves reward eligibility. Full recomputation is the unit of
// consistency: the pass runs in one transaction under a per-exam advisory
// lock so concurrent result edits cannot interleave their passes.
func RecomputeExamResults(db *gorm.DB, examID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?::text))", examID.String()).Error; err != nil {
			return err
		}

		var exam examModel.ScholarshipExam
		if err := examModel.ScopeAlive(tx).
			First(&exam, "exam_id = ?", examID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Exam not found")
			}
			return err
		}

		var regs []model.ExamRegistration
		if err := model.ScopeAlive(tx).
			Where("registration_exam_id = ?", examID).
			Find(&regs).Error; err != nil {
			return err
		}

		tiers := exam.RewardTiers()

		ranked := make([]*model.ExamRegistration, 0, len(regs))
		for i := range regs {
			reg := &regs[i]
			reg.RegistrationResult = ClassifyResult(
				reg.RegistrationHasAttended,
				reg.RegistrationMarksObtained,
				exam.ExamPassingMarks,
			)
			if reg.RegistrationHasAttended && reg.RegistrationMarksObtained != nil {
				ranked = append(ranked, reg)
			} else {
				// rank/percentage are defined only for ranked registrants
				reg.RegistrationRank = nil
				reg.RegistrationPercentage = nil
				reg.RegistrationRewardEligible = false
				reg.RegistrationRewardSnapshot = nil
			}
		}

		AssignRanks(ranked, exam.ExamTotalMarks)

		for _, reg := range ranked {
			tier := ResolveEligibility(reg.RegistrationResult, *reg.RegistrationRank, tiers)
			reg.RegistrationRewardEligible = tier != nil
			if err := reg.SetRewardSnapshot(tier); err != nil {
				return err
			}
		}

		for i := range regs {
			reg := &regs[i]
			if err := tx.Model(&model.ExamRegistration{}).
				Where("registration_id = ?", reg.RegistrationID).
				Updates(map[string]interface{}{
					"registration_rank":            reg.RegistrationRank,
					"registration_percentage":      reg.RegistrationPercentage,
					"registration_result":          reg.RegistrationResult,
					"registration_reward_eligible": reg.RegistrationRewardEligible,
					"registration_reward_snapshot": reg.RegistrationRewardSnapshot,
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
