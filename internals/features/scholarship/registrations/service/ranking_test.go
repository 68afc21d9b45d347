// file: internals/features/scholarship/registrations/service/ranking_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

func newRankedReg(marks int, registeredAt time.Time) *model.ExamRegistration {
	return &model.ExamRegistration{
		RegistrationID:            uuid.New(),
		RegistrationHasAttended:   true,
		RegistrationMarksObtained: &marks,
		RegistrationRegisteredAt:  registeredAt,
	}
}

func TestClassifyResult(t *testing.T) {
	marks := func(n int) *int { return &n }

	tests := []struct {
		name        string
		hasAttended bool
		marks       *int
		want        model.RegistrationResult
	}{
		{"not attended", false, nil, model.ResultAbsent},
		{"not attended with stale marks", false, marks(80), model.ResultAbsent},
		{"attended without marks", true, nil, model.ResultPending},
		{"marks at threshold", true, marks(40), model.ResultPass},
		{"marks above threshold", true, marks(95), model.ResultPass},
		{"marks below threshold", true, marks(39), model.ResultFail},
		{"zero marks", true, marks(0), model.ResultFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyResult(tt.hasAttended, tt.marks, 40)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssignRanks_CompetitionRanking(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cohort := []*model.ExamRegistration{
		newRankedReg(70, base),
		newRankedReg(90, base.Add(1*time.Minute)),
		newRankedReg(85, base.Add(2*time.Minute)),
		newRankedReg(85, base.Add(3*time.Minute)),
	}

	AssignRanks(cohort, 100)

	// sorted by marks desc
	require.Equal(t, 90, *cohort[0].RegistrationMarksObtained)
	assert.Equal(t, 1, *cohort[0].RegistrationRank)

	// tied marks share the rank, the next distinct mark skips it
	assert.Equal(t, 2, *cohort[1].RegistrationRank)
	assert.Equal(t, 2, *cohort[2].RegistrationRank)
	assert.Equal(t, 4, *cohort[3].RegistrationRank)
	assert.Equal(t, 70, *cohort[3].RegistrationMarksObtained)
}

func TestAssignRanks_Percentage(t *testing.T) {
	cohort := []*model.ExamRegistration{
		newRankedReg(150, time.Now()),
	}

	AssignRanks(cohort, 200)

	require.NotNil(t, cohort[0].RegistrationPercentage)
	assert.InDelta(t, 75.0, *cohort[0].RegistrationPercentage, 1e-9)
}

func TestAssignRanks_AllTied(t *testing.T) {
	now := time.Now()
	cohort := []*model.ExamRegistration{
		newRankedReg(60, now),
		newRankedReg(60, now.Add(time.Second)),
		newRankedReg(60, now.Add(2*time.Second)),
	}

	AssignRanks(cohort, 100)

	for _, reg := range cohort {
		assert.Equal(t, 1, *reg.RegistrationRank)
	}
}

func TestAssignRanks_TieBreakByRegistrationTime(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	a := newRankedReg(88, late)
	b := newRankedReg(88, early)

	AssignRanks([]*model.ExamRegistration{a, b}, 100)

	// Same rank either way; ordering within the tie is by registration
	// time so repeated runs produce the same listing.
	assert.Equal(t, 1, *a.RegistrationRank)
	assert.Equal(t, 1, *b.RegistrationRank)
}

func TestAssignRanks_MonotonicAndDense(t *testing.T) {
	base := time.Now()
	cohort := make([]*model.ExamRegistration, 0, 10)
	for i, m := range []int{95, 95, 80, 80, 80, 77, 60, 60, 12, 0} {
		cohort = append(cohort, newRankedReg(m, base.Add(time.Duration(i)*time.Second)))
	}

	AssignRanks(cohort, 100)

	// rank of position i is i+1 unless tied with the previous entry
	for i, reg := range cohort {
		require.NotNil(t, reg.RegistrationRank)
		if i == 0 {
			assert.Equal(t, 1, *reg.RegistrationRank)
			continue
		}
		prev := cohort[i-1]
		if *reg.RegistrationMarksObtained == *prev.RegistrationMarksObtained {
			assert.Equal(t, *prev.RegistrationRank, *reg.RegistrationRank)
		} else {
			assert.Equal(t, i+1, *reg.RegistrationRank)
		}
	}
}
