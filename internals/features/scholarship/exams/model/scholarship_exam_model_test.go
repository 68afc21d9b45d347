// file: internals/features/scholarship/exams/model/scholarship_exam_model_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardTierValidate(t *testing.T) {
	tests := []struct {
		name    string
		tier    RewardTier
		wantErr bool
	}{
		{"valid percentage", RewardTier{RankFrom: 1, RankTo: 3, RewardType: RewardTypePercentage, RewardValue: 100}, false},
		{"valid fixed", RewardTier{RankFrom: 4, RankTo: 10, RewardType: RewardTypeFixed, RewardValue: 5000}, false},
		{"valid certificate ignores value", RewardTier{RankFrom: 1, RankTo: 100, RewardType: RewardTypeCertificate, RewardValue: 0}, false},
		{"single-rank range", RewardTier{RankFrom: 1, RankTo: 1, RewardType: RewardTypePercentage, RewardValue: 100}, false},
		{"rank_from zero", RewardTier{RankFrom: 0, RankTo: 3, RewardType: RewardTypeFixed, RewardValue: 1}, true},
		{"inverted range", RewardTier{RankFrom: 5, RankTo: 2, RewardType: RewardTypeFixed, RewardValue: 1}, true},
		{"percentage above 100", RewardTier{RankFrom: 1, RankTo: 1, RewardType: RewardTypePercentage, RewardValue: 101}, true},
		{"negative fixed", RewardTier{RankFrom: 1, RankTo: 1, RewardType: RewardTypeFixed, RewardValue: -1}, true},
		{"unknown type", RewardTier{RankFrom: 1, RankTo: 1, RewardType: "cash", RewardValue: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tier.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScoring(t *testing.T) {
	ok := ScholarshipExam{ExamTotalMarks: 100, ExamPassingMarks: 40}
	assert.NoError(t, ok.ValidateScoring())

	passingEqualsTotal := ScholarshipExam{ExamTotalMarks: 50, ExamPassingMarks: 50}
	assert.NoError(t, passingEqualsTotal.ValidateScoring())

	zeroTotal := ScholarshipExam{ExamTotalMarks: 0, ExamPassingMarks: 0}
	assert.Error(t, zeroTotal.ValidateScoring())

	passingAboveTotal := ScholarshipExam{ExamTotalMarks: 100, ExamPassingMarks: 101}
	assert.Error(t, passingAboveTotal.ValidateScoring())

	zeroPassing := ScholarshipExam{ExamTotalMarks: 100, ExamPassingMarks: 0}
	assert.Error(t, zeroPassing.ValidateScoring())
}

func TestSetRewardTiers_PreservesOrder(t *testing.T) {
	var e ScholarshipExam
	in := []RewardTier{
		{RankFrom: 1, RankTo: 1, RewardType: RewardTypePercentage, RewardValue: 100},
		{RankFrom: 2, RankTo: 5, RewardType: RewardTypePercentage, RewardValue: 50},
		{RankFrom: 1, RankTo: 50, RewardType: RewardTypeCertificate},
	}

	require.NoError(t, e.SetRewardTiers(in))

	out := e.RewardTiers()
	require.Len(t, out, 3)
	assert.Equal(t, 100, out[0].RewardValue)
	assert.Equal(t, 50, out[1].RewardValue)
	assert.Equal(t, RewardTypeCertificate, out[2].RewardType)
}

func TestSetRewardTiers_RejectsInvalidTier(t *testing.T) {
	var e ScholarshipExam
	err := e.SetRewardTiers([]RewardTier{
		{RankFrom: 1, RankTo: 1, RewardType: RewardTypePercentage, RewardValue: 100},
		{RankFrom: 9, RankTo: 2, RewardType: RewardTypeFixed, RewardValue: 100},
	})
	assert.Error(t, err)
}

func TestRewardTiers_Empty(t *testing.T) {
	var e ScholarshipExam
	assert.Nil(t, e.RewardTiers())
}
