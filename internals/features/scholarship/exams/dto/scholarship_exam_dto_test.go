// file: internals/features/scholarship/exams/dto/scholarship_exam_dto_test.go
package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "instituteku_backend/internals/features/scholarship/exams/model"
)

func TestPatchField_TriState(t *testing.T) {
	var req PatchScholarshipExamRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exam_name":"Talent Hunt 2026","exam_desc":null}`), &req))

	assert.True(t, req.ExamName.Set)
	assert.False(t, req.ExamName.Null)
	require.NotNil(t, req.ExamName.Value)
	assert.Equal(t, "Talent Hunt 2026", *req.ExamName.Value)

	assert.True(t, req.ExamDesc.Set)
	assert.True(t, req.ExamDesc.Null)

	// absent key stays unset
	assert.False(t, req.ExamTotalMarks.Set)
	assert.False(t, req.TouchesScoring())
}

func TestPatchRequest_TouchesScoring(t *testing.T) {
	var req PatchScholarshipExamRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exam_passing_marks":35}`), &req))
	assert.True(t, req.TouchesScoring())
	assert.False(t, req.TouchesRewardTiers())
}

func TestPatchRequest_ApplyTo(t *testing.T) {
	desc := "old"
	e := &model.ScholarshipExam{
		ExamName:              "Old name",
		ExamDesc:              &desc,
		ExamRegistrationStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExamRegistrationEnd:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ExamTotalMarks:        100,
		ExamPassingMarks:      40,
	}

	var req PatchScholarshipExamRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"exam_name": "New name",
		"exam_desc": null,
		"exam_total_marks": 200,
		"exam_passing_marks": 80
	}`), &req))

	require.NoError(t, req.ApplyTo(e))
	assert.Equal(t, "New name", e.ExamName)
	assert.Nil(t, e.ExamDesc)
	assert.Equal(t, 200, e.ExamTotalMarks)
	assert.Equal(t, 80, e.ExamPassingMarks)
}

func TestPatchRequest_ApplyTo_RejectsBadScoring(t *testing.T) {
	e := &model.ScholarshipExam{ExamTotalMarks: 100, ExamPassingMarks: 40}

	var req PatchScholarshipExamRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exam_passing_marks":150}`), &req))

	assert.Error(t, req.ApplyTo(e))
}

func TestCreateRequest_ToModel(t *testing.T) {
	tenantID := uuid.New()
	req := CreateScholarshipExamRequest{
		ExamName:              "Scholarship Test",
		ExamRegistrationStart: "2026-01-01T00:00:00Z",
		ExamRegistrationEnd:   "2026-02-01T00:00:00Z",
		ExamDate:              "2026-02-15T09:00:00Z",
		ExamRewardTiers: []RewardTierPayload{
			{RankFrom: 1, RankTo: 1, RewardType: "percentage", RewardValue: 100},
		},
	}

	e, err := req.ToModel(tenantID, nil)
	require.NoError(t, err)

	assert.Equal(t, tenantID, e.ExamTenantID)
	assert.Equal(t, model.ExamStatusDraft, e.ExamStatus)
	// scoring defaults
	assert.Equal(t, 100, e.ExamTotalMarks)
	assert.Equal(t, 40, e.ExamPassingMarks)

	tiers := e.RewardTiers()
	require.Len(t, tiers, 1)
	assert.Equal(t, model.RewardTypePercentage, tiers[0].RewardType)
}

func TestCreateRequest_ToModel_BadDate(t *testing.T) {
	req := CreateScholarshipExamRequest{
		ExamName:              "Scholarship Test",
		ExamRegistrationStart: "01/01/2026",
		ExamRegistrationEnd:   "2026-02-01T00:00:00Z",
		ExamDate:              "2026-02-15T09:00:00Z",
	}

	_, err := req.ToModel(uuid.New(), nil)
	assert.Error(t, err)
}
