// file: internals/features/scholarship/registrations/service/reward_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

func testTiers() []examModel.RewardTier {
	return []examModel.RewardTier{
		{RankFrom: 1, RankTo: 1, RewardType: examModel.RewardTypePercentage, RewardValue: 100, Description: "full scholarship"},
		{RankFrom: 2, RankTo: 5, RewardType: examModel.RewardTypePercentage, RewardValue: 50},
		{RankFrom: 6, RankTo: 20, RewardType: examModel.RewardTypeFixed, RewardValue: 5000},
		{RankFrom: 1, RankTo: 100, RewardType: examModel.RewardTypeCertificate, RewardValue: 0},
	}
}

func TestResolveRewardTier_Boundaries(t *testing.T) {
	tiers := testTiers()

	top := ResolveRewardTier(1, tiers)
	require.NotNil(t, top)
	assert.Equal(t, 100, top.RewardValue)

	edgeLow := ResolveRewardTier(2, tiers)
	require.NotNil(t, edgeLow)
	assert.Equal(t, 50, edgeLow.RewardValue)

	edgeHigh := ResolveRewardTier(5, tiers)
	require.NotNil(t, edgeHigh)
	assert.Equal(t, 50, edgeHigh.RewardValue)

	fixed := ResolveRewardTier(20, tiers)
	require.NotNil(t, fixed)
	assert.Equal(t, examModel.RewardTypeFixed, fixed.RewardType)
}

func TestResolveRewardTier_FirstMatchWins(t *testing.T) {
	// rank 1 is covered by both the top tier and the catch-all
	// certificate tier; list order decides.
	got := ResolveRewardTier(1, testTiers())
	require.NotNil(t, got)
	assert.Equal(t, examModel.RewardTypePercentage, got.RewardType)
	assert.Equal(t, 100, got.RewardValue)

	// rank 21 only falls into the catch-all
	certOnly := ResolveRewardTier(21, testTiers())
	require.NotNil(t, certOnly)
	assert.Equal(t, examModel.RewardTypeCertificate, certOnly.RewardType)
}

func TestResolveRewardTier_NoMatch(t *testing.T) {
	assert.Nil(t, ResolveRewardTier(101, testTiers()))
	assert.Nil(t, ResolveRewardTier(1, nil))
	assert.Nil(t, ResolveRewardTier(0, testTiers()))
	assert.Nil(t, ResolveRewardTier(-3, testTiers()))
}

func TestResolveEligibility_FailNeverEligible(t *testing.T) {
	// rank 1 would match the top tier, but a fail result blocks it
	assert.Nil(t, ResolveEligibility(model.ResultFail, 1, testTiers()))
	assert.Nil(t, ResolveEligibility(model.ResultPending, 1, testTiers()))
	assert.Nil(t, ResolveEligibility(model.ResultAbsent, 1, testTiers()))

	got := ResolveEligibility(model.ResultPass, 1, testTiers())
	require.NotNil(t, got)
	assert.Equal(t, 100, got.RewardValue)
}

func TestResolveRewardTier_ReturnsCopy(t *testing.T) {
	tiers := testTiers()
	got := ResolveRewardTier(1, tiers)
	require.NotNil(t, got)

	got.RewardValue = 1

	assert.Equal(t, 100, tiers[0].RewardValue)
}
