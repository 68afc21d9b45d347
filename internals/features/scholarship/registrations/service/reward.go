// file: internals/features/scholarship/registrations/service/reward.go
package service

import (
	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

// ResolveRewardTier returns the first tier (author list order) whose rank
// range covers the given rank, or nil. Overlapping tiers resolve to the
// earliest entry, so authors put the best/most specific tier first.
// Pure: callers persist eligibility themselves. rank < 1 never matches.
func ResolveRewardTier(rank int, tiers []examModel.RewardTier) *examModel.RewardTier {
	if rank < 1 {
		return nil
	}
	for i := range tiers {
		if tiers[i].RankFrom <= rank && rank <= tiers[i].RankTo {
			t := tiers[i]
			return &t
		}
	}
	return nil
}

// ResolveEligibility couples tier matching with the result: a failing
// registrant is never reward eligible, whatever their rank.
func ResolveEligibility(result model.RegistrationResult, rank int, tiers []examModel.RewardTier) *examModel.RewardTier {
	if result != model.ResultPass {
		return nil
	}
	return ResolveRewardTier(rank, tiers)
}
