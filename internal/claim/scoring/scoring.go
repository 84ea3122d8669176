// Package scoring derives a credibility score from a claim snapshot and its
// verification history.
//
// Score is a pure function: no I/O, no clock reads, no side effects. Identical
// inputs always produce an identical breakdown in the same factor order, which
// recomputation and audit both rely on. This is a rule-based, explainable
// scorer, not a learned model.
package scoring

import (
	"fmt"
	"time"

	claimmodels "vouch/internal/claim/models"
	vmodels "vouch/internal/verification/models"
)

// Factor names, in evaluation order.
const (
	FactorStatus        = "status"
	FactorRecency       = "recency"
	FactorDuration      = "duration"
	FactorEvidence      = "evidence"
	FactorVerifications = "verifications"
	FactorExpiry        = "expiry"
)

const (
	maxScore         = 100
	durationCap      = 15
	recencyRecent    = 15
	recencyMid       = 10
	recencyOld       = 5
	evidencePublic   = 10
	evidencePrivate  = 5
	multiVerifyBonus = 20
	singleVerify     = 15
	expiryPenalty    = -10
)

// Score evaluates the scoring rules in fixed order and returns the total with
// its explanatory breakdown. Claims that are not verified score 0 with a
// single status entry and no further factors evaluated.
func Score(claim *claimmodels.Claim, verifications []*vmodels.Record, today time.Time) (float64, []claimmodels.ScoreBreakdown) {
	if claim.Status != claimmodels.StatusVerified {
		return 0, []claimmodels.ScoreBreakdown{
			{Factor: FactorStatus, Score: 0, Reason: "Claim not verified"},
		}
	}

	total := 0.0
	breakdown := make([]claimmodels.ScoreBreakdown, 0, 5)

	add := func(factor string, score float64, reason string) {
		total += score
		breakdown = append(breakdown, claimmodels.ScoreBreakdown{Factor: factor, Score: score, Reason: reason})
	}

	// Recency: how long ago the experience ended.
	switch monthsSince := monthsBetween(claim.EndDate, today); {
	case monthsSince <= 12:
		add(FactorRecency, recencyRecent, "Completed within last 12 months")
	case monthsSince <= 24:
		add(FactorRecency, recencyMid, "Completed within last 24 months")
	default:
		add(FactorRecency, recencyOld, "Completed more than 2 years ago")
	}

	// Duration: capped month span, minimum 1 so zero-length claims still count.
	durationMonths := monthsBetween(claim.StartDate, claim.EndDate)
	if durationMonths == 0 {
		durationMonths = 1
	}
	add(FactorDuration, float64(min(durationCap, durationMonths)), fmt.Sprintf("%d months recorded", durationMonths))

	// Evidence visibility.
	if claim.Visibility == claimmodels.VisibilityPublic {
		add(FactorEvidence, evidencePublic, "Public evidence provided")
	} else {
		add(FactorEvidence, evidencePrivate, "Evidence available to verifiers")
	}

	// Verification count. Every ledger entry counts regardless of outcome;
	// a claim only reaches this point after an approval.
	switch count := len(verifications); {
	case count >= 2:
		add(FactorVerifications, multiVerifyBonus, "Multiple independent verifications")
	case count == 1:
		add(FactorVerifications, singleVerify, "Single verification completed")
	default:
		add(FactorVerifications, 0, "No verifications recorded")
	}

	// Expiry: one flat penalty if any verification's validity has lapsed.
	for _, v := range verifications {
		if v.ValidUntil != nil && v.ValidUntil.Before(today) {
			add(FactorExpiry, expiryPenalty, "Verification validity expired")
			break
		}
	}

	return clamp(total), breakdown
}

// monthsBetween returns the whole-month difference from start to end,
// floored at zero. Day-of-month is ignored.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	return max(0, months)
}

func clamp(total float64) float64 {
	if total < 0 {
		return 0
	}
	if total > maxScore {
		return maxScore
	}
	return total
}
