package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var policyNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func trialPolicy() UsagePolicy {
	return UsagePolicy{
		Tier:        TierTrial,
		TrialExpiry: policyNow.Add(7 * 24 * time.Hour),
		PeriodLimit: 100,
		AsOf:        policyNow,
	}
}

func TestUsagePolicy_State(t *testing.T) {
	tests := []struct {
		name   string
		policy UsagePolicy
		want   PolicyState
	}{
		{
			name:   "trial inside window",
			policy: trialPolicy(),
			want:   PolicyStateTrial,
		},
		{
			name: "trial expired",
			policy: UsagePolicy{
				Tier:        TierTrial,
				TrialExpiry: policyNow.Add(-time.Hour),
				AsOf:        policyNow,
			},
			want: PolicyStateExpired,
		},
		{
			name: "active basic subscription",
			policy: UsagePolicy{
				Tier:               TierBasic,
				SubscriptionActive: true,
				AsOf:               policyNow,
			},
			want: PolicyStateBasic,
		},
		{
			name: "active pro subscription",
			policy: UsagePolicy{
				Tier:               TierPro,
				SubscriptionActive: true,
				AsOf:               policyNow,
			},
			want: PolicyStatePro,
		},
		{
			name: "lapsed basic subscription falls back to trial window",
			policy: UsagePolicy{
				Tier:               TierBasic,
				SubscriptionActive: false,
				TrialExpiry:        policyNow.Add(-time.Hour),
				AsOf:               policyNow,
			},
			want: PolicyStateExpired,
		},
		{
			name: "expiry boundary is exclusive",
			policy: UsagePolicy{
				Tier:        TierTrial,
				TrialExpiry: policyNow,
				AsOf:        policyNow,
			},
			want: PolicyStateExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.State())
		})
	}
}

func TestUsagePolicy_CanCreateEstimate(t *testing.T) {
	tests := []struct {
		name   string
		policy UsagePolicy
		want   bool
	}{
		{
			name:   "trial always allowed",
			policy: trialPolicy(),
			want:   true,
		},
		{
			name: "trial allowed even past a basic-sized count",
			policy: func() UsagePolicy {
				p := trialPolicy()
				p.EstimatesThisPeriod = 500
				return p
			}(),
			want: true,
		},
		{
			name: "basic under limit",
			policy: UsagePolicy{
				Tier:                TierBasic,
				SubscriptionActive:  true,
				EstimatesThisPeriod: 99,
				PeriodLimit:         100,
				AsOf:                policyNow,
			},
			want: true,
		},
		{
			name: "basic at limit",
			policy: UsagePolicy{
				Tier:                TierBasic,
				SubscriptionActive:  true,
				EstimatesThisPeriod: 100,
				PeriodLimit:         100,
				AsOf:                policyNow,
			},
			want: false,
		},
		{
			name: "pro unlimited",
			policy: UsagePolicy{
				Tier:                TierPro,
				SubscriptionActive:  true,
				EstimatesThisPeriod: 100000,
				PeriodLimit:         100,
				AsOf:                policyNow,
			},
			want: true,
		},
		{
			name: "expired blocked",
			policy: UsagePolicy{
				Tier:        TierTrial,
				TrialExpiry: policyNow.Add(-time.Hour),
				AsOf:        policyNow,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.CanCreateEstimate())
		})
	}
}

func TestUsagePolicy_ShouldRedactAddress(t *testing.T) {
	tests := []struct {
		name   string
		policy UsagePolicy
		want   bool
	}{
		{
			name:   "trial gets addresses",
			policy: trialPolicy(),
			want:   false,
		},
		{
			name: "basic redacted",
			policy: UsagePolicy{
				Tier:               TierBasic,
				SubscriptionActive: true,
				AsOf:               policyNow,
			},
			want: true,
		},
		{
			name: "pro gets addresses",
			policy: UsagePolicy{
				Tier:               TierPro,
				SubscriptionActive: true,
				AsOf:               policyNow,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.ShouldRedactAddress())
		})
	}
}

func TestUsagePolicy_TrialDaysRemaining(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{name: "week left", expiry: policyNow.Add(7 * 24 * time.Hour), want: 7},
		{name: "partial day floors", expiry: policyNow.Add(36 * time.Hour), want: 1},
		{name: "expired clamps to zero", expiry: policyNow.Add(-24 * time.Hour), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := UsagePolicy{TrialExpiry: tt.expiry, AsOf: policyNow}
			assert.Equal(t, tt.want, p.TrialDaysRemaining())
		})
	}
}
