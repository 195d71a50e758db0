// Package domain contains core business types and interfaces.
//
// This file defines the usage policy: a pure snapshot of an account's
// subscription state used to gate estimate creation. All decisions here
// are functions of the snapshot alone so they are independently testable.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the subscription level of an account.
type Tier string

const (
	TierTrial Tier = "Trial"
	TierBasic Tier = "Basic"
	TierPro   Tier = "Pro"
)

// PolicyState is the effective gating state derived from a snapshot.
type PolicyState string

const (
	PolicyStateTrial   PolicyState = "trial"
	PolicyStateBasic   PolicyState = "basic"
	PolicyStatePro     PolicyState = "pro"
	PolicyStateExpired PolicyState = "expired"
)

// UsagePolicy is a point-in-time snapshot of everything the gate needs:
// subscription state from the account row plus the estimate count for the
// current billing period, counted from persisted rows rather than kept as
// a mutable counter.
//
// AsOf pins the evaluation time so the derived state is deterministic.
type UsagePolicy struct {
	AccountID           uuid.UUID
	Email               string // Where estimate notifications are delivered
	Tier                Tier
	TrialExpiry         time.Time
	SubscriptionActive  bool
	EstimatesThisPeriod int64
	PeriodLimit         int64
	AsOf                time.Time
}

// State derives the effective gating state.
//
// An account with an active paid subscription is in its tier's state. A
// trial account is in the trial state until its explicit trial_expiry
// passes; after that, with no active subscription, it is expired.
func (p UsagePolicy) State() PolicyState {
	if p.SubscriptionActive {
		switch p.Tier {
		case TierPro:
			return PolicyStatePro
		case TierBasic:
			return PolicyStateBasic
		}
	}
	if p.AsOf.Before(p.TrialExpiry) {
		return PolicyStateTrial
	}
	return PolicyStateExpired
}

// TrialDaysRemaining returns whole days left in the trial window,
// never negative.
func (p UsagePolicy) TrialDaysRemaining() int {
	if !p.AsOf.Before(p.TrialExpiry) {
		return 0
	}
	return int(p.TrialExpiry.Sub(p.AsOf).Hours() / 24)
}

// CanCreateEstimate reports whether a new estimate may be created: false
// for expired accounts and for Basic accounts that have reached their
// period cap. The cap blocks without changing tier; it clears when the
// period rolls over.
func (p UsagePolicy) CanCreateEstimate() bool {
	switch p.State() {
	case PolicyStateExpired:
		return false
	case PolicyStateBasic:
		return p.EstimatesThisPeriod < p.PeriodLimit
	}
	return true
}

// ShouldRedactAddress reports whether the address must be dropped from
// the stored estimate and any outbound notification. Only the Basic tier
// is redacted; Trial and Pro always receive the address.
func (p UsagePolicy) ShouldRedactAddress() bool {
	return p.State() == PolicyStateBasic
}

// UsageSummary is the month-to-date consumption shown on the dashboard.
type UsageSummary struct {
	Used        int64
	Limit       int64
	Unlimited   bool
	PeriodStart time.Time
	PeriodEnd   time.Time
}
