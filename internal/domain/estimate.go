// Package domain contains core business types and interfaces.
//
// This file defines the Estimate type and the parameters flowing through
// the submission pipeline.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estimate is one priced line item produced from a drawn shape.
//
// Estimates are append-only: once created they are never updated or
// deleted by the application. The service label, unit and computed cost
// are denormalized at computation time so later catalog edits never
// retroactively change past estimates.
type Estimate struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID // Groups estimates from one drawing session
	AccountID     uuid.UUID
	ServiceKey    string
	ServiceLabel  string
	Unit          Unit
	Measurement   decimal.Decimal // Rounded to whole units
	EstimatedCost decimal.Decimal // Rounded to 2 decimals
	Description   string
	Address       *string // nil when redacted for the Basic tier
	CreatedAt     time.Time
}

// Modifiers are contextual inputs consulted only when the selected
// service semantically needs them. Zero values mean "not supplied";
// services that do not use a supplied modifier simply ignore it.
type Modifiers struct {
	StoryCount  int     // ≥1 when supplied (house-type services)
	FenceHeight float64 // ≥1 when supplied (fence-type services)
}

// SubmitEstimateParams carries one drawing event into the pipeline.
type SubmitEstimateParams struct {
	AccountID  uuid.UUID
	ProjectID  uuid.UUID
	ServiceKey string
	Geometry   Geometry
	Address    string // Confirmed address; empty when none was searched
	Modifiers  Modifiers
}

// EstimateNotification is the outbound summary sent after an estimate is
// persisted. Delivery is best-effort: a failed send never rolls back or
// fails the submission.
type EstimateNotification struct {
	Recipient     string          `json:"-"`
	Address       *string         `json:"address,omitempty"`
	ServiceKey    string          `json:"service_type"`
	Measurement   decimal.Decimal `json:"measurement"`
	Unit          Unit            `json:"unit"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Description   string          `json:"description"`
}
