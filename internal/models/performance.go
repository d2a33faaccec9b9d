package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PerformanceMetric is one admin-recorded view/like snapshot together with
// the earnings derived from it. Rows are append-only; the live counters on
// the submission are just the latest snapshot.
type PerformanceMetric struct {
	bun.BaseModel `bun:"table:performance_metric"`

	ID                  string    `bun:"id,pk" json:"id"`
	SubmissionID        *int64    `bun:"submission_id" json:"submission_id"`
	PrivateSubmissionID *int64    `bun:"private_submission_id" json:"private_submission_id"`
	ViewCount           int       `bun:"view_count" json:"view_count"`
	LikeCount           int       `bun:"like_count" json:"like_count"`
	CalculatedEarnings  float64   `bun:"calculated_earnings" json:"calculated_earnings"`
	UpdatedBy           int64     `bun:"updated_by" json:"updated_by"`
	UpdatedAt           time.Time `bun:"updated_at,default:current_timestamp" json:"updated_at"`
}
