package main

import (
	"context"
	"log"
	"os"
	"time"

	"viralbite/internal/datastore"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const DEFAULT_CRON_INVITATION_SWEEP = "@every 1h"

// InvitationJob deletes pending invitations whose expiry has passed. Accepted
// and completed invitations are never touched.
type InvitationJob struct {
	Db *bun.DB
}

func NewInvitationJob(db *bun.DB) *InvitationJob {
	return &InvitationJob{Db: db}
}

func (j *InvitationJob) Start(cronRunner *cron.Cron) {
	schedule := os.Getenv("CRONJOB_TIME_INVITATION_SWEEP")
	if schedule == "" {
		schedule = DEFAULT_CRON_INVITATION_SWEEP
	}

	_, err := cronRunner.AddFunc(schedule, j.sweep)
	log.Println("Invitation sweep cronjob schedule:", schedule, err)
}

func (j *InvitationJob) sweep() {
	ctx := context.Background()

	deleted, err := datastore.DeleteExpiredPendingInvitations(ctx, j.Db, time.Now())
	if err != nil {
		log.Println(err)
		return
	}

	if deleted > 0 {
		log.Println("Expired invitations deleted:", deleted)
	}
}
