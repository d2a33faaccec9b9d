package datastore

import (
	"context"
	"time"

	"viralbite/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePrivateInvitation(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PrivateInvitation)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrivateInvitation)(nil)).Index("index_private_invitation_invite_code").Unique().IfNotExists().Column("invite_code").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrivateInvitation)(nil)).Index("index_private_invitation_restaurant_id").IfNotExists().Column("restaurant_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrivateInvitation)(nil)).Index("index_private_invitation_influencer_id").IfNotExists().Column("influencer_id").Exec(ctx)
	return err
}

func CreateInvitation(ctx context.Context, db *bun.DB, invitation *models.PrivateInvitation) (*models.PrivateInvitation, error) {
	_, err := db.NewInsert().Model(invitation).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func FindInvitationByID(ctx context.Context, db *bun.DB, invitationID int64) (*models.PrivateInvitation, error) {
	var invitation models.PrivateInvitation
	err := db.NewSelect().Model(&invitation).Where("id = ?", invitationID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func FindInvitationByCode(ctx context.Context, db *bun.DB, inviteCode string) (*models.PrivateInvitation, error) {
	var invitation models.PrivateInvitation
	err := db.NewSelect().Model(&invitation).Where("invite_code = ?", inviteCode).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func FindInvitationsByRestaurant(ctx context.Context, db *bun.DB, restaurantID int64) ([]models.PrivateInvitation, error) {
	var invitations []models.PrivateInvitation
	err := db.NewSelect().Model(&invitations).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func FindInvitationsByInfluencer(ctx context.Context, db *bun.DB, influencerID int64) ([]models.PrivateInvitation, error) {
	var invitations []models.PrivateInvitation
	err := db.NewSelect().Model(&invitations).
		Where("influencer_id = ?", influencerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// BindInvitationInfluencer claims an unbound invitation for influencerID. The
// guard lives in the WHERE clause so two concurrent redeems cannot both win;
// false means someone else already holds the code.
func BindInvitationInfluencer(ctx context.Context, db *bun.DB, invitationID, influencerID int64) (bool, error) {
	res, err := db.NewUpdate().Model((*models.PrivateInvitation)(nil)).
		Set("influencer_id = ?", influencerID).
		Where("id = ?", invitationID).
		Where("influencer_id IS NULL").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateInvitationStatus moves an invitation from one status to another with
// the transition guarded in SQL. False means the row had already left from.
func UpdateInvitationStatus(ctx context.Context, db bun.IDB, invitationID int64, from, to models.InvitationStatus) (bool, error) {
	res, err := db.NewUpdate().Model((*models.PrivateInvitation)(nil)).
		Set("status = ?", to).
		Where("id = ?", invitationID).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func DeleteInvitation(ctx context.Context, db *bun.DB, invitationID int64) error {
	_, err := db.NewDelete().Model((*models.PrivateInvitation)(nil)).
		Where("id = ?", invitationID).
		Exec(ctx)
	return err
}

// DeleteExpiredPendingInvitations removes pending invitations whose expiry has
// passed. Returns the number of rows deleted.
func DeleteExpiredPendingInvitations(ctx context.Context, db *bun.DB, now time.Time) (int64, error) {
	res, err := db.NewDelete().Model((*models.PrivateInvitation)(nil)).
		Where("status = ?", models.InvitationPending).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
