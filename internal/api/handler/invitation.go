package handler

import (
	"viralbite/internal/models"
	"viralbite/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupInvitation struct {
	container *do.Injector
}

func (gr *groupInvitation) List(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitations, err := serviceInvitation.ListForUser(ctx, user)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, invitations, nil)
}

func (gr *groupInvitation) Create(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.CreateInvitationInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	invitation, err := serviceInvitation.Create(ctx, user, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, invitation, nil)
}

func (gr *groupInvitation) Redeem(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitation, err := serviceInvitation.Redeem(ctx, user, c.Param("code"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, invitation, nil)
}

func (gr *groupInvitation) UpdateStatus(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitationID, err := paramID(c, "invitation")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload struct {
		Status models.InvitationStatus `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	invitation, err := serviceInvitation.UpdateStatus(ctx, user, invitationID, payload.Status)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, invitation, nil)
}

func (gr *groupInvitation) Delete(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitationID, err := paramID(c, "invitation")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceInvitation.Delete(ctx, user, invitationID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"ok": true}, nil)
}

func (gr *groupInvitation) ListSubmissions(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitationID, err := paramID(c, "invitation")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	submissions, err := serviceInvitation.ListSubmissions(ctx, user, invitationID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submissions, nil)
}

func (gr *groupInvitation) SubmitContent(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	invitationID, err := paramID(c, "invitation")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.CreateSubmissionInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	submission, err := serviceInvitation.SubmitContent(ctx, user, invitationID, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submission, nil)
}
