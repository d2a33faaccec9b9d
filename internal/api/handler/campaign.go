package handler

import (
	"strconv"

	"viralbite/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCampaign struct {
	container *do.Injector
}

func (gr *groupCampaign) List(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaigns, err := serviceCampaign.ListForUser(ctx, user)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaigns, nil)
}

func (gr *groupCampaign) Create(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.CreateCampaignInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	campaign, err := serviceCampaign.Create(ctx, user, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaign, nil)
}

func (gr *groupCampaign) Show(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	campaignID, err := paramID(c, "campaign")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaign, err := serviceCampaign.GetCampaign(c.Request().Context(), campaignID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, campaign, nil)
}

func (gr *groupCampaign) Ranking(c echo.Context) error {
	serviceCampaign, err := do.Invoke[*services.ServiceCampaign](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := serviceCampaign.Ranking(c.Request().Context(), limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupCampaign) ListSubmissions(c echo.Context) error {
	serviceSubmission, err := do.Invoke[*services.ServiceSubmission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaignID, err := paramID(c, "campaign")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	submissions, err := serviceSubmission.ListForCampaign(ctx, user, campaignID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submissions, nil)
}

func (gr *groupCampaign) CreateSubmission(c echo.Context) error {
	serviceSubmission, err := do.Invoke[*services.ServiceSubmission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaignID, err := paramID(c, "campaign")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.CreateSubmissionInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	submission, err := serviceSubmission.CreateForCampaign(ctx, user, campaignID, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submission, nil)
}
