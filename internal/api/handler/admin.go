package handler

import (
	"viralbite/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

// groupAdmin backs the reconciliation console. Every route sits behind
// RequireRole(models.RoleAdmin).
type groupAdmin struct {
	container *do.Injector
}

func (gr *groupAdmin) ListSubmissions(c echo.Context) error {
	serviceSubmission, err := do.Invoke[*services.ServiceSubmission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	submissions, err := serviceSubmission.ListForUser(ctx, user)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submissions, nil)
}

func (gr *groupAdmin) ListPrivateSubmissions(c echo.Context) error {
	serviceInvitation, err := do.Invoke[*services.ServiceInvitation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	submissions, err := serviceInvitation.ListPrivateSubmissions(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submissions, nil)
}

func (gr *groupAdmin) RecordPerformance(c echo.Context) error {
	servicePerformance, err := do.Invoke[*services.ServicePerformance](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	submissionID, err := paramID(c, "submission")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.PerformanceInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	metric, err := servicePerformance.RecordSubmission(ctx, user, submissionID, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, metric, nil)
}

func (gr *groupAdmin) RecordPrivatePerformance(c echo.Context) error {
	servicePerformance, err := do.Invoke[*services.ServicePerformance](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	submissionID, err := paramID(c, "submission")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload services.PerformanceInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	metric, err := servicePerformance.RecordPrivateSubmission(ctx, user, submissionID, payload)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, metric, nil)
}

func (gr *groupAdmin) PerformanceHistory(c echo.Context) error {
	servicePerformance, err := do.Invoke[*services.ServicePerformance](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	submissionID, err := paramID(c, "submission")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	metrics, err := servicePerformance.History(c.Request().Context(), submissionID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, metrics, nil)
}

func (gr *groupAdmin) PrivatePerformanceHistory(c echo.Context) error {
	servicePerformance, err := do.Invoke[*services.ServicePerformance](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	submissionID, err := paramID(c, "submission")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	metrics, err := servicePerformance.PrivateHistory(c.Request().Context(), submissionID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, metrics, nil)
}
