package handler

import (
	"errors"
	"net/http"
	"strconv"

	"viralbite/internal/models"
	"viralbite/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🍜")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.
		routesAPIv1.GET("", Hello)

		routesAPIv1Auth := routesAPIv1.Group("/auth")
		{
			a := groupAuth{cfg.Container}
			routesAPIv1Auth.POST("/register", a.Register)
			routesAPIv1Auth.POST("/login", a.Login)
			routesAPIv1Auth.POST("/logout", a.Logout)
		}

		u := groupUser{cfg.Container}
		routesAPIv1.GET("/user/me", u.Me)
		routesAPIv1.PUT("/user/me", u.UpdateMe)

		routesAPIv1Campaign := routesAPIv1.Group("/campaigns")
		{
			ca := groupCampaign{cfg.Container}
			routesAPIv1Campaign.GET("", ca.List)
			routesAPIv1Campaign.POST("", ca.Create)
			// keep /ranking above /:campaign so it never parses as an id
			routesAPIv1Campaign.GET("/ranking", ca.Ranking)
			routesAPIv1Campaign.GET("/:campaign", ca.Show)
			routesAPIv1Campaign.GET("/:campaign/submissions", ca.ListSubmissions)
			routesAPIv1Campaign.POST("/:campaign/submissions", ca.CreateSubmission)
		}

		s := groupSubmission{cfg.Container}
		routesAPIv1.GET("/submissions", s.List)
		routesAPIv1.PUT("/submissions/:submission/status", s.UpdateStatus)

		routesAPIv1Invitation := routesAPIv1.Group("/private-invitations")
		{
			i := groupInvitation{cfg.Container}
			routesAPIv1Invitation.GET("", i.List)
			routesAPIv1Invitation.POST("", i.Create)
			routesAPIv1Invitation.GET("/code/:code", i.Redeem)
			routesAPIv1Invitation.PATCH("/:invitation", i.UpdateStatus)
			routesAPIv1Invitation.DELETE("/:invitation", i.Delete)
			routesAPIv1Invitation.GET("/:invitation/submissions", i.ListSubmissions)
			routesAPIv1Invitation.POST("/:invitation/submissions", i.SubmitContent)
		}

		st := groupStats{cfg.Container}
		routesAPIv1.GET("/stats", st.Show)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			routesAPIv1Admin.Use(RequireRole(models.RoleAdmin))
			ad := groupAdmin{cfg.Container}
			routesAPIv1Admin.GET("/submissions", ad.ListSubmissions)
			routesAPIv1Admin.GET("/private-submissions", ad.ListPrivateSubmissions)
			routesAPIv1Admin.POST("/submissions/:submission/performance", ad.RecordPerformance)
			routesAPIv1Admin.GET("/submissions/:submission/performance-history", ad.PerformanceHistory)
			routesAPIv1Admin.POST("/private-submissions/:submission/performance", ad.RecordPrivatePerformance)
			routesAPIv1Admin.GET("/private-submissions/:submission/performance-history", ad.PrivatePerformanceHistory)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorx.Wrap(errors.New("invalid id"), errorx.Validation)
	}
	return id, nil
}
