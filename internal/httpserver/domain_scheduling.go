package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"matterplan/internal/calendarhook"
	schedulingHTTP "matterplan/internal/scheduling/delivery/http"
	schedulingRepo "matterplan/internal/scheduling/repository/postgres"
	schedulingUC "matterplan/internal/scheduling/usecase"
)

// setupSchedulingDomain initializes the scheduling domain and registers its
// routes, plus the external calendar change webhook when enabled.
//
// Pattern to follow when adding a new domain:
//  1. Create Repository:   repo := mydomainRepo.New(srv.postgresDB, srv.l)
//  2. Create UseCase:      uc := mydomainUC.New(srv.l, repo, ...)
//  3. Create HTTP Handler: h := mydomainHTTP.New(srv.l, uc)
//  4. Register Routes:     mydomainHTTP.RegisterRoutes(api.Group("/myresource"), h)
func (srv *HTTPServer) setupSchedulingDomain(ctx context.Context, api *gin.RouterGroup) error {
	// 1. Repository
	repo := schedulingRepo.New(srv.postgresDB, srv.l)

	// 2. UseCase
	uc := schedulingUC.New(srv.l, repo, srv.calendar, srv.external, srv.location)

	// 3. HTTP Handler
	h := schedulingHTTP.New(srv.l, uc)

	// 4. Routes: registers /api/v1/scheduling/...
	schedulingHTTP.RegisterRoutes(api.Group("/scheduling"), h)

	// Calendar change webhook
	if srv.webhookEnabled {
		hook := calendarhook.New(srv.l, uc, calendarhook.NewSecurityValidator(srv.webhookSecurity))
		srv.gin.POST("/webhook/calendar", hook.HandleCalendarWebhook)
		srv.l.Infof(ctx, "Calendar webhook route registered at POST /webhook/calendar")
	} else {
		srv.l.Infof(ctx, "Calendar webhook disabled, skipping route")
	}

	srv.l.Infof(ctx, "Scheduling domain registered")
	return nil
}
