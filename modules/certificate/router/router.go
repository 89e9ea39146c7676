package router

import (
	"campus-events/core/constants"
	"campus-events/core/middleware"
	"campus-events/modules/certificate/controller"

	"github.com/labstack/echo/v4"
)

// CertificateRouter registers certificate routes.
type CertificateRouter struct {
	CertificateController *controller.CertificateController
}

func NewCertificateRouter(certificateController *controller.CertificateController) *CertificateRouter {
	return &CertificateRouter{CertificateController: certificateController}
}

// Register mounts the authenticated certificate surface on private and the
// serial verification lookup on public.
func (r *CertificateRouter) Register(private, public *echo.Group, mw *middleware.Middleware) {
	certs := private.Group("/certificates", mw.AuthMiddleware())
	certs.GET("/mine", r.CertificateController.ListMine)
	certs.GET("/:id/download", r.CertificateController.Download)

	organizerOnly := mw.RequireRole(constants.RoleOrganizer, constants.RoleAdmin)
	certs.POST("", r.CertificateController.Issue, organizerOnly)
	certs.POST("/:id/artifact", r.CertificateController.AttachArtifact, organizerOnly)

	events := private.Group("/events", mw.AuthMiddleware())
	events.GET("/:id/certificates", r.CertificateController.ListByEvent, organizerOnly)

	public.GET("/certificates/verify/:serial", r.CertificateController.Verify)
}
