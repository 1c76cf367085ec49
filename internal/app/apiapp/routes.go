package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/metrics"
	adrequestsvc "github.com/petnest/petnest/internal/services/adrequests"
	adssvc "github.com/petnest/petnest/internal/services/ads"
	authsvc "github.com/petnest/petnest/internal/services/auth"
	buyersvc "github.com/petnest/petnest/internal/services/buyers"
	catalogsvc "github.com/petnest/petnest/internal/services/catalog"
	dashboardsvc "github.com/petnest/petnest/internal/services/dashboard"
	petsvc "github.com/petnest/petnest/internal/services/pets"
	reportsvc "github.com/petnest/petnest/internal/services/reports"
	sellersvc "github.com/petnest/petnest/internal/services/sellers"
	httperrors "github.com/petnest/petnest/internal/transport/http/errors"
	"github.com/petnest/petnest/internal/transport/http/handlers"
)

type Dependencies struct {
	AdRequestService *adrequestsvc.Service
	SellerService    *sellersvc.Service
	PetService       *petsvc.Service
	ReportService    *reportsvc.Service
	CatalogService   *catalogsvc.Service
	BuyerService     *buyersvc.Service
	AdsService       *adssvc.Service
	DashboardService *dashboardsvc.Service
	AuthService      *authsvc.Service
	Metrics          *metrics.Metrics
	MaxUploadBytes   int64
	Logger           *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	adRequestHandler := handlers.NewAdRequestHandler(deps.AdRequestService)
	sellerHandler := handlers.NewSellerHandler(deps.SellerService)
	petHandler := handlers.NewPetHandler(deps.PetService, deps.MaxUploadBytes)
	reportHandler := handlers.NewReportHandler(deps.ReportService)
	catalogHandler := handlers.NewCatalogHandler(deps.CatalogService)
	buyerHandler := handlers.NewBuyerHandler(deps.BuyerService, deps.MaxUploadBytes)
	adsHandler := handlers.NewAdsHandler(deps.AdsService, deps.MaxUploadBytes)
	dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService)
	authHandler := handlers.NewAuthHandler(deps.AuthService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole(enums.RoleAdmin)
	sellerMW := RequireRole(enums.RoleSeller)
	buyerMW := RequireRole(enums.RoleBuyer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	// Legacy paths used by the admin console for advertisement requests.
	r.Route("/advertisementrequests", func(r chi.Router) {
		r.Post("/", adRequestHandler.Submit)
		r.Group(func(r chi.Router) {
			r.Use(authMW, adminMW)
			r.Get("/", adRequestHandler.List)
			r.Get("/{id}", adRequestHandler.Get)
			r.Patch("/{id}/status", adRequestHandler.UpdateStatus)
		})
	})

	r.Route("/v1/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.With(authMW).Get("/me", authHandler.Me)
		})

		r.Get("/species", catalogHandler.ListSpecies)
		r.Get("/species/{id}/breeds", catalogHandler.ListBreeds)
		r.Get("/pets", petHandler.PublicList)
		r.Get("/pets/{id}", petHandler.PublicGet)
		r.Get("/ads", adsHandler.Live)
		r.With(authMW).Post("/reports", reportHandler.Submit)

		r.Route("/seller", func(r chi.Router) {
			r.Use(authMW, sellerMW)
			r.Post("/register", sellerHandler.Register)
			r.Get("/me", sellerHandler.Me)
			r.Get("/pets", petHandler.Mine)
			r.Post("/pets", petHandler.Create)
		})

		r.Route("/buyer", func(r chi.Router) {
			r.Use(authMW, buyerMW)
			r.Get("/profile", buyerHandler.Get)
			r.Patch("/profile", buyerHandler.Patch)
		})

		r.With(authMW, adminMW).Post("/ads/admin/ads", adsHandler.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW, adminMW)

			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/dashboard/activity", dashboardHandler.Activity)
			r.Get("/reject-reasons", handlers.RejectReasons)

			r.Get("/ad-requests", adRequestHandler.List)
			r.Get("/ad-requests/{id}", adRequestHandler.Get)
			r.Patch("/ad-requests/{id}/status", adRequestHandler.UpdateStatus)

			r.Get("/sellers", sellerHandler.List)
			r.Get("/sellers/{id}", sellerHandler.Get)
			r.Post("/sellers/{id}/approve", sellerHandler.Approve)
			r.Post("/sellers/{id}/reject", sellerHandler.Reject)

			r.Get("/pets", petHandler.List)
			r.Get("/pets/{id}", petHandler.Get)
			r.Post("/pets/{id}/verify", petHandler.Verify)

			r.Get("/reports", reportHandler.List)
			r.Get("/reports/{id}", reportHandler.Get)
			r.Post("/reports/{id}/resolve", reportHandler.Resolve)
			r.Post("/reports/{id}/dismiss", reportHandler.Dismiss)

			r.Get("/species", catalogHandler.ListSpecies)
			r.Post("/species", catalogHandler.CreateSpecies)
			r.Delete("/species/{id}", catalogHandler.DeleteSpecies)
			r.Get("/species/{id}/breeds", catalogHandler.ListBreeds)
			r.Post("/species/{id}/breeds", catalogHandler.CreateBreed)
			r.Delete("/species/{id}/breeds/{breedID}", catalogHandler.DeleteBreed)
		})
	})
}
