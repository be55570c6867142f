package api

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ansi-niger/decree-portal/docs"
	"github.com/ansi-niger/decree-portal/internal/api/handler"
	"github.com/ansi-niger/decree-portal/internal/api/middleware"
	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

// Dependencies are the services and settings the HTTP layer is built from.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string

	Auth        ports.AuthService
	Decrees     ports.DecreeService
	Assignments ports.AssignmentService
	Activity    ports.ActivityService
	Recorder    ports.ActivityRecorder
	Statistics  ports.StatisticsService

	Files          ports.FileStore
	UploadsDir     string
	UploadsBaseURL string
	MaxUploadBytes int64

	LoginRate  float64
	LoginBurst int
	// TrustedProxies are the networks whose X-Forwarded-For is believed.
	// Empty means the socket address identifies the client.
	TrustedProxies []*net.IPNet

	HealthChecks map[string]handler.DependencyCheck

	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "decree_portal",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CORS())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	decreeHandler := handler.NewDecreeHandler(d.Decrees, d.Recorder, d.Files)
	assignmentHandler := handler.NewAssignmentHandler(d.Assignments, d.Files)
	activityHandler := handler.NewActivityHandler(d.Activity, d.Recorder)
	statisticsHandler := handler.NewStatisticsHandler(d.Statistics)

	authMiddleware := middleware.Auth(d.JWTSecret)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret)
	adminOnly := middleware.AdminOnly()
	loginLimiter := middleware.NewIPRateLimiter(d.LoginRate, d.LoginBurst)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/login", authHandler.Login, middleware.RateLimit(loginLimiter))
	api.POST("/users", authHandler.CreateUser, authMiddleware, middleware.RBAC(domain.RoleSuperAdmin))

	// --- Decree routes ---
	// Public downloads are registered before the admin group so that the
	// group middleware does not apply to them.
	api.GET("/decrets/download-by-number", decreeHandler.DownloadByNumber)
	api.GET("/decrets/:id/download", decreeHandler.Download, optionalAuth)

	decrets := api.Group("/decrets", authMiddleware, adminOnly)
	decrets.GET("", decreeHandler.List)
	decrets.POST("/import", decreeHandler.Import, echomiddleware.BodyLimit(bodyLimit(d.MaxUploadBytes)))
	decrets.GET("/:id", decreeHandler.Get)
	decrets.PUT("/:id", decreeHandler.Update)
	decrets.DELETE("/:id", decreeHandler.Delete)
	decrets.POST("/:id/publish", decreeHandler.Publish)
	decrets.POST("/:id/archive", decreeHandler.Archive)

	// --- Public consultation ---
	api.GET("/affectations", assignmentHandler.List)
	api.GET("/affectations/search", assignmentHandler.Search)
	api.GET("/affectations/fields", assignmentHandler.Fields)
	api.GET("/templates/download", handler.TemplateDownload)

	// --- Activity & statistics ---
	api.POST("/logs", activityHandler.Create)
	api.GET("/logs", activityHandler.List, authMiddleware, adminOnly)
	api.GET("/statistiques", statisticsHandler.Overview, authMiddleware, adminOnly)

	// --- Signed PDFs are served as static files ---
	if prefix := staticPrefix(d.UploadsBaseURL); prefix != "" && d.UploadsDir != "" {
		e.Static(prefix+"/"+ports.FolderPDF, filepath.Join(d.UploadsDir, ports.FolderPDF))
	}

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// ipExtractor reads the direct peer address unless trusted proxies are
// configured, in which case the right-most untrusted X-Forwarded-For hop wins.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// bodyLimit leaves room for the form fields around two files of maxUpload bytes.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		return "0"
	}
	return strconv.FormatInt((2*maxUpload+(1<<20))/1024, 10) + "K"
}

// staticPrefix extracts the URL path files are published under.
func staticPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
