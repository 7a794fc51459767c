package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/external/cadence"
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/logmodule"
	"github.com/roarscore/roarscore-api/store"
)

const defaultMaxSessions = 256

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	store store.Store

	// External services
	source        detection.Source
	cadenceClient cadence.Client

	// scoring sessions
	engineConfig engine.Config
	sessions     *sessionPool

	registry *prometheus.Registry
	stats    *engineStats
}

// NewServer new instance of server
func NewServer(
	s store.Store,
	source detection.Source,
	cadenceClient cadence.Client,
	engineConfig engine.Config) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	maxSessions := viper.GetInt("server.max_sessions")
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	stats := newEngineStats(registry)
	return &Server{
		store:         s,
		source:        source,
		cadenceClient: cadenceClient,
		engineConfig:  engineConfig,
		sessions:      newSessionPool(maxSessions, stats.sessions),
		registry:      registry,
		stats:         stats,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Api-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)

	sessionRoute := apiRoute.Group("/sessions")
	{
		sessionRoute.POST("", s.createSession)
		sessionRoute.GET("/:sessionID", s.sessionSnapshot)
		sessionRoute.POST("/:sessionID/advance", s.advanceSession)
		sessionRoute.POST("/:sessionID/seek", s.seekSession)
		sessionRoute.GET("/:sessionID/box", s.sessionBoxAt)
		sessionRoute.DELETE("/:sessionID", s.deleteSession)
	}

	summaryRoute := apiRoute.Group("/summaries")
	{
		summaryRoute.GET("/:hierarchy", s.getSummary)
		summaryRoute.GET("/:hierarchy/moments", s.getMoments)
		summaryRoute.GET("/:hierarchy/export", s.exportSummary)
		summaryRoute.GET("/:hierarchy/rebuild", s.rebuildStatus)
	}

	profileRoute := apiRoute.Group("/profiles")
	{
		profileRoute.GET("", s.listProfiles)
		profileRoute.GET("/:profileID", s.getProfile)
	}

	secretRoute := r.Group("/secret")
	secretRoute.Use(logmodule.Ginrus("Secret"))
	secretRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.admin")))
	{
		secretRoute.PUT("/profiles/:profileID", s.saveProfile)
		secretRoute.POST("/summaries/:hierarchy/rebuild", s.rebuildSummary)
	}

	metricRoute := r.Group("/metrics")
	metricRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.metric")))
	{
		metricRoute.GET("", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.closeAll()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.store.Ping()
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"engine": map[string]interface{}{
				"window_size":   s.engineConfig.WindowSize,
				"softmax_alpha": s.engineConfig.Alpha,
				"ui_squash":     s.engineConfig.UISquash,
				"fps":           s.engineConfig.FPS,
				"lead_time":     s.engineConfig.LeadTime,
			},
			"system_version": "RoarScore 0.1",
			"docs":           viper.GetStringMap("docs"),
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
