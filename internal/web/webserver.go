// Package web provides the HTTP server and web interface for go-pressleaf
package web

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/config"
	"github.com/go-while/go-pressleaf/internal/database"
	"github.com/go-while/go-pressleaf/internal/models"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	Metrics   *Metrics
	StartTime time.Time // Track server start time for uptime calculations
}

// TemplateData represents common template data
type TemplateData struct {
	Title       template.HTML
	CurrentTime string
	AppVersion  string
	User        *AuthUser
	Success     string // One-shot flash notice, cleared on read
	Error       string
}

// ArticlesPageData represents data for the public article list and the dashboard
type ArticlesPageData struct {
	TemplateData
	Articles []*models.Article
}

// ArticlePageData represents data for a single article page
type ArticlePageData struct {
	TemplateData
	Article *models.Article
}

// ArticleFormData represents data for the add/edit article forms
type ArticleFormData struct {
	TemplateData
	FormError  string
	ArticleID  int64
	FormTitle  string
	FormText   string
	EditingRow bool // false renders the add form, true the edit form
}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig) *WebServer {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	// Apply security middleware
	router.Use(secure.New(secureConfig))

	server := &WebServer{
		DB:      db,
		Router:  router,
		Config:  webconfig,
		Metrics: NewMetrics(),
	}

	router.Use(server.MetricsMiddleware())

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.Static("/static", s.Config.StaticDir)

	s.Router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})
	s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	// Authentication routes
	s.Router.GET("/login", s.loginPage)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.GET("/logout", s.logout)

	// Public pages
	s.Router.GET("/", s.homePage)
	s.Router.GET("/about", s.aboutPage)
	s.Router.GET("/articles", s.articlesPage)
	s.Router.GET("/article/:id", s.articlePage)

	// Authoring pages (require a session)
	authed := s.Router.Group("/")
	authed.Use(s.WebAuthRequired())
	{
		authed.GET("/dashboard", s.dashboardPage)
		authed.GET("/add-article", s.addArticlePage)
		authed.POST("/add-article", s.addArticleSubmit)
		authed.GET("/edit/:id", s.editArticlePage)
		authed.POST("/edit/:id", s.editArticleSubmit)
		authed.GET("/delete/:id", s.deleteArticle)
	}
}

// Start runs the web server until it fails or the process exits
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("Starting HTTP server on %s", addr)
	return s.Router.Run(addr)
}
