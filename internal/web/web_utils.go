package web

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/config"
)

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	StatusCode int
	Message    string
	Detail     string
}

// pageTemplate loads base.html plus one page template. Templates are parsed
// per request instead of with ParseGlob: the pages all define a "content"
// block and glob parsing causes name conflicts.
func (s *WebServer) pageTemplate(name string) *template.Template {
	return template.Must(template.ParseFiles(
		filepath.Join(s.Config.TemplateDir, "base.html"),
		filepath.Join(s.Config.TemplateDir, name),
	))
}

// renderPage executes a page template against the base layout
func (s *WebServer) renderPage(c *gin.Context, statusCode int, name string, data interface{}) {
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	if err := s.pageTemplate(name).ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template Error", err.Error())
	}
}

// getBaseTemplateData creates a TemplateData struct with common information including user auth
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:       template.HTML(title),
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		AppVersion:  config.AppVersion,
	}

	// Add user information and pending flash notices if logged in
	session := requestSession(c)
	if session == nil {
		session = s.getWebSession(c)
	}
	if session != nil {
		data.User = &AuthUser{Username: session.Username}
		data.Success, data.Error = GetAndClearFlash(session.SessionID)
	}

	return data
}

// renderError renders error pages with consistent formatting
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		StatusCode:   statusCode,
		Message:      message,
		Detail:       errstring,
	}

	tmpl := template.Must(template.ParseFiles(
		filepath.Join(s.Config.TemplateDir, "base.html"),
		filepath.Join(s.Config.TemplateDir, "error.html"),
	))
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	// Nothing left to do if even the error page fails to render
	_ = tmpl.ExecuteTemplate(c.Writer, "base.html", data)
}

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}
