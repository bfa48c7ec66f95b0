package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// dashboardPage renders the authoring dashboard: only the caller's articles
func (s *WebServer) dashboardPage(c *gin.Context) {
	session := requestSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required")
		return
	}

	articles, err := s.DB.GetArticlesByAuthor(session.Username)
	if err != nil {
		log.Printf("ERROR: Failed to load dashboard for %s: %v", session.Username, err)
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := ArticlesPageData{
		TemplateData: s.getBaseTemplateData(c, "Dashboard"),
		Articles:     articles,
	}
	s.renderPage(c, http.StatusOK, "dashboard.html", data)
}
