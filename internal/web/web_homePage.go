package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *WebServer) homePage(c *gin.Context) {
	data := s.getBaseTemplateData(c, "Home")
	s.renderPage(c, http.StatusOK, "home.html", data)
}

func (s *WebServer) aboutPage(c *gin.Context) {
	data := s.getBaseTemplateData(c, "About")
	s.renderPage(c, http.StatusOK, "about.html", data)
}
