package web

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/database"
)

// articlesPage renders the public list of all articles.
// An empty table renders a page with no articles, not an error.
func (s *WebServer) articlesPage(c *gin.Context) {
	articles, err := s.DB.GetAllArticles()
	if err != nil {
		log.Printf("ERROR: Failed to load articles: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := ArticlesPageData{
		TemplateData: s.getBaseTemplateData(c, "Articles"),
		Articles:     articles,
	}
	s.renderPage(c, http.StatusOK, "articles.html", data)
}

// articlePage renders a single public article view.
// An unknown id renders the page with no article payload.
func (s *WebServer) articlePage(c *gin.Context) {
	data := ArticlePageData{
		TemplateData: s.getBaseTemplateData(c, "Article"),
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		article, err := s.DB.GetArticleByID(id)
		if err != nil && !database.IsNotFound(err) {
			s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
			return
		}
		data.Article = article
	}

	s.renderPage(c, http.StatusOK, "article.html", data)
}
