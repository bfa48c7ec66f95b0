package web

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/models"
)

const msgNotOwner = "No such article, or you are not authorized."

// addArticlePage displays the empty article form
func (s *WebServer) addArticlePage(c *gin.Context) {
	data := ArticleFormData{
		TemplateData: s.getBaseTemplateData(c, "Add Article"),
	}
	s.renderPage(c, http.StatusOK, "add-article.html", data)
}

// addArticleSubmit inserts a new article authored by the session user
func (s *WebServer) addArticleSubmit(c *gin.Context) {
	session := requestSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required")
		return
	}

	title := models.NormalizeFormText(c.PostForm("title"))
	content := models.NormalizeFormText(c.PostForm("content"))

	if errMsg := validateArticleForm(title, content); errMsg != "" {
		s.renderArticleForm(c, "add-article.html", 0, title, content, errMsg)
		return
	}

	article := &models.Article{
		Title:   title,
		Author:  session.Username,
		Content: content,
	}
	if err := s.DB.InsertArticle(article); err != nil {
		log.Printf("ERROR: Failed to insert article for %s: %v", session.Username, err)
		s.renderArticleForm(c, "add-article.html", 0, title, content, "Failed to save article")
		return
	}

	session.SetSuccess("Article successfully added")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// editArticlePage renders the edit form prefilled with the caller's article.
// The ownership lookup filters on both id and author: a miss means no such
// article or not the owner, and the caller is sent back to the index.
func (s *WebServer) editArticlePage(c *gin.Context) {
	session := requestSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	article, err := s.DB.GetArticleByIDAndAuthor(id, session.Username)
	if err != nil {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	s.renderArticleForm(c, "update.html", article.ID, article.Title, article.Content, "")
}

// editArticleSubmit writes the mutation through a single conditional
// statement; zero affected rows means not found or not the owner.
func (s *WebServer) editArticleSubmit(c *gin.Context) {
	session := requestSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	title := models.NormalizeFormText(c.PostForm("title"))
	content := models.NormalizeFormText(c.PostForm("content"))

	if errMsg := validateArticleForm(title, content); errMsg != "" {
		s.renderArticleForm(c, "update.html", id, title, content, errMsg)
		return
	}

	updated, err := s.DB.UpdateArticle(id, title, content, session.Username)
	if err != nil {
		log.Printf("ERROR: Failed to update article %d for %s: %v", id, session.Username, err)
		s.renderArticleForm(c, "update.html", id, title, content, "Failed to save article")
		return
	}
	if !updated {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	session.SetSuccess("Article successfully updated")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// deleteArticle removes the caller's article under the same ownership contract
func (s *WebServer) deleteArticle(c *gin.Context) {
	session := requestSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	deleted, err := s.DB.DeleteArticle(id, session.Username)
	if err != nil {
		log.Printf("ERROR: Failed to delete article %d for %s: %v", id, session.Username, err)
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}
	if !deleted {
		session.SetError(msgNotOwner)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// validateArticleForm returns the first validation failure message, or ""
func validateArticleForm(title, content string) string {
	if err := validateTitle(title); err != nil {
		return err.Error()
	}
	if err := validateContent(content); err != nil {
		return err.Error()
	}
	return ""
}

// renderArticleForm re-renders the add or edit form with entered values
func (s *WebServer) renderArticleForm(c *gin.Context, page string, id int64, title, content, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	data := ArticleFormData{
		TemplateData: s.getBaseTemplateData(c, "Article Form"),
		FormError:    errMsg,
		ArticleID:    id,
		FormTitle:    title,
		FormText:     content,
		EditingRow:   page == "update.html",
	}
	s.renderPage(c, status, page, data)
}
