package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPageData represents data for login page
type LoginPageData struct {
	TemplateData
	FormError   string
	FormSuccess string
	Username    string
}

// loginPage displays the login form
func (s *WebServer) loginPage(c *gin.Context) {
	// Check if user is already logged in
	if session := s.getWebSession(c); session != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// Handle different message types
	var errorMsg, successMsg string
	switch c.Query("message") {
	case "login_required":
		errorMsg = "Please login"
	case "registered":
		successMsg = "You have successfully registered"
	case "logged_out":
		// No notice for normal logout
	}

	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		FormError:    errorMsg,
		FormSuccess:  successMsg,
	}

	s.renderPage(c, http.StatusOK, "login.html", data)
}

// loginSubmit processes login form submission
func (s *WebServer) loginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	// Validate input
	if username == "" || password == "" {
		s.renderLoginError(c, "Username and password are required", username)
		return
	}

	// Look up the account
	user, err := s.DB.GetUserByUsername(username)
	if err != nil {
		s.renderLoginError(c, "This user doesn't exist", username)
		return
	}

	// Check password
	if !checkPassword(password, user.PasswordHash) {
		s.renderLoginError(c, "Wrong Password", username)
		return
	}

	// Successful login - create a session and set the cookie
	sessionID, err := s.establishSession(c, user.Username)
	if err != nil {
		s.renderLoginError(c, "Failed to create session", username)
		return
	}

	SetFlashSuccess(sessionID, "You have successfully logged in")
	c.Redirect(http.StatusSeeOther, "/")
}

// logout handles user logout
func (s *WebServer) logout(c *gin.Context) {
	// Drop the session row so the cookie can't be replayed
	if sessionID, err := c.Cookie("session_id"); err == nil {
		if err := s.DB.DeleteSession(sessionID); err != nil {
			// Cookie still gets cleared; the row expires on its own
			log.Printf("logout: delete session failed: %v", err)
		}
	}

	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// renderLoginError renders login page with error
func (s *WebServer) renderLoginError(c *gin.Context, errorMsg, username string) {
	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		FormError:    errorMsg,
		Username:     username,
	}
	s.renderPage(c, http.StatusBadRequest, "login.html", data)
}
