package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/database"
	"github.com/go-while/go-pressleaf/internal/models"
)

// RegisterPageData represents data for register page
type RegisterPageData struct {
	TemplateData
	FormError string
	Name      string
	Username  string
	Email     string
}

// registerPage displays the registration form
func (s *WebServer) registerPage(c *gin.Context) {
	// Check if user is already logged in
	if session := s.getWebSession(c); session != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
	}
	s.renderPage(c, http.StatusOK, "register.html", data)
}

// registerSubmit processes registration form submission
func (s *WebServer) registerSubmit(c *gin.Context) {
	name := models.NormalizeFormText(c.PostForm("name"))
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm")

	// Validate input
	if name == "" || username == "" || email == "" || password == "" {
		s.renderRegisterError(c, "All fields are required", name, username, email)
		return
	}

	// Validate passwords match
	if password != confirm {
		s.renderRegisterError(c, "Passwords do not match", name, username, email)
		return
	}

	// Validate field constraints
	if err := validateName(name); err != nil {
		s.renderRegisterError(c, err.Error(), name, username, email)
		return
	}
	if err := validateUsername(username); err != nil {
		s.renderRegisterError(c, err.Error(), name, username, email)
		return
	}
	if !validateEmail(email) {
		s.renderRegisterError(c, "Invalid email format", name, username, email)
		return
	}
	if err := validatePassword(password); err != nil {
		s.renderRegisterError(c, err.Error(), name, username, email)
		return
	}

	// Hash password
	passwordHash, err := hashPassword(password)
	if err != nil {
		s.renderRegisterError(c, "Failed to process password", name, username, email)
		return
	}

	// Create user; the schema's UNIQUE constraint catches duplicate usernames
	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.DB.InsertUser(user); err != nil {
		if database.IsUniqueConstraintError(err) {
			s.renderRegisterError(c, "Username already exists", name, username, email)
			return
		}
		log.Printf("ERROR: Failed to create user %s: %v", username, err)
		s.renderRegisterError(c, "Failed to create user", name, username, email)
		return
	}
	log.Printf("INFO: Successfully registered user %s", username)

	// Confirmation is shown on the login page after the redirect
	c.Redirect(http.StatusSeeOther, "/login?message=registered")
}

// renderRegisterError renders register page with error
func (s *WebServer) renderRegisterError(c *gin.Context, errorMsg, name, username, email string) {
	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
		FormError:    errorMsg,
		Name:         name,
		Username:     username,
		Email:        email,
	}
	s.renderPage(c, http.StatusBadRequest, "register.html", data)
}
