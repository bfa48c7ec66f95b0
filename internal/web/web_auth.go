package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pressleaf/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// FlashMessage is a one-shot status notice shown on the next rendered page
type FlashMessage struct {
	Type    string // "success" or "error"
	Message string
}

// Global flash message map and mutex
var (
	flashMessages   = make(map[string]FlashMessage)
	flashMessagesMu sync.RWMutex
)

// SetFlashError sets a temporary error message for a session
func SetFlashError(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "error", Message: msg}
	flashMessagesMu.Unlock()
}

// SetFlashSuccess sets a temporary success message for a session
func SetFlashSuccess(sessionID, msg string) {
	flashMessagesMu.Lock()
	flashMessages[sessionID] = FlashMessage{Type: "success", Message: msg}
	flashMessagesMu.Unlock()
}

// GetAndClearFlash retrieves and clears flash messages for a session
func GetAndClearFlash(sessionID string) (success, errorMsg string) {
	flashMessagesMu.Lock()
	fm := flashMessages[sessionID]
	switch fm.Type {
	case "success":
		success = fm.Message
	case "error":
		errorMsg = fm.Message
	}
	delete(flashMessages, sessionID)
	flashMessagesMu.Unlock()
	return
}

// AuthUser represents a logged-in user for template rendering
type AuthUser struct {
	Username string `json:"username"`
}

// SessionData represents session information for the current request
type SessionData struct {
	SessionID string
	Username  string
	ExpiresAt time.Time
}

// SetError sets a temporary error message in session data
func (s *SessionData) SetError(msg string) {
	SetFlashError(s.SessionID, msg)
}

// SetSuccess sets a temporary success message in session data
func (s *SessionData) SetSuccess(msg string) {
	SetFlashSuccess(s.SessionID, msg)
}

// WebAuthRequired middleware gates every authoring route. Anonymous
// requests get a "please login" notice and a redirect instead of an error.
func (s *WebServer) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := s.getWebSession(c)
		if session == nil {
			c.Redirect(http.StatusSeeOther, "/login?message=login_required")
			c.Abort()
			return
		}

		// Store session in context for handlers
		c.Set("session", session)
		c.Next()
	}
}

// requestSession returns the session stored by WebAuthRequired
func requestSession(c *gin.Context) *SessionData {
	if v, exists := c.Get("session"); exists {
		if session, ok := v.(*SessionData); ok {
			return session
		}
	}
	return nil
}

// getWebSession retrieves session from cookie and returns session data
func (s *WebServer) getWebSession(c *gin.Context) *SessionData {
	sessionID, err := c.Cookie("session_id")
	if err != nil {
		return nil
	}

	session, err := s.DB.ValidateUserSession(sessionID)
	if err != nil {
		return nil
	}

	return &SessionData{
		SessionID: session.ID,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}
}

// establishSession creates a session row for the user and sets the cookie
func (s *WebServer) establishSession(c *gin.Context, username string) (string, error) {
	sessionID, err := s.DB.CreateUserSession(username)
	if err != nil {
		return "", err
	}
	s.setSessionCookie(c, sessionID)
	return sessionID, nil
}

// hashPassword creates a bcrypt hash of the password
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPassword checks if password matches hash
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// validateName validates the display name requirements
func validateName(name string) error {
	if len(name) < config.NameMinLen {
		return fmt.Errorf("name must be at least %d characters long", config.NameMinLen)
	}
	if len(name) > config.NameMaxLen {
		return fmt.Errorf("name must be at most %d characters", config.NameMaxLen)
	}
	return nil
}

// validateUsername validates username requirements
func validateUsername(username string) error {
	if len(username) < config.UsernameMinLen {
		return fmt.Errorf("username must be at least %d characters long", config.UsernameMinLen)
	}
	if len(username) > config.UsernameMaxLen {
		return fmt.Errorf("username must be at most %d characters", config.UsernameMaxLen)
	}
	// Only allow alphanumeric and underscore
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '_') {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}
	return nil
}

// validateEmail performs basic email validation
func validateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".") &&
		!strings.ContainsAny(email, " \t")
}

// validatePassword validates password requirements
func validatePassword(password string) error {
	if len(password) < config.PasswordMinLen {
		return fmt.Errorf("password must be at least %d characters long", config.PasswordMinLen)
	}
	if len(password) > config.PasswordMaxLen {
		return fmt.Errorf("password must be at most %d characters", config.PasswordMaxLen)
	}
	return nil
}

// validateTitle validates article title requirements
func validateTitle(title string) error {
	if len(title) < config.TitleMinLen {
		return fmt.Errorf("title must be at least %d characters long", config.TitleMinLen)
	}
	if len(title) > config.TitleMaxLen {
		return fmt.Errorf("title must be at most %d characters", config.TitleMaxLen)
	}
	return nil
}

// validateContent validates article content requirements
func validateContent(content string) error {
	if len(content) < config.ContentMinLen {
		return fmt.Errorf("content must be at least %d characters long", config.ContentMinLen)
	}
	return nil
}

// Helper function to set session cookie
func (s *WebServer) setSessionCookie(c *gin.Context, sessionID string) {
	// Detect HTTPS from the current request perspective only
	// Prefer actual TLS on the request or trusted reverse proxy header
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode, // Works well with reverse proxies
		MaxAge:   int(3 * 3600),
	}

	http.SetCookie(c.Writer, cookie)
}

// Helper function to clear session cookie
func (s *WebServer) clearSessionCookie(c *gin.Context) {
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Delete cookie
	}

	http.SetCookie(c.Writer, cookie)
}
