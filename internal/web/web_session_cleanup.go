package web

import (
	"log"
	"time"
)

// StartSessionCleanup starts a background goroutine to clean up expired sessions
func (s *WebServer) StartSessionCleanup() {
	go func() {
		for {
			select {
			case <-s.DB.StopChan:
				return
			case <-time.After(15 * time.Minute):
			}
			if err := s.DB.CleanupExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	log.Println("Started session cleanup background task")
}
