package api

import (
	"log"
	"net/http"
	"serwer-detekcji/internal/auth"
	"serwer-detekcji/internal/websocket"
	"time"
)

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		log.Println("WS connection attempt without token")
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		log.Printf("WS connection attempt with invalid token: %v", err)
		return
	}

	// Token musi mieć też żywą sesję, inaczej wylogowany klient dalej dostawałby alerty.
	session, err := s.store.GetSessionByToken(r.Context(), tokenString)
	if err != nil || session == nil || session.UserID != claims.UserID || !session.ExpiresAt.After(time.Now()) {
		log.Println("WS connection attempt with revoked session")
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
