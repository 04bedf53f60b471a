// @title           Face Detection API
// @version         1.0
// @host            localhost:8000
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"serwer-detekcji/internal/api"
	"serwer-detekcji/internal/config"
	"serwer-detekcji/internal/database"
	"serwer-detekcji/internal/storage"
	"serwer-detekcji/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-detekcji/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Nie można zainicjować local storage: %v", err)
	}
	log.Printf("Zdjęcia twarzy będą przechowywane w: %s", cfg.Storage.Path)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)
	server := api.NewServer(cfg, store, localStorage, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(api.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8000/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer detekcji działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Post("/auth/register", server.RegisterHandler)
	r.Post("/auth/login", server.LoginHandler)
	r.Get("/packages", server.ListPackagesHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/auth/me", server.GetCurrentUserHandler)
		r.Post("/auth/logout", server.LogoutHandler)
		r.Get("/auth/sessions", server.ListSessionsHandler)
		r.Delete("/auth/sessions", server.TerminateAllSessionsHandler)
		r.Delete("/auth/sessions/{sessionId}", server.DeleteSessionHandler)

		r.Get("/cameras", server.ListCamerasHandler)
		r.Post("/cameras", server.CreateCameraHandler)
		r.Get("/cameras/{cameraId}", server.GetCameraHandler)
		r.Put("/cameras/{cameraId}", server.UpdateCameraHandler)
		r.Delete("/cameras/{cameraId}", server.DeleteCameraHandler)
		r.Post("/cameras/{cameraId}/test", server.TestCameraHandler)

		r.Get("/faces", server.ListFacesHandler)
		r.Post("/faces", server.UploadFaceHandler)
		r.Post("/faces/upload", server.UploadFaceHandler)
		r.Put("/faces/{faceId}", server.UpdateFaceHandler)
		r.Delete("/faces/{faceId}", server.DeleteFaceHandler)
		r.Get("/faces/{faceId}/image", server.DownloadFaceImageHandler)

		r.Get("/detections", server.ListDetectionsHandler)
		r.Post("/detections", server.CreateDetectionHandler)

		r.Get("/dashboard/stats", server.DashboardStatsHandler)
	})

	log.Printf("Uruchamianie serwera na %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
