package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hilalapp/hilal/internal/backup"
	"github.com/hilalapp/hilal/internal/handler"
	"github.com/hilalapp/hilal/internal/middleware"
	"github.com/hilalapp/hilal/internal/photo"
	"github.com/hilalapp/hilal/internal/prayertimes"
	"github.com/hilalapp/hilal/internal/store"
)

// Config holds the server's wiring options.
type Config struct {
	PhotoDir       string
	AllowedOrigins []string
	Backup         backup.Config
}

type Server struct {
	db           *sql.DB
	familyH      *handler.FamilyHandler
	memberH      *handler.MemberHandler
	customItemH  *handler.CustomItemHandler
	entryH       *handler.EntryHandler
	statsH       *handler.StatsHandler
	prayerTimesH *handler.PrayerTimesHandler
	backupH      *handler.BackupHandler
	backups      *backup.Manager
	photos       *photo.Storage
	cfg          Config
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) (*Server, error) {
	photos, err := photo.NewStorage(cfg.PhotoDir)
	if err != nil {
		return nil, err
	}

	familyStore := store.NewFamilyStore(db)
	memberStore := store.NewMemberStore(db)
	customItemStore := store.NewCustomItemStore(db)
	entryStore := store.NewEntryStore(db)
	prayerTimesStore := store.NewPrayerTimesStore(db)

	prayerSvc := prayertimes.NewService(prayerTimesStore, logger.With("component", "prayertimes"))
	backups := backup.NewManager(cfg.Backup, db, logger.With("component", "backup"))

	return &Server{
		db:           db,
		familyH:      handler.NewFamilyHandler(familyStore, logger.With("component", "family")),
		memberH:      handler.NewMemberHandler(memberStore, familyStore, photos, logger.With("component", "member")),
		customItemH:  handler.NewCustomItemHandler(customItemStore, memberStore, logger.With("component", "custom_item")),
		entryH:       handler.NewEntryHandler(entryStore, memberStore, logger.With("component", "entry")),
		statsH:       handler.NewStatsHandler(familyStore, memberStore, entryStore, customItemStore, logger.With("component", "stats")),
		prayerTimesH: handler.NewPrayerTimesHandler(prayerSvc),
		backupH:      handler.NewBackupHandler(backups, logger.With("component", "backup")),
		backups:      backups,
		photos:       photos,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Families
	mux.HandleFunc("POST /api/families", s.familyH.Create)
	mux.HandleFunc("GET /api/families", s.familyH.List)
	mux.HandleFunc("GET /api/families/{id}", s.familyH.Get)
	mux.HandleFunc("PUT /api/families/{id}", s.familyH.Update)
	mux.HandleFunc("DELETE /api/families/{id}", s.familyH.Delete)

	// Members
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/families/{id}/members", s.memberH.ListByFamily)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{id}/photo", s.memberH.UploadPhoto)

	// Custom checklist items
	mux.HandleFunc("POST /api/custom-items", s.customItemH.Create)
	mux.HandleFunc("GET /api/members/{id}/custom-items", s.customItemH.ListByMember)
	mux.HandleFunc("PUT /api/custom-items/{id}", s.customItemH.Update)
	mux.HandleFunc("DELETE /api/custom-items/{id}", s.customItemH.Delete)

	// Daily entries
	mux.HandleFunc("GET /api/members/{id}/daily-stats", s.entryH.DailyStats)
	mux.HandleFunc("POST /api/members/{id}/entries/{date}", s.entryH.Upsert)

	// Derived views
	mux.HandleFunc("GET /api/members/{id}/progress", s.statsH.MemberProgress)
	mux.HandleFunc("GET /api/families/{id}/progress", s.statsH.FamilyProgress)
	mux.HandleFunc("GET /api/families/{id}/monthly-stats", s.statsH.MonthlyStats)
	mux.HandleFunc("GET /api/families/{id}/leaderboard", s.statsH.Leaderboard)

	// Prayer times
	mux.HandleFunc("GET /api/prayer-times", s.prayerTimesH.Get)

	// Backups
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)

	// Member photos
	mux.Handle("GET /static/photos/", http.StripPrefix("/static/photos/", http.FileServer(http.Dir(s.photos.Dir()))))

	mux.HandleFunc("GET /health", s.healthHandler)

	var h http.Handler = mux
	h = middleware.CORS(s.cfg.AllowedOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

// Backups exposes the backup manager so main can start and stop its schedule
// alongside the HTTP server.
func (s *Server) Backups() *backup.Manager {
	return s.backups
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
