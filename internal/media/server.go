// Package media serves listing photos referenced by Listing.ImageURL.
package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"campusbingo/internal/common"
	"campusbingo/internal/dbmongo"

	"github.com/gorilla/mux"
)

type HTTPServer struct {
	images dbmongo.ImageSource
	log    *slog.Logger
	router *mux.Router
}

func NewHTTPServer(images dbmongo.ImageSource, log *slog.Logger) *HTTPServer {
	s := &HTTPServer{
		images: images,
		log:    log,
	}

	router := mux.NewRouter()
	router.Use(common.LoggingMiddleware(log))
	router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router = router
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	rc, file, err := s.images.OpenImage(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		s.log.Error("failed to open image", "file_id", fileID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if !file.UploadedAt.IsZero() {
		w.Header().Set("Last-Modified", file.UploadedAt.UTC().Format(http.TimeFormat))
	}
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, rc); err != nil {
		s.log.Warn("error streaming image", "file_id", fileID, "error", err)
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}
