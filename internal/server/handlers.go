package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"shelfscan/internal/barcode"
	"shelfscan/internal/logging"
	"shelfscan/internal/services"
)

func (s *Server) handleScanBarcode(w http.ResponseWriter, r *http.Request) {
	var readings []barcode.Reading
	if isImageUpload(r) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			s.writeError(w, http.StatusBadRequest, "unable to read request body")
			return
		}
		if len(payload) == 0 {
			s.writeError(w, http.StatusBadRequest, "No image data provided")
			return
		}
		readings = barcode.Decode(payload)
	} else {
		var req scanRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Image) == "" {
			s.writeError(w, http.StatusBadRequest, "No image data provided")
			return
		}
		readings = barcode.DecodeString(req.Image)
	}

	if len(readings) == 0 {
		s.writeError(w, http.StatusBadRequest, "No barcode found in image")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"barcodes": readings,
	})
}

func isImageUpload(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/octet-stream"
}

func (s *Server) handleSearchBarcode(w http.ResponseWriter, r *http.Request) {
	var req barcodeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	code := strings.TrimSpace(req.Barcode)
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "No barcode provided")
		return
	}

	ctx := services.WithBarcode(r.Context(), code)
	record := s.deps.Lookup.ResolveBarcode(ctx, code)
	if record == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "Movie not found for this barcode",
			"barcode": code,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   record.Map(),
	})
}

func (s *Server) handleSearchTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.writeError(w, http.StatusBadRequest, "No title provided")
		return
	}

	record := s.deps.Lookup.ResolveTitle(r.Context(), title)
	if record == nil {
		s.writeError(w, http.StatusNotFound, "Movie not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   record.Map(),
	})
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	item, err := s.deps.Store.Add(r.Context(), req.toNewItem())
	if err != nil {
		s.writeServiceError(w, r, "add_movie", err)
		return
	}
	logging.WithContext(r.Context(), s.logger).Info("movie added to collection",
		logging.Int64("movie_id", item.ID),
		logging.String("title", item.Title),
		logging.String(logging.FieldSource, item.LookupSource),
	)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   item.Map(),
	})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list_movies", err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Map())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := s.movieID(w, r)
	if !ok {
		return
	}
	item, err := s.deps.Store.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		s.writeServiceError(w, r, "get_movie", err)
		return
	}
	s.writeJSON(w, http.StatusOK, item.Map())
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := s.movieID(w, r)
	if !ok {
		return
	}
	err := s.deps.Store.Delete(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		s.writeServiceError(w, r, "delete_movie", err)
		return
	}
	logging.WithContext(r.Context(), s.logger).Info("movie removed from collection", logging.Int64("movie_id", id))
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusNotFound, "movie not found")
		return 0, false
	}
	return id, true
}

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	Running         bool     `json:"running"`
	CollectionCount int      `json:"collection_count"`
	DatabasePath    string   `json:"database_path"`
	Backends        []string `json:"backends"`
	TMDBConfigured  bool     `json:"tmdb_configured"`
	AuthRequired    bool     `json:"auth_required"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.deps.Store.Count(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "status", err)
		return
	}
	backends := s.deps.Backends
	if backends == nil {
		backends = []string{}
	}
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Running:         true,
		CollectionCount: count,
		DatabasePath:    s.cfg.DatabasePath(),
		Backends:        backends,
		TMDBConfigured:  s.deps.TMDBConfigured,
		AuthRequired:    s.cfg.Paths.APIToken != "",
	})
}
