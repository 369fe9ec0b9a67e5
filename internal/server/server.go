package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rosettasub/internal/config"
	"rosettasub/internal/language"
	"rosettasub/internal/logging"
	"rosettasub/internal/media"
	"rosettasub/internal/pipeline"
)

// allowedUploadTypes is the upload receiver's content-type allow-list.
var allowedUploadTypes = map[string]bool{
	"audio/mpeg":      true,
	"audio/wav":       true,
	"video/mp4":       true,
	"video/quicktime": true,
}

const maxUploadBytes = 512 << 20

// Server is the HTTP surface over the subtitle pipeline.
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	pipeline *pipeline.Service
	router   *mux.Router
}

func New(
	cfg *config.Config,
	logger *logging.Logger,
	svc *pipeline.Service,
) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		pipeline: svc,
		router:   mux.NewRouter(),
	}

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	api.HandleFunc("/translate", s.handleTranslate).Methods(http.MethodPost)
	api.HandleFunc("/files/{name}", s.handleServeFile).Methods(http.MethodGet)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	s.logger.Infow("Server listening",
		"addr", s.cfg.Addr,
		"scratch_dir", s.cfg.ScratchDir,
	)
	return http.ListenAndServe(s.cfg.Addr, s.router)
}

// Sweep unconditionally deletes every entry in the scratch directory. Run at
// process startup so each boot begins with an empty namespace.
func Sweep(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scratch directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "rosettasub subtitle service",
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf(
			"unsupported content type %q: only MP3, WAV, MP4 or QuickTime uploads are accepted",
			contentType,
		))
		return
	}

	uploadPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	vttPath, videoPath, err := s.pipeline.Transcribe(r.Context(), uploadPath)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"subtitle_file": filepath.Base(vttPath),
		"video_file":    filepath.Base(videoPath),
	})
}

type translateRequest struct {
	FileName       string `json:"file_name"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		// freshly uploaded caption document
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".vtt") {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf(
				"unsupported subtitle upload %q: only .vtt files are accepted",
				header.Filename,
			))
			return
		}

		uploadPath, err := s.saveUpload(file, header.Filename)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		req.FileName = filepath.Base(uploadPath)
		req.SourceLanguage = r.FormValue("source_language")
		req.TargetLanguage = r.FormValue("target_language")
	} else {
		// reference to a previously produced document
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	if req.FileName == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("file_name is required"))
		return
	}
	if req.TargetLanguage == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("target_language is required"))
		return
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = language.Auto
	}

	vttPath := filepath.Join(s.cfg.ScratchDir, filepath.Base(req.FileName))
	outPath, err := s.pipeline.Translate(
		r.Context(),
		vttPath,
		req.SourceLanguage,
		req.TargetLanguage,
	)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"subtitle_file": filepath.Base(outPath),
	})
}

func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid file name"))
		return
	}

	path := filepath.Join(s.cfg.ScratchDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("file not found: %s", name))
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	http.ServeFile(w, r, path)
}

// saveUpload persists an upload under a collision-resistant random name,
// keeping the original extension so the kind classification still works.
func (s *Server) saveUpload(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.cfg.ScratchDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	return path, nil
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".vtt" {
		return "text/vtt; charset=utf-8"
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var unknownCode *language.ErrUnknownCode
	switch {
	case errors.Is(err, pipeline.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, media.ErrUnsupportedMedia):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &unknownCode):
		s.writeError(w, http.StatusBadRequest, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("Request failed", "error", err)
	} else {
		s.logger.Warnw("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
