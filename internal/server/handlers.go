package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/tgrunnagle/playing-card-gen/pkg/buildinfo"
	"github.com/tgrunnagle/playing-card-gen/pkg/config"
	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/pipeline"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
}

// handleRender renders the sheet of an uploaded configuration and decklist.
// Only the local image provider and the sheet layout are served, and the
// back is not rendered.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse multipart form"))
		return
	}

	cfgData, cfgName, err := formFile(r, "config")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := config.FormatOf(cfgName)
	cfg, err := config.Parse(cfgData, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if cfg.ImageProvider != config.ProviderLocal {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "only local images are supported"))
		return
	}
	if cfg.Output.Layout == string(deck.LayoutSingleton) {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "only the sheet layout is supported"))
		return
	}

	listData, _, err := formFile(r, "decklist")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{
		ConfigData:   cfgData,
		ConfigFormat: format,
		DecklistData: listData,
		DeckName:     pipeline.DefaultDeckName,
		SkipBack:     true,
		Logger:       log.FromContext(ctx),
		Source:       s.assets,
		Fonts:        s.fonts,
	}
	b, err := s.runner.BuildDeck(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer b.Close(ctx)

	if b.Deck.Len() == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "empty decklist"))
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, b, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(artifacts) != 1 {
		s.fail(w, r, errors.New(errors.ErrCodeInternal, "rendered %d images, want 1", len(artifacts)))
		return
	}

	log.FromContext(ctx).Debug("rendered", "cards", b.Deck.Len(), "cached", hit)
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[0].Data)
}

// formFile reads the uploaded file field and returns its bytes and name.
func formFile(r *http.Request, field string) ([]byte, string, error) {
	f, hdr, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "%s file required", field)
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", field)
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", field)
	}
	return data, hdr.Filename, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	id := RequestID(r.Context())
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "error", err)
	} else {
		logger.Warn("bad request", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
