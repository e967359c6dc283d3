package server

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/log"
)

type errorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"requestId,omitempty"`
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid  bool             `json:"valid"`
	Errors []fieldErrorJSON `json:"errors"`
}

type recolorRequest struct {
	SVG             string `json:"svg"`
	BackgroundColor string `json:"backgroundColor"`
	IconColor       string `json:"iconColor"`
}

type recolorResponse struct {
	DataURI string `json:"dataUri"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	block, ok := s.readBlock(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	fullPage, _ := strconv.ParseBool(q.Get("fullPage"))
	res, err := s.renderer.Render(r.Context(), cmsblocks.Input{
		Block:    block,
		FullPage: fullPage,
		Title:    q.Get("title"),
	})
	s.countRender(block, err)
	if err != nil {
		s.writeRenderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.HTML)
}

// handlePreview returns a PNG screenshot of the block at one viewport.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	vp := cmsblocks.DesktopViewport
	if len(s.cfg.Viewports) > 0 {
		vp = s.cfg.Viewports[0]
	}
	if raw := r.URL.Query().Get("viewport"); raw != "" {
		parsed, err := cmsblocks.ParseViewport(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_viewport", err.Error())
			return
		}
		vp = parsed
	}

	block, ok := s.readBlock(w, r)
	if !ok {
		return
	}

	res, err := s.renderer.Render(r.Context(), cmsblocks.Input{
		Block:   block,
		Title:   r.URL.Query().Get("title"),
		Preview: &cmsblocks.PreviewSettings{Viewports: []cmsblocks.Viewport{vp}},
	})
	s.countRender(block, err)
	if err != nil {
		s.writeRenderError(w, r, err)
		return
	}
	if len(res.Previews) == 0 {
		writeError(w, r, http.StatusInternalServerError, "preview_failed", "no preview was captured")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Previews[0].PNG)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	block, ok := s.readBlock(w, r)
	if !ok {
		return
	}

	resp := validateResponse{Valid: true, Errors: []fieldErrorJSON{}}
	if err := block.Validate(s.cfg.Limits); err != nil {
		fields := cmsblocks.FieldErrors(err)
		if fields == nil {
			s.writeRenderError(w, r, err)
			return
		}
		resp.Valid = false
		resp.Errors = fieldErrorsJSON(fields)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecolor(w http.ResponseWriter, r *http.Request) {
	var req recolorRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if status, code, ok := bodyError(err); ok {
			writeError(w, r, status, code, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.SVG) == "" {
		writeError(w, r, http.StatusBadRequest, "missing_svg", "svg is required")
		return
	}

	key := iconCacheKey(req)
	if uri, ok := s.icons.Get(key); ok {
		s.metrics.iconCache.WithLabelValues("hit").Inc()
		writeJSON(w, http.StatusOK, recolorResponse{DataURI: uri})
		return
	}
	s.metrics.iconCache.WithLabelValues("miss").Inc()

	uri, err := cmsblocks.RecolorSVG(req.SVG, req.BackgroundColor, req.IconColor)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "malformed_svg", err.Error())
		return
	}
	s.icons.Set(key, uri)
	writeJSON(w, http.StatusOK, recolorResponse{DataURI: uri})
}

// readBlock decodes the request body as a block document. It writes the error
// response and returns false on failure.
func (s *Server) readBlock(w http.ResponseWriter, r *http.Request) (*cmsblocks.Block, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		if status, code, ok := bodyError(err); ok {
			writeError(w, r, status, code, err.Error())
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "unreadable_body", err.Error())
		return nil, false
	}
	block, err := cmsblocks.ParseBlock(data)
	if err != nil {
		s.writeRenderError(w, r, err)
		return nil, false
	}
	return block, true
}

func (s *Server) countRender(block *cmsblocks.Block, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.renders.WithLabelValues(string(block.Type), outcome).Inc()
}

// writeRenderError maps library errors to HTTP responses.
func (s *Server) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	if fields := cmsblocks.FieldErrors(err); fields != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Valid: false, Errors: fieldErrorsJSON(fields)})
		return
	}

	status, code := http.StatusInternalServerError, "render_failed"
	switch {
	case errors.Is(err, cmsblocks.ErrEmptyBlock),
		errors.Is(err, cmsblocks.ErrBlockParse),
		errors.Is(err, cmsblocks.ErrUnknownBlockType),
		errors.Is(err, cmsblocks.ErrInvalidViewport):
		status, code = http.StatusBadRequest, "invalid_block"
	case errors.Is(err, cmsblocks.ErrMediaNotFound),
		errors.Is(err, cmsblocks.ErrFileNotFound),
		errors.Is(err, cmsblocks.ErrIconLoad),
		errors.Is(err, cmsblocks.ErrMalformedSVG):
		status, code = http.StatusUnprocessableEntity, "unresolvable_block"
	case r.Context().Err() != nil && errors.Is(err, r.Context().Err()):
		status, code = http.StatusServiceUnavailable, "request_cancelled"
	}

	if status >= http.StatusInternalServerError {
		l := log.FromContext(r.Context(), s.logger)
		l.Error().Err(err).Msg("render failed")
	}
	writeError(w, r, status, code, err.Error())
}

func bodyError(err error) (status int, code string, ok bool) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "body_too_large", true
	}
	return 0, "", false
}

func fieldErrorsJSON(fields []cmsblocks.FieldError) []fieldErrorJSON {
	out := make([]fieldErrorJSON, len(fields))
	for i, fe := range fields {
		out[i] = fieldErrorJSON{Field: fe.Field, Message: fe.Err.Error()}
	}
	return out
}

// iconCacheKey hashes the request fields, each prefixed with its length so
// distinct requests never share a key.
func iconCacheKey(req recolorRequest) string {
	h := sha256.New()
	var n [8]byte
	for _, field := range []string{req.BackgroundColor, req.IconColor, req.SVG} {
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}
