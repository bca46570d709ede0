package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/phylo/pkg/buildinfo"
	perrors "github.com/matzehuels/phylo/pkg/errors"
	pkgio "github.com/matzehuels/phylo/pkg/io"
	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/render"
)

type exprRequest struct {
	Expr    string `json:"expr"`
	Heights *bool  `json:"heights,omitempty"`
}

// heights defaults to true.
func (r exprRequest) heights() bool {
	return r.Heights == nil || *r.Heights
}

type exprResponse struct {
	Expr   string `json:"expr"`
	Cached bool   `json:"cached,omitempty"`
}

type equalRequest struct {
	A            string `json:"a"`
	B            string `json:"b"`
	TopologyOnly bool   `json:"topology_only"`
}

type equalResponse struct {
	Equal bool `json:"equal"`
}

type matrixResponse struct {
	Labels    []string                      `json:"labels"`
	Distances map[string]map[string]float64 `json:"distances"`
	Cached    bool                          `json:"cached,omitempty"`
}

type renderRequest struct {
	Expr    string `json:"expr"`
	Format  string `json:"format"`
	Heights bool   `json:"heights"`
}

type simulateRequest struct {
	Leaves     int    `json:"leaves"`
	Population int    `json:"population"`
	Seed       uint64 `json:"seed"`
}

type errorBody struct {
	Error struct {
		Code      perrors.Code `json:"code"`
		Message   string       `json:"message"`
		RequestID string       `json:"request_id,omitempty"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCanonicalize(w http.ResponseWriter, r *http.Request) {
	var req exprRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.runner.Canonicalize(r.Context(), req.Expr, req.heights())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, exprResponse{Expr: out})
}

func (s *Server) handleEqual(w http.ResponseWriter, r *http.Request) {
	var req equalRequest
	if !s.decode(w, r, &req) {
		return
	}
	eq, err := s.runner.Equal(r.Context(), req.A, req.B, req.TopologyOnly)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, equalResponse{Equal: eq})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req exprRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, hit, err := s.runner.Matrix(r.Context(), req.Expr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, matrixResponse{
		Labels:    m.Labels(),
		Distances: m.Map(),
		Cached:    hit,
	})
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	m, err := pkgio.ReadMatrix(r.Body, pkgio.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, hit, err := s.runner.Reconstruct(r.Context(), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, exprResponse{Expr: out, Cached: hit})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = string(pipeline.DefaultFormat)
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "format"))
		return
	}

	data, hit, err := s.runner.Render(r.Context(), req.Expr, pipeline.RenderOptions{
		Format:  format,
		Heights: req.Heights,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.runner.Simulate(r.Context(), pipeline.SimulateOptions{
		Leaves:     req.Leaves,
		Population: req.Population,
		Seed:       req.Seed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, exprResponse{Expr: out})
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// decode reads a JSON body into v, writing the error response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) && perrors.GetCode(err) == "" {
		err = perrors.Wrap(perrors.ErrCodeInvalidInput, err, "request body too large")
	}
	err = pipeline.Classify(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", requestIDFrom(r.Context()), "err", err)
	}

	var body errorBody
	body.Error.Code = perrors.GetCode(err)
	body.Error.Message = perrors.UserMessage(err)
	body.Error.RequestID = requestIDFrom(r.Context())
	s.writeJSON(w, status, body)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch perrors.GetCode(err) {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat,
		perrors.ErrCodeInvalidLabel, perrors.ErrCodeInvalidDistance:
		return http.StatusBadRequest
	case perrors.ErrCodeNotFound, perrors.ErrCodeLabelNotFound, perrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeStructure, perrors.ErrCodeNotUltrametric, perrors.ErrCodeIncompleteMatrix:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case perrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
