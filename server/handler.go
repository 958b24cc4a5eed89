package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/workbook"
	"github.com/aerissecure/statement/xlsx"
)

// maxInputBytes bounds a request body.
const maxInputBytes = 1 << 20

// Statement describes one catalog entry.
type Statement struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Required []string `json:"required"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// Handler renders statements over HTTP.
type Handler struct {
	renderer statement.Renderer
	engine   workbook.Engine
	company  string
}

// NewHandler returns a Handler that writes engine workbooks with r.
func NewHandler(r statement.Renderer, e workbook.Engine, company string) *Handler {
	return &Handler{renderer: r, engine: e, company: company}
}

func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := make([]Statement, 0)
	for _, l := range statement.Layouts() {
		required := l.RequiredKeys()
		if required == nil {
			required = []string{}
		}
		response = append(response, Statement{Key: l.Key, Name: l.Name, Required: required})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode statements")
	}
}

func (h *Handler) RenderStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, in, ok := h.decode(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := workbook.Write(ctx, &buf, h.engine, h.renderer, l, in); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", workbook.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", l.Key+".xlsx"))
	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("kind", l.Key).
			Msg("failed to write workbook")
	}
}

func (h *Handler) PreviewStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, in, ok := h.decode(w, r)
	if !ok {
		return
	}

	sheet, err := workbook.Preview(ctx, h.renderer, l, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(xlsx.HTML(sheet))); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("kind", l.Key).
			Msg("failed to write preview")
	}
}

// decode resolves the {kind} parameter and reads the JSON input. It writes
// the error response itself and reports false when the request is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (statement.Layout, statement.Input, bool) {
	l, err := statement.Lookup(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return statement.Layout{}, statement.Input{}, false
	}

	var in statement.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		h.reply(w, r, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode input: %v", err)})
		return statement.Layout{}, statement.Input{}, false
	}
	if in.Company == "" {
		in.Company = h.company
	}
	return l, in, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *statement.InputError
	switch {
	case errors.As(err, &inputErr):
		h.reply(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error:   err.Error(),
			Missing: inputErr.Keys,
			Invalid: inputErr.Invalid,
		})
	case errors.Is(err, statement.ErrUnknownStatement):
		h.reply(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to render statement")
		h.reply(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode error")
	}
}
