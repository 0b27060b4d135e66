// Package server exposes message assembly over HTTP. Documents are built and
// returned to the caller; nothing is submitted anywhere.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/amoniacou/sepa-king/internal/request"
	"github.com/amoniacou/sepa-king/pkg/sepa"
)

// Server assembles SEPA documents for HTTP clients.
type Server struct {
	log       *slog.Logger
	validator sepa.SchemaValidator
}

// New creates a Server. validator may be nil, in which case rendered
// documents are not checked against their XSD definitions.
func New(log *slog.Logger, validator sepa.SchemaValidator) *Server {
	return &Server{log: log, validator: validator}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/v1/credit-transfers", s.handleRender("credit_transfer"))
	r.Post("/v1/direct-debits", s.handleRender("direct_debit"))

	return r
}

func (s *Server) handleRender(messageType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc request.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		doc.Type = messageType

		var opts []sepa.Option
		if s.validator != nil {
			opts = append(opts, sepa.WithSchemaValidator(s.validator))
		}

		msg, schema, err := request.Build(doc, opts...)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		out, err := msg.ToXML(schema)
		if err != nil {
			status := http.StatusInternalServerError
			var validationErr *sepa.ValidationError
			var unknownErr *sepa.UnknownSchemaError
			var incompatibleErr *sepa.SchemaIncompatibleError
			var violationErr *sepa.SchemaViolationError
			switch {
			case errors.As(err, &validationErr), errors.As(err, &unknownErr):
				status = http.StatusBadRequest
			case errors.As(err, &incompatibleErr), errors.As(err, &violationErr):
				status = http.StatusUnprocessableEntity
			}
			s.writeError(w, status, err.Error())
			return
		}

		s.log.Info("document rendered",
			"type", messageType,
			"message_id", msg.MessageIdentification(),
			"batches", len(msg.Batches()),
		)
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.log.Error("render failed", "status", status, "error", msg)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
