package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
	"github.com/dmitrymomot/alianzmail/pkg/validator"
)

type addressPayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

type messengerPayload struct {
	Subject      string           `json:"subject,omitempty"`
	DispatchTime string           `json:"dispatch_time,omitempty" validate:"omitempty,datetime=2006-01-02 15:04:05"`
	To           []addressPayload `json:"to,omitempty" validate:"omitempty,dive"`
	CC           []addressPayload `json:"cc,omitempty" validate:"omitempty,dive"`
	BCC          []addressPayload `json:"bcc,omitempty" validate:"omitempty,dive"`
}

type messagePayload struct {
	HTML string `json:"html" validate:"required"`
	Text string `json:"text"`
}

// sendPayload mirrors mailer.Document with the provider's acceptance rules.
type sendPayload struct {
	ReplyTo      *addressPayload    `json:"reply_to,omitempty"`
	Subject      string             `json:"subject"`
	DispatchTime string             `json:"dispatch_time,omitempty" validate:"omitempty,datetime=2006-01-02 15:04:05"`
	From         addressPayload     `json:"from"`
	Message      messagePayload     `json:"message"`
	Messengers   []messengerPayload `json:"messengers" validate:"required,min=1,dive"`
}

// crossCheck applies the rules struct tags cannot express.
func (p *sendPayload) crossCheck() validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, m := range p.Messengers {
		field := fmt.Sprintf("messengers[%d]", i)
		if len(m.To)+len(m.CC)+len(m.BCC) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Tag:     "recipients",
				Message: "messenger must have at least one recipient",
			})
		}
		if m.Subject == "" && p.Subject == "" {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".subject",
				Tag:     "required",
				Message: "subject is required when the message has no subject",
			})
		}
	}
	return errs
}

type sendResponse struct {
	ID         string `json:"id"`
	Messengers int    `json:"messengers"`
	Recipients int    `json:"recipients"`
}

type errorBody struct {
	Fields  map[string]string `json:"fields,omitempty"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
}

// send handles POST /v1/mail/send.
func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json.")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	var payload sendPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid request body: "+err.Error())
		return
	}

	if err := validatePayload(&payload); err != nil {
		s.logger.WarnContext(ctx, "send rejected", slog.String("error", err.Error()))
		writeValidationError(w, err)
		return
	}

	var doc mailer.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid request body: "+err.Error())
		return
	}

	msg, err := s.store.Add(Message{
		RequestID:   w.Header().Get("X-Request-ID"),
		UserAgent:   r.UserAgent(),
		ContentType: r.Header.Get("Content-Type"),
		Token:       tokenFromContext(ctx),
		Document:    doc,
	})
	if err != nil {
		writeError(w, http.StatusInsufficientStorage, "store_full", err.Error())
		return
	}

	s.logger.InfoContext(ctx, "message accepted",
		slog.String("id", msg.ID),
		slog.Int("messengers", len(doc.Messengers)),
		slog.Int("recipients", doc.Recipients()),
	)

	writeJSON(w, http.StatusOK, sendResponse{
		ID:         msg.ID,
		Messengers: len(doc.Messengers),
		Recipients: doc.Recipients(),
	})
}

func validatePayload(p *sendPayload) error {
	var errs validator.ValidationErrors
	if err := validator.Validate(p); err != nil {
		if !validator.IsValidationError(err) {
			return err
		}
		errs = append(errs, validator.ExtractValidationErrors(err)...)
	}
	errs = append(errs, p.crossCheck()...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// listMessages handles GET /admin/messages.
func (s *Server) listMessages(w http.ResponseWriter, _ *http.Request) {
	msgs := s.store.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": msgs,
		"total":    len(msgs),
	})
}

// getMessage handles GET /admin/messages/{id}.
func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// resetMessages handles DELETE /admin/messages.
func (s *Server) resetMessages(w http.ResponseWriter, r *http.Request) {
	n := s.store.Len()
	s.store.Reset()
	s.logger.InfoContext(r.Context(), "store reset", slog.Int("dropped", n))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeCheck(context.Context) error {
	if s.store.Full() {
		return ErrStoreFull
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	ve := validator.ExtractValidationErrors(err)
	if ve == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]errorBody{
		"error": {
			Code:    "validation_error",
			Message: ve.Error(),
			Fields:  ve.Fields(),
		},
	})
}
