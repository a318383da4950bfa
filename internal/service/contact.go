package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
	"github.com/skyhopper/flight-compare/backend/internal/relay"
)

// Messages shown to the visitor after a submission.
const (
	MsgCaptchaRequired = "Please complete the reCAPTCHA verification."
	MsgCaptchaFailed   = "reCAPTCHA verification failed. Please try again."
	MsgSent            = "Thank you! Your message has been sent successfully. We'll get back to you within 24 hours."
	MsgRejected        = "Something went wrong. Please try again or contact us directly."
	MsgNetwork         = "Network error. Please check your connection and try again."
)

// Relay forwards a contact submission. Implemented by relay.FormRelay.
type Relay interface {
	Send(ctx context.Context, sub relay.Submission) (relay.Reply, error)
}

// CaptchaVerifier checks a captcha token server side. Implemented by relay.Recaptcha.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// ContactLog persists submissions. Implemented by repo.ContactRepo.
type ContactLog interface {
	Create(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error)
}

// ContactObserver counts submissions by relay status.
type ContactObserver interface {
	ObserveContact(status string)
}

// ContactService validates the contact form and forwards it to the relay.
type ContactService struct {
	relay          Relay
	captchaSiteKey string
	verifier       CaptchaVerifier
	store          ContactLog
	observer       ContactObserver
	validate       *validator.Validate
	log            *slog.Logger
}

// NewContactService constructs a ContactService. An empty captchaSiteKey
// disables the form.
func NewContactService(r Relay, captchaSiteKey string, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		relay:          r,
		captchaSiteKey: captchaSiteKey,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		log:            logger,
	}
}

// WithVerifier enables server-side captcha verification.
func (s *ContactService) WithVerifier(v CaptchaVerifier) *ContactService {
	s.verifier = v
	return s
}

// WithLog records every relayed submission.
func (s *ContactService) WithLog(l ContactLog) *ContactService {
	s.store = l
	return s
}

// WithObserver counts submissions, typically into metrics.
func (s *ContactService) WithObserver(o ContactObserver) *ContactService {
	s.observer = o
	return s
}

// Enabled reports whether the form can be submitted.
func (s *ContactService) Enabled() bool {
	return s.captchaSiteKey != "" && s.relay != nil
}

// Submit validates req and forwards it to the relay.
//
// Field errors return domain.ErrValidation. A missing or rejected captcha
// and any relay outcome are reported in the result, not as errors, so the
// visitor always gets a message to display.
func (s *ContactService) Submit(ctx context.Context, req domain.ContactRequest, remoteIP string) (domain.ContactResult, error) {
	if !s.Enabled() {
		return domain.ContactResult{}, fmt.Errorf("service.ContactService.Submit: captcha site key not configured: %w", domain.ErrFeatureDisabled)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return domain.ContactResult{}, fmt.Errorf("%w: %s", domain.ErrValidation, describe(err))
	}

	if strings.TrimSpace(req.CaptchaToken) == "" {
		return domain.ContactResult{Success: false, Message: MsgCaptchaRequired}, nil
	}
	if s.verifier != nil {
		ok, err := s.verifier.Verify(ctx, req.CaptchaToken, remoteIP)
		if err != nil {
			s.log.WarnContext(ctx, "captcha verification unavailable", slog.String("error", err.Error()))
			return s.finish(ctx, req, domain.RelayFailed, MsgNetwork), nil
		}
		if !ok {
			return domain.ContactResult{Success: false, Message: MsgCaptchaFailed}, nil
		}
	}

	reply, err := s.relay.Send(ctx, relay.Submission{
		Name:           req.Name,
		Email:          req.Email,
		Message:        req.Message,
		RecaptchaToken: req.CaptchaToken,
	})
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "contact relay failed", slog.String("error", err.Error()))
		return s.finish(ctx, req, domain.RelayFailed, MsgNetwork), nil
	case reply.Success:
		return s.finish(ctx, req, domain.RelaySent, orDefault(reply.Message, MsgSent)), nil
	default:
		return s.finish(ctx, req, domain.RelayRejected, orDefault(reply.Message, MsgRejected)), nil
	}
}

// finish logs and counts the outcome and builds the visitor's result.
func (s *ContactService) finish(ctx context.Context, req domain.ContactRequest, status domain.RelayStatus, msg string) domain.ContactResult {
	if s.observer != nil {
		s.observer.ObserveContact(string(status))
	}
	if s.store != nil {
		_, err := s.store.Create(ctx, domain.ContactMessage{
			Name:         req.Name,
			Email:        req.Email,
			Message:      req.Message,
			RelayStatus:  status,
			RelayMessage: msg,
		})
		if err != nil {
			s.log.ErrorContext(ctx, "contact log write failed", slog.String("error", err.Error()))
		}
	}
	s.log.InfoContext(ctx, "contact submission", slog.String("status", string(status)))
	return domain.ContactResult{Success: status == domain.RelaySent, Message: msg}
}

// describe turns validator field errors into "name is required; email must
// be a valid email".
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
