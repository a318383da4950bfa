package handler

import (
	"net"
	"net/http"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// SubmitContact handles POST /contact.
// A relay or captcha failure is still a 200: the body tells the visitor
// what happened. Field errors are 422.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var body ContactRequestDTO
	if err := decodeBody(r, &body, false); err != nil {
		requestError(w, err.Error())
		return
	}

	res, err := s.contact.Submit(r.Context(), domain.ContactRequest{
		Name:         body.Name,
		Email:        body.Email,
		Message:      body.Message,
		CaptchaToken: body.RecaptchaToken,
	}, remoteIP(r))
	if err != nil {
		s.writeError(w, r, err, "contact form")
		return
	}
	writeJSON(w, http.StatusOK, ContactResultDTO{Success: res.Success, Message: res.Message})
}

// remoteIP strips the port from r.RemoteAddr, which chi's RealIP middleware
// has already replaced with the forwarded client address when present.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
