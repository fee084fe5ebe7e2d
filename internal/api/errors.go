package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Generic messages shown for failures that carry no backend message.
const (
	MsgConnection   = "Erro de conexão com o servidor. Tente novamente."
	MsgServer       = "Erro no servidor. Tente novamente mais tarde."
	MsgUnauthorized = "Sessão expirada. Faça login novamente."
	MsgForbidden    = "Você não tem permissão para realizar esta ação."
	MsgNotFound     = "Registro não encontrado."
)

// TransportError is a network failure or a response body that could not
// be read or decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response.
type HTTPError struct {
	Op         string
	StatusCode int

	// Message is the backend's envelope message, when the error body had one.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// EnvelopeError is an envelope that reported success:false. For requests
// sent without a token, such as a login, a non-2xx answer carrying such an
// envelope is an EnvelopeError too, so the backend message reaches the user.
type EnvelopeError struct {
	Op      string
	Message string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsUnauthorized reports whether err (or any error in its chain) is a 401.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}

// IsEnvelope reports whether err (or any error in its chain) is an EnvelopeError.
func IsEnvelope(err error) bool {
	var envErr *EnvelopeError
	return errors.As(err, &envErr)
}

// UserMessage maps err to the text shown in the error banner. Envelope
// failures surface the backend message as-is; transport and HTTP
// failures get a generic localized message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		if envErr.Message != "" {
			return envErr.Message
		}
		return MsgServer
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized:
			return MsgUnauthorized
		case http.StatusForbidden:
			return MsgForbidden
		case http.StatusNotFound:
			return MsgNotFound
		}
		return MsgServer
	}

	return MsgConnection
}
