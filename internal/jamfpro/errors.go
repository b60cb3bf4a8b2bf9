package jamfpro

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/rtsctl/internal/urls"
)

// ErrorType represents the category of error that occurred talking to Jamf Pro
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeTLS indicates a certificate or handshake failure
	ErrTypeTLS
	// ErrTypeAuth indicates the server rejected the credentials or token
	ErrTypeAuth
	// ErrTypeHTTP indicates an unexpected HTTP status code
	ErrTypeHTTP
	// ErrTypeNotFound indicates the requested record does not exist
	ErrTypeNotFound
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeValidation indicates invalid input or an unusable response value
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeTLS:
		return "TLS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error that occurred during a Jamf Pro API call
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Endpoint   string    // API path that was called (for context)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Endpoint != "" {
		msg += fmt.Sprintf(" [%s]", e.Endpoint)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, endpoint string) *APIError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Message: "request timed out", Endpoint: endpoint, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:     ErrTypeDNS,
			Message:  fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Endpoint: endpoint,
			Err:      err,
		}
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuthority) || errors.As(err, &hostnameErr) {
		return &APIError{Type: ErrTypeTLS, Message: "server certificate could not be verified", Endpoint: endpoint, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &APIError{Type: ErrTypeConnectionRefused, Message: "server refused connection", Endpoint: endpoint, Err: err}
	}
	if errors.Is(err, syscall.EHOSTUNREACH) {
		return &APIError{Type: ErrTypeNetwork, Message: "host unreachable", Endpoint: endpoint, Err: err}
	}
	if errors.Is(err, syscall.ENETUNREACH) {
		return &APIError{Type: ErrTypeNetwork, Message: "network unreachable", Endpoint: endpoint, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, endpoint)
	}

	return &APIError{Type: ErrTypeNetwork, Message: "network error occurred", Endpoint: endpoint, Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(endpoint, message string, err error) *APIError {
	classified := ClassifyNetworkError(err, endpoint)
	if classified == nil {
		return &APIError{Type: ErrTypeNetwork, Message: message, Endpoint: endpoint}
	}
	classified.Message = message + ": " + classified.Message
	return classified
}

// NewAuthError creates an authentication error
func NewAuthError(endpoint, message string, statusCode int) *APIError {
	return &APIError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

// NewHTTPError creates an HTTP-level error. 404 is reported as ErrTypeNotFound.
func NewHTTPError(endpoint string, statusCode int, message string) *APIError {
	errType := ErrTypeHTTP
	switch statusCode {
	case http.StatusNotFound:
		errType = ErrTypeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = ErrTypeAuth
	}
	return &APIError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

// NewParseError creates a parsing error
func NewParseError(endpoint, message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Endpoint: endpoint, Err: err}
}

// NewNotFoundError creates a not-found error for a decoded but empty record
func NewNotFoundError(endpoint, message string) *APIError {
	return &APIError{Type: ErrTypeNotFound, Message: message, Endpoint: endpoint}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return &APIError{Type: ErrTypeValidation, Message: message}
}

func errorType(err error) (ErrorType, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a transport error (including timeout, refused, DNS and TLS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	if !ok {
		return false
	}
	switch t {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS, ErrTypeTLS:
		return true
	}
	return false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuth
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsNotFoundError checks if an error means the record does not exist
func IsNotFoundError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotFound
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// TroubleshootingHint returns operator-facing troubleshooting advice for an error
func TroubleshootingHint(err error) []string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return []string{
			"The Jamf Pro server did not respond in time",
			"Try again with a larger --timeout",
			"Check VPN or proxy settings if the server is on a private network",
		}
	case ErrTypeConnectionRefused, ErrTypeNetwork:
		return []string{
			"Verify the server URL (rtsctl configure --url)",
			"Check that this machine can reach the Jamf Pro server",
		}
	case ErrTypeDNS:
		return []string{
			"The server hostname could not be resolved",
			"Check the server URL for typos",
		}
	case ErrTypeTLS:
		return []string{
			"The server certificate is not trusted by this machine",
			"Install the issuing CA or use the server's public hostname",
		}
	case ErrTypeAuth:
		return []string{
			"Check the username/client ID and the secret",
			"API clients need --api-roles; user accounts must not use it",
			"See " + urls.APIRolesAndClients,
		}
	case ErrTypeNotFound:
		return []string{
			"The record does not exist on this Jamf Pro server",
			"Check the serial number or profile ID",
		}
	case ErrTypeParse:
		return []string{
			"The server response was not in the expected format",
			"The account may lack privileges for this endpoint",
			"See " + urls.ReturnToService,
		}
	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return []string{
				fmt.Sprintf("Jamf Pro returned a server error (HTTP %d)", apiErr.StatusCode),
				"Check the server health and try again later",
			}
		}
		return []string{fmt.Sprintf("Jamf Pro rejected the request (HTTP %d)", apiErr.StatusCode)}
	}
	return nil
}

// ShortMessage returns a concise, operator-facing error message
func ShortMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Jamf Pro not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Jamf Pro refused connection"
	case ErrTypeDNS:
		return "Cannot resolve Jamf Pro hostname"
	case ErrTypeTLS:
		return "Jamf Pro certificate not trusted"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeNotFound:
		return "Record not found"
	case ErrTypeHTTP:
		return fmt.Sprintf("Jamf Pro error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse Jamf Pro response"
	default:
		return strings.TrimSpace(apiErr.Message)
	}
}
