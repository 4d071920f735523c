package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/auth"
	"github.com/mcoot/ffmarket/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeRateLimited          = "RATE_LIMITED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeTeamNotFound         = "TEAM_NOT_FOUND"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeListingNotFound      = "LISTING_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"
	CodeNotOwner             = "NOT_OWNER"
	CodeAlreadyListed        = "ALREADY_LISTED"
	CodeEmailTaken           = "EMAIL_TAKEN"
	CodeConflict             = "CONFLICT"
	CodeCannotBuyOwnPlayer   = "CANNOT_BUY_OWN_PLAYER"
	CodeNoTeam               = "NO_TEAM"
	CodeSellerRosterTooSmall = "SELLER_ROSTER_TOO_SMALL"
	CodeBuyerRosterTooLarge  = "BUYER_ROSTER_TOO_LARGE"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeInvalidPrice         = "INVALID_PRICE"
	CodeInvalidPosition      = "INVALID_POSITION"
	CodeBusy                 = "BUSY"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map specific model errors first, then fall back to their class
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrTeamNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTeamNotFound, "Team not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrListingNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeListingNotFound, "Listing not found"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}

	case errors.Is(err, model.ErrNotPlayerOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "You do not own this player"}}
	case errors.Is(err, model.ErrNotListingOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "You do not own this listing"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Forbidden"}}

	case errors.Is(err, model.ErrAlreadyListed):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyListed, "Player is already listed"}}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, APIError{CodeEmailTaken, "Email already registered"}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Conflict"}}

	case errors.Is(err, model.ErrCannotBuyOwnPlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeCannotBuyOwnPlayer, "Cannot buy your own player"}}
	case errors.Is(err, model.ErrNoTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeNoTeam, "You do not have a team yet"}}
	case errors.Is(err, model.ErrSellerRosterTooSmall):
		return &httpError{http.StatusBadRequest, APIError{CodeSellerRosterTooSmall, "Seller team would fall below the minimum squad size"}}
	case errors.Is(err, model.ErrBuyerRosterTooLarge):
		return &httpError{http.StatusBadRequest, APIError{CodeBuyerRosterTooLarge, "Buyer team would exceed the maximum squad size"}}
	case errors.Is(err, model.ErrInsufficientFunds):
		return &httpError{http.StatusBadRequest, APIError{CodeInsufficientFunds, "Insufficient budget"}}
	case errors.Is(err, model.ErrInvalidPrice):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPrice, "Asking price must be between 1 and 1000000000"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Position must be one of GK, DEF, MID, ATT"}}
	case errors.Is(err, model.ErrBadRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Bad request"}}

	// Map store contention that outlasted retries
	case storage.IsRetryable(err):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeBusy, "Resource busy, please retry"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid credentials"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
