package presenter

import (
	"net/http"

	"github.com/wichananm65/user-directory/internal/domain/entity"
)

// KindInternal labels failures that are not domain errors.
const KindInternal entity.Kind = "INTERNAL"

// InternalMessage replaces the text of internal failures in responses.
const InternalMessage = "Internal server error"

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind entity.Kind) int {
	switch kind {
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorOf classifies err for a response. Internal errors get a generic message.
func ErrorOf(err error) (kind entity.Kind, status int, message string) {
	kind = entity.KindOf(err)
	if kind == "" {
		return KindInternal, http.StatusInternalServerError, InternalMessage
	}
	return kind, StatusFor(kind), err.Error()
}
