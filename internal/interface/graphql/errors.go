package graphql

import (
	"time"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/interface/presenter"
)

// apiError is returned from resolvers. graphql-go copies Extensions into the
// formatted error.
type apiError struct {
	kind    entity.Kind
	status  int
	message string
	at      time.Time
}

func newError(err error) *apiError {
	kind, status, message := presenter.ErrorOf(err)
	return &apiError{kind: kind, status: status, message: message, at: time.Now().UTC()}
}

func (e *apiError) Error() string { return e.message }

func (e *apiError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":      string(e.kind),
		"status":    e.status,
		"timestamp": e.at.Format(time.RFC3339),
	}
}
