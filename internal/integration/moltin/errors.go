package moltin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	pkghttp "github.com/Alex-Men-VL/sell-fish/pkg/http"
)

// mapError converts transport-level failures into domain errors
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, entity.ErrAuth, err)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, entity.ErrNotFound, err)
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %w", op, entity.ErrRequest, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
