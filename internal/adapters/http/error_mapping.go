package httpadapter

import (
	"net/http"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

// Everything outside input validation is a server fault: OCR and extraction
// failures never reach this layer.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
