package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/store"
)

var errorStatusMap = map[error]int{
	ErrInvalidBody:    http.StatusBadRequest,
	ErrPatchNotObject: http.StatusBadRequest,
	ErrNotJSONPath:    http.StatusNotFound,
	ErrNoStreaming:    http.StatusNotImplemented,

	ErrEmptyToken:                 http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrTokenExpired:               http.StatusUnauthorized,
	ErrInvalidToken:               http.StatusUnauthorized,

	remote.ErrInvalidPath: http.StatusBadRequest,
	remote.ErrNotObject:   http.StatusBadRequest,
	remote.ErrInvalidKind: http.StatusBadRequest,
	remote.ErrClosed:      http.StatusServiceUnavailable,

	store.ErrNilDB:                http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
