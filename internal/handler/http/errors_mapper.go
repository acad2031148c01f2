package http

import (
	"errors"
	"net/http"

	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/internal/sync"
)

var errorStatusMap = map[error]int{
	sync.ErrValidation:    http.StatusBadRequest,
	sync.ErrNotFound:      http.StatusNotFound,
	sync.ErrConflict:      http.StatusConflict,
	sync.ErrLimitExceeded: http.StatusPaymentRequired,

	sync.ErrClockRegression: http.StatusInternalServerError,
	sync.ErrClockStalled:    http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to its wire status. Client errors carry the error text
// so the caller can see which parameter or precondition failed; server errors
// carry only the generic status text.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	message := http.StatusText(status)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}

	http.Error(w, message, status)
}
