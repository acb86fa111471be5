package book

import (
	"net/http"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// resultLabel 把错误归类为有限的指标标签值
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.GetAppError(err).HTTPStatus() {
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid"
	default:
		return "error"
	}
}

func recordOperation(op string, err error) {
	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{
		"op":     op,
		"result": resultLabel(err),
	})
}
