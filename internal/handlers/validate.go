package handlers

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// parseTaskID reads the {id} path token. ok is false when the token is not a
// finite number. A number with no integral task id, such as 1.5, yields id 0,
// which no task ever has.
func parseTaskID(r *http.Request) (id int64, token string, ok bool) {
	token = chi.URLParam(r, "id")
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return id, token, true
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, token, false
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, token, true
	}
	return int64(f), token, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}
