package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"mindcare/internal/entitlement"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeBody reads the request body into out, answering with Fail on error.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, maxBodyBytes, out); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return false
	}
	return true
}

// writeError maps a service error onto the response envelope. Entitlement
// refusals get their own code so the client can show an upgrade prompt.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if entitlement.IsDenied(err) {
		writeJSON(w, http.StatusOK, Locked(err.Error()))
		return
	}
	logger.Debug("Request failed", zap.String("op", op), zap.Error(err))
	writeJSON(w, http.StatusOK, Fail(err.Error()))
}

// splitPath returns the segments after prefix.
func splitPath(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}
