package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
	"go.uber.org/zap"
)

// ValidateCredentials rejects malformed login and register payloads before
// they reach the handler. The body is restored for the next handler.
func ValidateCredentials(v *validation.Validator) Middleware {
	return func(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "application/json") {
				respond.Message(w, http.StatusBadRequest, "content type must be application/json")
				return
			}

			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				respond.Message(w, http.StatusBadRequest, "error reading request body")
				return
			}

			var credentials models.Credentials
			if err = json.Unmarshal(bodyBytes, &credentials); err != nil {
				sugar.Infow("error decoding credentials", "error", err)
				respond.Message(w, http.StatusBadRequest, "error decoding credentials")
				return
			}

			credentials.Username = strings.TrimSpace(credentials.Username)
			if err = v.Struct(credentials); err != nil {
				respond.Error(w, sugar, err)
				return
			}

			bodyBytes, err = json.Marshal(credentials)
			if err != nil {
				respond.Error(w, sugar, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			r.ContentLength = int64(len(bodyBytes))

			h.ServeHTTP(w, r)
		})
	}
}
