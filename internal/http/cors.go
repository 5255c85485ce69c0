package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

var corsAllowedHeaders = []string{
	"Accept",
	"Authorization",
	"Content-Type",
	"Origin",
	"X-Requested-With",
	"X-Request-ID",
}

// CORSMiddleware lets any origin call the API with credentials. The request
// Origin is echoed back because browsers reject "*" on credentialed requests.
// gorilla/handlers has no header wildcard, so every header a preflight asks
// for is added to the allowed list of that request.
// Preflight requests are answered here and never reach the router.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corsHandler(requestedHeaders(r))(next).ServeHTTP(w, r)
	})
}

func corsHandler(extraHeaders []string) func(http.Handler) http.Handler {
	allowed := append(append([]string{}, corsAllowedHeaders...), extraHeaders...)
	return handlers.CORS(
		handlers.AllowedOriginValidator(func(string) bool { return true }),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders(allowed),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
		handlers.AllowCredentials(),
		handlers.MaxAge(3600),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}

func requestedHeaders(r *http.Request) []string {
	if r.Method != http.MethodOptions {
		return nil
	}
	var headers []string
	for _, h := range strings.Split(r.Header.Get("Access-Control-Request-Headers"), ",") {
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, h)
		}
	}
	return headers
}
