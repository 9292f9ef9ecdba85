package handlers

import (
	"fmt"
	"net/http"

	"warciv-server/internal/shared/config"
)

// redirectWithError sends the browser back to the frontend error page.
func redirectWithError(w http.ResponseWriter, r *http.Request, errorType string) {
	errorURL := fmt.Sprintf("%s/auth/error?error=%s", config.GlobalConfig.Frontend.URL, errorType)
	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
