package api

import "net/http"

// Handles:
//
//	GET /auth/roblox/login
//	GET /auth/roblox/callback?code=...&state=...
func (rt *router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if rt.oauth == nil {
		writeError(w, http.StatusInternalServerError, "oauth is not configured")
		return
	}
	http.Redirect(w, req, rt.oauth.GenerateAuthURL(), http.StatusFound)
}

func (rt *router) handleCallback(w http.ResponseWriter, req *http.Request) {
	if rt.oauth == nil {
		writeError(w, http.StatusInternalServerError, "oauth is not configured")
		return
	}

	q := req.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "code and state are required")
		return
	}

	user, err := rt.oauth.HandleCallback(req.Context(), code, state)
	if err != nil {
		rt.log.Warn().Err(err).Msg("oauth callback failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	// No session management; the frontend only needs a display name.
	http.SetCookie(w, &http.Cookie{
		Name:     "rbx_display_name",
		Value:    user.DisplayName,
		Path:     "/",
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, req, "/", http.StatusFound)
}
