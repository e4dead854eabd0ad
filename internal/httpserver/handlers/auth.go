package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/respond"
	"github.com/MrSnakeDoc/shelf/internal/identity"
)

// Register answers POST /api/auth/register.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg domain.Registration
		if !decodeBody(w, r, &reg) {
			return
		}
		acc, err := d.Auth.Register(r.Context(), reg)
		if err != nil {
			writeError(w, r, d, err, "Account not found")
			return
		}
		respond.JSON(w, http.StatusCreated, acc)
	}
}

// SignIn answers POST /api/auth/sign-in and sets the session cookie.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}
		sess, err := d.Auth.SignIn(r.Context(), creds)
		if err != nil {
			writeError(w, r, d, err, "Account not found")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     identity.CookieName,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		respond.JSON(w, http.StatusOK, sess)
	}
}

// SignOut answers POST /api/auth/sign-out. It always clears the cookie.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := identity.TokenFromRequest(r); token != "" {
			if err := d.Auth.SignOut(r.Context(), token); err != nil {
				internalError(w, r, d, err)
				return
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     identity.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		respond.JSON(w, http.StatusOK, messageResponse{Message: "Signed out"})
	}
}

// Me answers GET /api/auth/me.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, d)
		if !ok {
			return
		}
		acc, err := d.Auth.Me(r.Context(), account)
		if err != nil {
			writeError(w, r, d, err, "Account not found")
			return
		}
		respond.JSON(w, http.StatusOK, acc)
	}
}
