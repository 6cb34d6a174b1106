package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"pagesmith/internal/middleware"
	"pagesmith/internal/session"
)

// editorName is the single account the editor password unlocks.
const editorName = "editor"

// totpIssuer labels the account in authenticator apps.
const totpIssuer = "PageSmith"

// Auth groups the editor login handlers. With no password hash configured
// authentication is disabled and the editor API is open.
type Auth struct {
	sessions     *session.Store
	passwordHash []byte
	totpSecret   string
}

// NewAuth creates a new Auth handler group. passwordHash is a bcrypt hash;
// totpSecret is an optional base32 TOTP secret.
func NewAuth(sessions *session.Store, passwordHash, totpSecret string) *Auth {
	return &Auth{
		sessions:     sessions,
		passwordHash: []byte(passwordHash),
		totpSecret:   totpSecret,
	}
}

// Enabled reports whether the editor API requires a session.
func (a *Auth) Enabled() bool {
	return len(a.passwordHash) > 0
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
	TOTPRequired  bool `json:"totpRequired"`
	AuthDisabled  bool `json:"authDisabled,omitempty"`
}

// Status reports whether the request carries an authenticated session.
func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	if !a.Enabled() {
		writeJSON(w, http.StatusOK, authResponse{Authenticated: true, AuthDisabled: true})
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	writeJSON(w, http.StatusOK, authResponse{
		Authenticated: sess != nil && sess.TOTPDone,
		TOTPRequired:  sess != nil && !sess.TOTPDone,
	})
}

// Login checks the editor password and opens a session. When TOTP is
// configured the session stays unverified until a valid code is given,
// either in the same request or through Verify.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if !a.Enabled() {
		writeError(w, r, badRequest("authentication is disabled"))
		return
	}

	var req struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)); err != nil {
		slog.Warn("editor login failed", "remote", r.RemoteAddr)
		middleware.WriteError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	done := a.totpSecret == ""
	if !done && req.Code != "" {
		if !totp.Validate(req.Code, a.totpSecret) {
			middleware.WriteError(w, http.StatusUnauthorized, "invalid verification code")
			return
		}
		done = true
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{Editor: editorName, TOTPDone: done}); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("editor signed in", "verified", done)
	writeJSON(w, http.StatusOK, authResponse{Authenticated: done, TOTPRequired: !done})
}

// Verify completes a login with a TOTP code.
func (a *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if a.totpSecret != "" && !totp.Validate(req.Code, a.totpSecret) {
		middleware.WriteError(w, http.StatusUnauthorized, "invalid verification code")
		return
	}

	sess.TOTPDone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Authenticated: true})
}

// TOTPQRCode returns the provisioning QR code as a PNG for a signed-in
// editor, so an authenticator app can be enrolled.
func (a *Auth) TOTPQRCode(w http.ResponseWriter, r *http.Request) {
	if a.totpSecret == "" {
		http.NotFound(w, r)
		return
	}
	if middleware.SessionFromCtx(r.Context()) == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	png, err := qrcode.Encode(provisioningURL(a.totpSecret), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, r, fmt.Errorf("qr code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// provisioningURL builds the otpauth:// URL authenticator apps scan.
func provisioningURL(secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", totpIssuer)
	return fmt.Sprintf("otpauth://totp/%s:%s?%s", totpIssuer, editorName, v.Encode())
}
