package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/kasir/app/resources"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

type SessionController struct {
	sessions *services.SessionService
	users    *services.UserService
}

func NewSessionController(sessions *services.SessionService, users *services.UserService) *SessionController {
	return &SessionController{sessions: sessions, users: users}
}

// Login handles POST /api/session.
func (sc *SessionController) Login(c *ctx.Context) {
	var in LoginRequest
	if !c.BindJSON(&in) {
		return
	}

	token, user, err := sc.sessions.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}

	c.SetCookie(sessionCookie(token))
	c.Success(resources.Session{Token: token, User: resources.NewUser(user)})
}

// Show handles GET /api/session.
func (sc *SessionController) Show(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	user, err := sc.users.Find(c.Context(), id.UserID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewUser(user))
}

// Logout handles DELETE /api/session. Tokens are stateless, so this only
// clears the cookie.
func (sc *SessionController) Logout(c *ctx.Context) {
	c.SetCookie(&http.Cookie{
		Name:     config.SessionCookie(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   config.CookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Message("Signed out")
}

func sessionCookie(token string) *http.Cookie {
	ttl := config.TokenTTL()
	return &http.Cookie{
		Name:     config.SessionCookie(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   config.CookieSecure(),
		SameSite: http.SameSiteLaxMode,
	}
}
