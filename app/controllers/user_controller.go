package controllers

import (
	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/resources"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

type UserController struct {
	users    *services.UserService
	sessions *services.SessionService
}

func NewUserController(users *services.UserService, sessions *services.SessionService) *UserController {
	return &UserController{users: users, sessions: sessions}
}

// Index handles GET /api/users?include_deleted=true.
func (uc *UserController) Index(c *ctx.Context) {
	users, err := uc.users.List(c.Context(), c.QueryBool("include_deleted"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewUsers(users))
}

// Store handles POST /api/users.
func (uc *UserController) Store(c *ctx.Context) {
	var in CreateUserRequest
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.users.Create(c.Context(), services.NewUser{
		Name:     in.Name,
		Username: in.Username,
		Password: in.Password,
		Level:    models.Level(in.Level),
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.NewUser(user))
}

// Me handles GET /api/users/me.
func (uc *UserController) Me(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	user, err := uc.users.Find(c.Context(), id.UserID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewUser(user))
}

// Update handles PUT /api/users/{id}. A caller who changes their own
// password gets a fresh session cookie, since the change revokes the old
// one.
func (uc *UserController) Update(c *ctx.Context) {
	actor, ok := c.MustIdentity()
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in UpdateUserRequest
	if !c.BindJSON(&in) {
		return
	}

	patch := services.UserPatch{}
	if in.Name != nil {
		patch.Name = *in.Name
	}
	if in.Username != nil {
		patch.Username = *in.Username
	}
	if in.Password != nil {
		patch.Password = *in.Password
	}
	if in.Level != nil {
		level := models.Level(*in.Level)
		patch.Level = &level
	}

	user, passwordChanged, err := uc.users.Update(c.Context(), actor, id, patch)
	if err != nil {
		c.Fail(err)
		return
	}

	if passwordChanged && actor.UserID == user.ID {
		token, err := uc.sessions.Issue(user)
		if err != nil {
			c.Fail(err)
			return
		}
		c.SetCookie(sessionCookie(token))
	}
	c.Success(resources.NewUser(user))
}

// Destroy handles DELETE /api/users/{id}.
func (uc *UserController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := uc.users.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("User deleted")
}
