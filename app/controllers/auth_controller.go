package controllers

import (
	"net/http"

	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/response"
	"github.com/andreimonforte/malocozz/pkg/session"
)

// AuthController handles signup, email verification, login and password
// resets. Logins are session-backed; the session cookie carries the user ID
// and role.
type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthController() *AuthController {
	return &AuthController{
		auth:  services.NewAuthService(),
		users: services.NewUserService(),
	}
}

// Register creates an account and sends the verification code.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(in)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Created(w, user)
}

type verifyInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,digits=6"`
}

// Verify checks the emailed OTP and unlocks the account.
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	var in verifyInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.VerifyEmail(in.Email, in.Code); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Email verified. You can now log in."})
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendCode issues a fresh verification code.
func (c *AuthController) ResendCode(w http.ResponseWriter, r *http.Request) {
	var in emailInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.ResendVerification(in.Email); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Verification code sent."})
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request, admin bool) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	login := c.auth.Login
	if admin {
		login = c.auth.AdminLogin
	}
	user, err := login(in.Email, in.Password)
	if err != nil {
		respondErr(w, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Set(middleware.SessionUserID, int(user.ID))
	sess.Set(middleware.SessionRole, string(user.Role))
	if err := sess.Save(w); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, user)
}

// Login authenticates a shopper and starts a session.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, false)
}

// AdminLogin authenticates an admin; non-admin accounts are rejected.
func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, true)
}

// Logout destroys the session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Logged out."})
}

// Me returns the logged-in user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.users.Get(middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, user)
}

// ForgotPassword emails a reset link. The response is the same whether or
// not the email exists.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.ForgotPassword(in.Email); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{
		"message": "If the email is registered, a reset link is on its way.",
	})
}

// ResetPassword sets a new password using the emailed token.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.ResetPassword(in); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Password updated. You can now log in."})
}
