package access

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// AuthControllerRoutes holds the paths the controller mounts its handlers on.
type AuthControllerRoutes struct {
	Login  string
	Logout string
}

// AuthController exposes the login flow over HTTP as JSON endpoints. Session
// state changes propagate through the SessionStore's auth client
// subscription, so handlers only orchestrate.
type AuthController struct {
	Logger       Logger
	Flow         *LoginFlow
	Store        *SessionStore
	Config       Config
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

// AuthControllerOption configures an AuthController
type AuthControllerOption func(*AuthController) *AuthController

// WithControllerFlow sets the login flow.
func WithControllerFlow(flow *LoginFlow) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Flow = flow
		return c
	}
}

// WithControllerStore sets the session store.
func WithControllerStore(store *SessionStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Store = store
		return c
	}
}

// WithControllerConfig sets the access configuration.
func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// WithControllerLogger sets the logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// NewAuthController returns a configured controller.
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Login:  "/login",
			Logout: "/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Flow == nil {
		panic("Missing LoginFlow in auth controller...")
	}

	if c.Store == nil {
		panic("Missing SessionStore in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller handlers on the router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("sign-out.post")
}

// LoginPost binds and validates credentials, runs the login flow, and
// redirects to the configured landing route on success.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"validation": err.Error(),
		})
	}

	identity, err := a.Flow.Login(ctx.Context(), *payload)
	if err != nil {
		if IsInvalidCredentialsError(err) {
			return ctx.JSON(http.StatusUnauthorized, map[string]any{
				"errors": map[string]string{"authentication": "Authentication Error"},
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	a.Logger.Info("login succeeded for identity %s", identity.ID())

	return ctx.Redirect(a.redirectTarget(), http.StatusSeeOther)
}

// LogoutPost clears the session and redirects to the login route.
func (a *AuthController) LogoutPost(ctx router.Context) error {
	a.Store.SignOut(ctx.Context())
	return ctx.Redirect(a.loginRoute(), http.StatusTemporaryRedirect)
}

func (a *AuthController) redirectTarget() string {
	if a.Config != nil && a.Config.GetDefaultRedirect() != "" {
		return a.Config.GetDefaultRedirect()
	}
	return "/"
}

func (a *AuthController) loginRoute() string {
	if a.Config != nil && a.Config.GetLoginRoute() != "" {
		return a.Config.GetLoginRoute()
	}
	return "/login"
}

func defaultErrHandler(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusInternalServerError, map[string]any{
		"error": err.Error(),
	})
}
