package access

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest carries explicit sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 100),
		),
	)
}

// LoginFlow orchestrates password sign-in with an optional demo fallback:
// when a known demo account fails with invalid credentials, the account is
// provisioned and the sign-in retried once. All other failures surface to
// the caller as-is.
type LoginFlow struct {
	client      AuthClient
	provisioner *DemoProvisioner
	demo        []DemoAccount
	logger      Logger
	sink        ActivitySink
}

// NewLoginFlow returns a new LoginFlow
func NewLoginFlow(client AuthClient) *LoginFlow {
	return &LoginFlow{
		client: client,
		logger: defLogger{},
		sink:   noopActivitySink{},
	}
}

func (f *LoginFlow) WithLogger(logger Logger) *LoginFlow {
	f.logger = logger
	return f
}

// WithActivitySink configures an ActivitySink for login events.
func (f *LoginFlow) WithActivitySink(sink ActivitySink) *LoginFlow {
	f.sink = normalizeActivitySink(sink)
	return f
}

// WithDemoFallback enables the demo provisioning path for the given
// accounts. Without it, LoginFlow is a plain validated sign-in.
func (f *LoginFlow) WithDemoFallback(provisioner *DemoProvisioner, accounts ...DemoAccount) *LoginFlow {
	f.provisioner = provisioner
	if len(accounts) == 0 {
		accounts = DefaultDemoAccounts()
	}
	f.demo = accounts
	return f
}

// Login validates the request and signs in. For demo accounts that do not
// exist yet, it provisions them and retries the sign-in once.
func (f *LoginFlow) Login(ctx context.Context, req LoginRequest) (Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity, err := f.client.SignInWithPassword(ctx, req.Email, req.Password)
	if err == nil {
		f.recordLogin(ctx, identity, nil)
		return identity, nil
	}

	account, ok := f.demoAccount(req)
	if !ok || !IsInvalidCredentialsError(err) {
		f.recordLogin(ctx, nil, err)
		return nil, err
	}

	f.logger.Info("demo account %s missing, provisioning before retry", account.Email)

	if err := f.provisioner.Provision(ctx, account); err != nil {
		f.recordLogin(ctx, nil, err)
		return nil, err
	}

	identity, err = f.client.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		f.recordLogin(ctx, nil, err)
		return nil, err
	}

	f.recordLogin(ctx, identity, nil)
	return identity, nil
}

func (f *LoginFlow) demoAccount(req LoginRequest) (DemoAccount, bool) {
	if f.provisioner == nil {
		return DemoAccount{}, false
	}

	for _, account := range f.demo {
		if account.Email == req.Email && account.Password == req.Password {
			return account, true
		}
	}

	return DemoAccount{}, false
}

func (f *LoginFlow) recordLogin(ctx context.Context, identity Identity, err error) {
	if err != nil {
		f.logger.Error("login failed: %v", err)
		recordActivity(ctx, f.sink, f.logger, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Metadata:  map[string]any{"error": err.Error()},
		})
		return
	}

	recordActivity(ctx, f.sink, f.logger, ActivityEvent{
		EventType:  ActivityEventLoginSuccess,
		IdentityID: identity.ID(),
	})
}
