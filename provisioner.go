package access

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate will run validation rules
func (a DemoAccount) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(
			&a.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&a.Password,
			validation.Required,
			validation.Length(6, 100),
		),
		validation.Field(
			&a.Role,
			validation.Required,
		),
	)
}

// DemoProvisioner idempotently ensures a fixed set of demo identities exist
// with assigned roles. Provisioning and authentication are distinct: it
// never signs an account in.
type DemoProvisioner struct {
	client AuthClient
	roles  RoleStore
	logger Logger
	sink   ActivitySink
}

// NewDemoProvisioner returns a new DemoProvisioner
func NewDemoProvisioner(client AuthClient, roles RoleStore) *DemoProvisioner {
	return &DemoProvisioner{
		client: client,
		roles:  roles,
		logger: defLogger{},
		sink:   noopActivitySink{},
	}
}

func (p *DemoProvisioner) WithLogger(logger Logger) *DemoProvisioner {
	p.logger = logger
	return p
}

// WithActivitySink configures an ActivitySink for provisioning events.
func (p *DemoProvisioner) WithActivitySink(sink ActivitySink) *DemoProvisioner {
	p.sink = normalizeActivitySink(sink)
	return p
}

// Provision runs the bootstrap sequence for each account. Accounts are
// processed in order; one account's failure does not stop the rest, and all
// failures are joined into the returned error. Re-running over the same
// list is a no-op success.
func (p *DemoProvisioner) Provision(ctx context.Context, accounts ...DemoAccount) error {
	if len(accounts) == 0 {
		accounts = DefaultDemoAccounts()
	}

	var errs []error
	for _, account := range accounts {
		if err := p.provisionAccount(ctx, account); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// provisionAccount executes the strictly ordered steps for one account:
// sign up, tolerate "already registered" as success, abort on anything
// else, then upsert the role assignment keyed by (identity id, role).
func (p *DemoProvisioner) provisionAccount(ctx context.Context, account DemoAccount) error {
	if err := account.Validate(); err != nil {
		return p.fail(ctx, account, err)
	}

	identityID, err := p.client.SignUp(ctx, account.Email, account.Password, nil)
	if err != nil {
		if !IsAlreadyRegisteredError(err) {
			return p.fail(ctx, account, err)
		}

		identity, lookupErr := p.client.FindIdentityByEmail(ctx, account.Email)
		if lookupErr != nil {
			return p.fail(ctx, account, lookupErr)
		}
		identityID = identity.ID()

		recordActivity(ctx, p.sink, p.logger, ActivityEvent{
			EventType:  ActivityEventProvisionPreexist,
			IdentityID: identityID,
			Metadata:   map[string]any{"email": account.Email},
		})
	}

	if err := p.roles.UpsertRole(ctx, identityID, account.Role); err != nil {
		return p.fail(ctx, account, err)
	}

	p.logger.Debug("demo account %s provisioned with role %s", account.Email, account.Role)

	recordActivity(ctx, p.sink, p.logger, ActivityEvent{
		EventType:  ActivityEventProvisionSuccess,
		IdentityID: identityID,
		Role:       account.Role,
		Metadata:   map[string]any{"email": account.Email},
	})

	return nil
}

func (p *DemoProvisioner) fail(ctx context.Context, account DemoAccount, err error) error {
	p.logger.Error("demo account %s provisioning failed: %v", account.Email, err)

	recordActivity(ctx, p.sink, p.logger, ActivityEvent{
		EventType: ActivityEventProvisionFailure,
		Metadata: map[string]any{
			"email": account.Email,
			"error": err.Error(),
		},
	})

	return NewProvisioningError(err, account.Email)
}
