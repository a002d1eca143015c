package hostedauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/mindcare/go-access"
)

type accessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type authIdentity struct {
	id        string
	email     string
	createdAt time.Time
}

func (a authIdentity) ID() string           { return a.id }
func (a authIdentity) Email() string        { return a.email }
func (a authIdentity) CreatedAt() time.Time { return a.createdAt }

var _ access.Identity = authIdentity{}

// ExtractIdentity parses identity attributes out of a provider access
// token. The token is NOT validated here; signature and expiry checks are
// the provider's responsibility and happen server side on every call.
func ExtractIdentity(accessToken string) (access.Identity, error) {
	claims := &accessTokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "failed to parse access token")
	}

	if claims.Subject == "" {
		return nil, goerrors.New("access token has no subject", goerrors.CategoryAuth)
	}

	identity := authIdentity{
		id:    claims.Subject,
		email: claims.Email,
	}

	if claims.IssuedAt != nil {
		identity.createdAt = claims.IssuedAt.Time
	}

	return identity, nil
}
