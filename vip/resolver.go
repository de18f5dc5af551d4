package vip

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// mentionToken matches Slack mention syntax: <@U123ABC> or <@U123ABC|name>.
var mentionToken = regexp.MustCompile(`^<@([UW][A-Z0-9]+)(?:\|[^>]*)?>$`)

// Resolver maps a user-supplied handle or mention token to a canonical
// workspace identity. Exactly one gateway lookup per call.
type Resolver struct {
	gateway Gateway
}

func NewResolver(gateway Gateway) *Resolver {
	return &Resolver{gateway: gateway}
}

// Resolve accepts a structured mention token, "@name", or a plain username.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, &IdentityNotFoundError{Token: token}
	}

	var (
		identity *Identity
		err      error
	)
	if m := mentionToken.FindStringSubmatch(trimmed); m != nil {
		identity, err = r.gateway.LookupIdentity(ctx, m[1])
	} else {
		identity, err = r.gateway.LookupIdentityByName(ctx, strings.TrimPrefix(trimmed, "@"))
	}
	if err != nil {
		if errors.Is(err, ErrGatewayNotFound) {
			return nil, &IdentityNotFoundError{Token: trimmed}
		}
		return nil, errors.Wrapf(err, "failed to resolve identity for %q", trimmed)
	}
	return identity, nil
}
