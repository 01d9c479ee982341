// Package session supplies the per-user context attached to every DQF call.
package session

import "github.com/matecat/go-dqf/pkg/transport"

// Context supplies the session id and the optional generic operator email.
// Sessions are issued elsewhere; this module only consumes them.
type Context interface {
	SessionID() string
	GenericEmail() string
}

// Static is a fixed Context.
type Static struct {
	ID    string `hcl:"session_id,optional"`
	Email string `hcl:"generic_email,optional"`
}

var _ Context = Static{}

func (s Static) SessionID() string { return s.ID }
func (s Static) GenericEmail() string { return s.Email }

// Headers builds the transport headers of a call scoped to projectKey.
// projectKey may be empty for calls not scoped to a project.
func Headers(c Context, projectKey string) transport.Headers {
	return transport.Headers{
		SessionID:  c.SessionID(),
		ProjectKey: projectKey,
		Email:      c.GenericEmail(),
	}
}
