package repository

import (
	"context"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/matecat/go-dqf/pkg/attributes"
	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/session"
	"github.com/matecat/go-dqf/pkg/transport"
)

// DefaultBatchLimit is the maximum number of segments per batch call.
const DefaultBatchLimit = 100

// Config holds the collaborators shared by every repository.
type Config struct {
	Transport transport.Transport
	Session   session.Context

	// Resolver hydrates enumerations; nil means attributes.Default().
	Resolver *attributes.Resolver

	// Logger; nil disables logging.
	Logger hclog.Logger

	// BatchLimit caps segments per batch call; 0 means DefaultBatchLimit.
	BatchLimit int
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Transport, validation.Required),
		validation.Field(&c.Session, validation.Required),
		validation.Field(&c.BatchLimit, validation.Min(0)),
	)
}

// base carries the collaborators and the status policy.
type base struct {
	transport  transport.Transport
	session    session.Context
	resolver   *attributes.Resolver
	logger     hclog.Logger
	batchLimit int
}

func newBase(cfg Config, name string) (base, error) {
	if err := cfg.Validate(); err != nil {
		return base{}, fmt.Errorf("invalid repository config: %w", err)
	}
	if cfg.Resolver == nil {
		cfg.Resolver = attributes.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.BatchLimit == 0 {
		cfg.BatchLimit = DefaultBatchLimit
	}
	return base{
		transport:  cfg.Transport,
		session:    cfg.Session,
		resolver:   cfg.Resolver,
		logger:     cfg.Logger.Named(name),
		batchLimit: cfg.BatchLimit,
	}, nil
}

// call invokes operation and applies the status policy. It reports found as
// false, with a nil error, when a fetch finds nothing. out may be nil.
func (b *base) call(ctx context.Context, caller, operation string, params transport.Params, projectKey string, body, out any) (found bool, err error) {
	op, ok := transport.Lookup(operation)
	if !ok {
		return false, dqf.Preconditionf(caller, "unknown operation %q", operation)
	}

	resp, err := b.transport.Invoke(ctx, &transport.Request{
		Operation:  operation,
		PathParams: params,
		Headers:    session.Headers(b.session, projectKey),
		Body:       body,
	})
	if err != nil {
		return false, &dqf.Error{Op: caller, Err: err, Msg: operation}
	}

	b.logger.Trace("remote call", "operation", operation, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == op.Expect:
	case resp.IsNotFound() && op.Method == http.MethodGet:
		return false, nil
	default:
		return false, &dqf.Error{
			Op:  caller,
			Err: dqf.ErrRemoteRejected,
			Msg: fmt.Sprintf("%s returned status %d: %s", operation, resp.StatusCode, resp.Message()),
		}
	}

	if _, ok := resp.Payload["model"]; ok && !resp.Has("model") && op.Method == http.MethodGet {
		return false, nil
	}

	if out != nil {
		if err := resp.Decode(out); err != nil {
			return true, &dqf.Error{Op: caller, Err: err, Msg: operation}
		}
	}
	return true, nil
}

func (b *base) hydrateLanguage(l *dqf.Language) error {
	if l == nil || l.Code == "" {
		return nil
	}
	return b.resolver.HydrateLanguage(l)
}
