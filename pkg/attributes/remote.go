package attributes

import (
	"context"
	"fmt"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/session"
	"github.com/matecat/go-dqf/pkg/transport"
)

// RemoteSource fetches the attribute aggregate from the API.
type RemoteSource struct {
	Transport transport.Transport
	Session   session.Context
}

var _ Source = (*RemoteSource)(nil)

// FetchAll implements Source.
func (s *RemoteSource) FetchAll(ctx context.Context) ([]Record, error) {
	const op = "RemoteSource.FetchAll"

	resp, err := s.Transport.Invoke(ctx, &transport.Request{
		Operation: transport.OpGetBasicAttributes,
		Headers:   session.Headers(s.Session, ""),
	})
	if err != nil {
		return nil, &dqf.Error{Op: op, Err: err}
	}

	expected, _ := transport.Lookup(transport.OpGetBasicAttributes)
	if resp.StatusCode != expected.Expect {
		return nil, &dqf.Error{
			Op:  op,
			Err: dqf.ErrRemoteRejected,
			Msg: fmt.Sprintf("status %d: %s", resp.StatusCode, resp.Message()),
		}
	}

	agg := make(map[Kind][]Record, len(Kinds))
	for _, kind := range Kinds {
		var records []Record
		if err := resp.DecodeField(string(kind), &records); err != nil {
			return nil, &dqf.Error{Op: op, Err: err, Msg: string(kind)}
		}
		if len(records) > 0 {
			agg[kind] = records
		}
	}
	return flatten(agg), nil
}
