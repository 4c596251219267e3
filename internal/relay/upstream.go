package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// maxUpstreamBody caps how much of an upstream reply is read.
const maxUpstreamBody = 1 << 20

// HTTPUpstream posts chat messages to <baseURL>/chat.
type HTTPUpstream struct {
	baseURL string
	client  *http.Client
}

func NewHTTPUpstream(baseURL string, timeout time.Duration) *HTTPUpstream {
	return &HTTPUpstream{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Chat sends {"mensaje": message}. Any HTTP answer, whatever its status, is a
// Reply; only transport failures are errors.
func (u *HTTPUpstream) Chat(ctx context.Context, message string) (*Reply, error) {
	b, err := json.Marshal(map[string]string{"mensaje": message})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.baseURL+"/chat",
		bytes.NewReader(b),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build upstream request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, errors.Wrap(err, "read upstream body")
	}

	reply := &Reply{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(body)) > 0 && json.Valid(body) {
		reply.Payload = json.RawMessage(body)
	}
	return reply, nil
}
