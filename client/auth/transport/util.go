package transport

import (
	"bytes"
	"io"
	"net/http"
)

// replayableBody returns a body factory for req, buffering the body when the
// request was built without GetBody so that the retry can resend it. The
// original body is closed in both cases; attempts only read factory bodies.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		_ = req.Body.Close()
		return req.GetBody, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func clone(r *http.Request, getBody func() (io.ReadCloser, error)) (*http.Request, error) {
	cloned := r.Clone(r.Context())
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, err
		}
		cloned.Body = body
		cloned.GetBody = getBody
	}
	return cloned, nil
}

// discard drains and closes a response that will not reach the caller
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
