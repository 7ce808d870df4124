package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/r3labs/sse/v2"
	"github.com/sirupsen/logrus"
	backoff "gopkg.in/cenkalti/backoff.v1"

	"github.com/seasonx/seasonx/pkg/events"
)

// WatchEvents streams the events of session id, plus config changes, into
// handle until ctx is done or the daemon closes the stream. Events are
// handled one at a time, in order. There is no reconnect: a dropped stream
// ends the watch.
func (c *Client) WatchEvents(ctx context.Context, id string, handle func(events.Event)) error {
	url := "http://unix" + sessionPath(id) + "/events"
	sc := sse.NewClient(url, func(sc *sse.Client) {
		sc.Connection = c.httpClient
		sc.ReconnectStrategy = &backoff.StopBackOff{}
		sc.ResponseValidator = validateEventStream
	})

	logrus.WithField("url", url).Debug("watching events")
	err := sc.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		handle(events.Event{
			Name: string(msg.Event),
			Data: append(json.RawMessage(nil), msg.Data...),
		})
	})

	if ctx.Err() != nil || errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to watch events of session %s", id)
	}
	return nil
}

func validateEventStream(_ *sse.Client, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return pkgerrors.Errorf("got %d while subscribing to events", resp.StatusCode)
}
