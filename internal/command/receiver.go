package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-zeromq/zmq4"
	"github.com/thejerf/suture/v4"
)

// DefaultEndpoint is where the control channel listens.
const DefaultEndpoint = "tcp://127.0.0.1:5557"

// Receiver decodes control messages from a ZeroMQ PAIR socket and queues
// them for the event loop. It never touches window manager state.
type Receiver struct {
	endpoint string
	queue    *Queue
	wake     func()
	logger   *slog.Logger
}

var _ suture.Service = (*Receiver)(nil)

// NewReceiver creates a receiver bound to endpoint. wake, if set, is called
// after every queued command so the event loop can drain it promptly.
func NewReceiver(endpoint string, queue *Queue, wake func(), logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{
		endpoint: endpoint,
		queue:    queue,
		wake:     wake,
		logger:   logger,
	}
}

// Serve listens until ctx is cancelled or the socket fails. A returned
// error lets the supervisor restart the receiver.
func (r *Receiver) Serve(ctx context.Context) error {
	sock := zmq4.NewPair(ctx)
	defer sock.Close()

	if err := sock.Listen(r.endpoint); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.endpoint, err)
	}
	r.logger.Info("control channel listening", "endpoint", r.endpoint)

	for {
		msg, err := sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return suture.ErrDoNotRestart
			}
			return fmt.Errorf("failed to receive control message: %w", err)
		}
		r.Handle(msg.Bytes())
	}
}

// Handle decodes one raw message and queues it. Invalid messages are
// logged and dropped.
func (r *Receiver) Handle(data []byte) {
	r.logger.Debug("received control message", "message", string(data))

	cmd, err := Decode(data)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			r.logger.Error("dropping control message", "field", verr.Field, "reason", verr.Reason)
		} else {
			r.logger.Error("dropping control message", "error", err)
		}
		return
	}

	r.queue.Push(cmd)
	if r.wake != nil {
		r.wake()
	}
}

func (r *Receiver) String() string {
	return "control channel " + r.endpoint
}
