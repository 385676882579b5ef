package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Send publishes one control message to the window manager. The protocol
// has no replies, so success only means the message was handed to the
// socket.
func Send(ctx context.Context, endpoint string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	sock := zmq4.NewPair(ctx)
	defer sock.Close()

	if err := sock.Dial(endpoint); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	if err := sock.Send(zmq4.NewMsg(data)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
