package bufr

import "context"

// Codec is the external BUFR collaborator. Implementations own the bit-level
// FM 94 wire format; this module only ever exchanges structured messages.
// Encode must return a complete, self-contained message so writers can
// append it atomically.
type Codec interface {
	Encode(ctx context.Context, msg Message) ([]byte, error)
	Decode(ctx context.Context, data []byte) (Message, error)
}
