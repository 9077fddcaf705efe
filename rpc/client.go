package rpc

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ardanlabs/collatz/collatz"
)

// Client is a Collatz service client.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a client using conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn}
}

// Dial returns a connection to the Collatz server at addr. It doesn't wait
// for the server, calls on an unreachable server fail with Unavailable.
func Dial(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	return grpc.DialContext(
		ctx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

// Stats returns the statistics of the sequence starting at n.
func (c *Client) Stats(ctx context.Context, n int64) (collatz.Stats, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, statsMethod, wrapperspb.Int64(n), out); err != nil {
		return collatz.Stats{}, err
	}

	fields := out.GetFields()
	start, err := strconv.ParseInt(fields["n"].GetStringValue(), 10, 64)
	if err != nil {
		return collatz.Stats{}, fmt.Errorf("bad n: %w", err)
	}
	max, err := strconv.ParseInt(fields["max"].GetStringValue(), 10, 64)
	if err != nil {
		return collatz.Stats{}, fmt.Errorf("bad max: %w", err)
	}

	stats := collatz.Stats{
		Start:    start,
		Length:   int(fields["length"].GetNumberValue()),
		Max:      max,
		BitWidth: int(fields["bit_width"].GetNumberValue()),
		Binary:   fields["binary"].GetStringValue(),
	}
	return stats, nil
}

// Sequence returns the sequence starting at n.
func (c *Client) Sequence(ctx context.Context, n int64) ([]int64, error) {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], sequenceMethod)
	if err != nil {
		return nil, err
	}

	if err := stream.SendMsg(wrapperspb.Int64(n)); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	var seq []int64
	for {
		v := new(wrapperspb.Int64Value)
		err := stream.RecvMsg(v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		seq = append(seq, v.GetValue())
	}

	return seq, nil
}
