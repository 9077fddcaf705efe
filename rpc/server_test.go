package rpc

import (
	"bytes"
	"context"
	"log"
	"os"
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ardanlabs/collatz/collatz"
)

func newClient(t *testing.T) *Client {
	require := require.New(t)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, lis)
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}
	conn, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(err, "dial")

	t.Cleanup(func() {
		conn.Close()
		cancel()
		require.NoError(<-done, "serve")
	})

	return NewClient(conn)
}

func TestStats(t *testing.T) {
	require := require.New(t)
	client := newClient(t)

	stats, err := client.Stats(context.Background(), 52)
	require.NoError(err)

	expected := collatz.Stats{
		Start:    52,
		Length:   12,
		Max:      52,
		BitWidth: 6,
		Binary:   "110100",
	}
	require.Equal(expected, stats)
}

func TestStatsClamp(t *testing.T) {
	require := require.New(t)
	client := newClient(t)

	stats, err := client.Stats(context.Background(), -4)
	require.NoError(err)
	require.Equal(int64(1), stats.Start)
	require.Equal(1, stats.Length)
}

func TestSequence(t *testing.T) {
	require := require.New(t)
	client := newClient(t)

	for _, n := range []int64{1, 7, 52, 97} {
		seq, err := client.Sequence(context.Background(), n)
		require.NoError(err, "n=%d", n)

		local, err := collatz.Generate(n)
		require.NoError(err)
		require.Equal(local, seq, "n=%d", n)
	}
}

func TestOverflow(t *testing.T) {
	require := require.New(t)
	client := newClient(t)

	_, err := client.Stats(context.Background(), math.MaxInt64)
	require.Equal(codes.OutOfRange, status.Code(err))

	_, err = client.Sequence(context.Background(), math.MaxInt64)
	require.Equal(codes.OutOfRange, status.Code(err))
}

func TestListenAndServeLogsAddr(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(ListenAndServe(ctx, "127.0.0.1:0"))

	out := buf.String()
	require.Contains(out, "server listening on 127.0.0.1:")
	require.NotContains(out, "127.0.0.1:0\n")
}

func BenchmarkStats(b *testing.B) {
	require := require.New(b)
	srv := &Server{}
	req := &wrapperspb.Int64Value{Value: 837_799}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := srv.Stats(context.Background(), req)
		require.NoError(err)
	}
}
