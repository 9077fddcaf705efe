// Package rpc serves Collatz sequences over gRPC.
//
// The service uses protobuf well-known types for its messages so there's no
// generated code:
//
//	service Collatz {
//	    rpc Stats(google.protobuf.Int64Value) returns (google.protobuf.Struct);
//	    rpc Sequence(google.protobuf.Int64Value) returns (stream google.protobuf.Int64Value);
//	}
package rpc

import (
	"context"
	"errors"
	"log"
	"net"
	"strconv"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ardanlabs/collatz/collatz"
)

const (
	serviceName    = "collatz.Collatz"
	statsMethod    = "/" + serviceName + "/Stats"
	sequenceMethod = "/" + serviceName + "/Sequence"
)

// Service is the server API of the Collatz service.
type Service interface {
	Stats(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	Sequence(*wrapperspb.Int64Value, grpc.ServerStream) error
}

// Server implements Service.
type Server struct{}

// Stats returns the statistics of the sequence starting at req.
func (s *Server) Stats(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	n := collatz.Clamp(req.GetValue())
	seq, err := generate(n)
	if err != nil {
		return nil, err
	}

	stats := collatz.NewStats(seq)
	return structpb.NewStruct(map[string]interface{}{
		"n":         strconv.FormatInt(stats.Start, 10),
		"length":    stats.Length,
		"max":       strconv.FormatInt(stats.Max, 10),
		"bit_width": stats.BitWidth,
		"binary":    stats.Binary,
	})
}

// Sequence streams the members of the sequence starting at req.
func (s *Server) Sequence(req *wrapperspb.Int64Value, stream grpc.ServerStream) error {
	seq, err := generate(collatz.Clamp(req.GetValue()))
	if err != nil {
		return err
	}

	for _, v := range seq {
		if err := stream.SendMsg(wrapperspb.Int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func generate(n int64) ([]int64, error) {
	seq, err := collatz.Generate(n)
	if err != nil {
		log.Printf("generate error: %s", err)
		if errors.Is(err, collatz.ErrOverflow) {
			return nil, status.Error(codes.OutOfRange, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return seq, nil
}

func statsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Service).Stats(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: statsMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(Service).Stats(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func sequenceHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(wrapperspb.Int64Value)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(Service).Sequence(in, stream)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Service)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Stats",
			Handler:    statsHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Sequence",
			Handler:       sequenceHandler,
			ServerStreams: true,
		},
	},
	Metadata: "collatz.proto",
}

// Register registers a Collatz service on srv.
func Register(srv *grpc.Server) {
	srv.RegisterService(&serviceDesc, &Server{})
}

// Serve serves the Collatz service on lis until ctx is done, then stops
// gracefully.
func Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	Register(srv)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		srv.GracefulStop()
		return nil
	})

	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Printf("server listening on %s", lis.Addr())
	return Serve(ctx, lis)
}
