package server

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// The gRPC surface uses google.protobuf.Struct messages so no generated
// stubs are needed. Request: {"url": string}. Response: the same fields as
// the HTTP predict response.
const (
	grpcServiceName   = "phishguard.v1.PhishGuard"
	grpcPredictMethod = "/" + grpcServiceName + "/Predict"
)

type phishGuardServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var phishGuardServiceDesc = grpc.ServiceDesc{
	ServiceName: grpcServiceName,
	HandlerType: (*phishGuardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "phishguard/v1/phishguard.proto",
}

func registerPhishGuardServer(s grpc.ServiceRegistrar, srv phishGuardServer) {
	s.RegisterService(&phishGuardServiceDesc, srv)
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(phishGuardServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: grpcPredictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(phishGuardServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// gRPC service implementation
type phishGuardService struct {
	srv *Server
}

func (p *phishGuardService) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rawURL := req.GetFields()["url"].GetStringValue()
	if rawURL == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}

	resp := p.srv.evaluate(ctx, rawURL)

	fields := map[string]interface{}{
		"listed": resp.Listed,
		"decision": map[string]interface{}{
			"action": string(resp.Decision.Action),
			"reason": resp.Decision.Reason,
		},
	}
	if resp.OK() {
		fields["url"] = resp.URL
		fields["prediction"] = string(resp.Label)
		fields["probability"] = resp.Probability
		fields["confidence"] = string(resp.Confidence)
	} else {
		fields["error"] = resp.Error
	}
	return structpb.NewStruct(fields)
}

// ServeGRPC serves the gRPC API on ln until the server is stopped.
func (s *Server) ServeGRPC(ln net.Listener) error {
	if err := s.grpcSrv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
