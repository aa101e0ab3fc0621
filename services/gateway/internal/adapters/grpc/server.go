package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/application"
)

// IdentityInternalService validates gateway-issued tokens for peer services
// that want to resolve a bearer token without sharing the signing secret.
type IdentityInternalService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type IdentityInternalServer struct {
	service *application.Service
}

func NewIdentityInternalServer(service *application.Service) *IdentityInternalServer {
	return &IdentityInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc IdentityInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "homeroot.identity.v1.IdentityInternalService",
		HandlerType: (*IdentityInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateToken",
				Handler:    validateTokenHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "homeroot/identity/v1/identity_internal.proto",
	}, svc)
}

func (s *IdentityInternalServer) ValidateToken(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokenVal := req.GetFields()["token"]
	if tokenVal == nil {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}
	token := tokenVal.GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	principal, err := s.service.DecodeToken(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":    true,
		"user_id":  principal.ID,
		"username": principal.Username,
		"roles":    identity.JoinRoles(principal.Roles),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func validateTokenHandler(svc IdentityInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.ValidateToken(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/homeroot.identity.v1.IdentityInternalService/ValidateToken",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.ValidateToken(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
