package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func accessToken(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// identityInterceptor attaches the caller identity, or nil, to the context.
// Authorization itself is left to the services.
func (s *GRPCServer) identityInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := s.sessions.Resolve(ctx, accessToken(ctx))

	if id != nil {
		s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "username", id.Username)
	} else {
		s.logger.Debug(ctx, "rpc", "method", info.FullMethod)
	}

	return handler(auth.WithIdentity(ctx, id), req)
}
