package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Health checks stay open so orchestration can probe without credentials.
const healthServicePrefix = "/grpc.health.v1.Health/"

// UnaryServerInterceptor enforces a bearer token on unary RPCs.
func UnaryServerInterceptor(secret []byte, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}
		if err := authorize(ctx, secret, logger, info.FullMethod); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor enforces a bearer token on streaming RPCs.
func StreamServerInterceptor(secret []byte, logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(srv, ss)
		}
		if err := authorize(ss.Context(), secret, logger, info.FullMethod); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

func authorize(ctx context.Context, secret []byte, logger *zap.Logger, method string) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing request metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return status.Error(codes.Unauthenticated, "missing authorization token")
	}
	token := strings.TrimPrefix(values[0], "Bearer ")
	claims, err := ValidateToken(token, secret)
	if err != nil {
		logger.Warn("rejected request with invalid token",
			zap.String("method", method),
			zap.Error(err))
		return status.Error(codes.Unauthenticated, "invalid authorization token")
	}
	logger.Debug("authorized request",
		zap.String("method", method),
		zap.String("client_id", claims.ClientID))
	return nil
}
