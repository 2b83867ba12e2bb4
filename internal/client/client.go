// Package client implements the Svara API clients used by the command line
// tools: a streaming recognizer and a synthesizer, both authenticating with
// a bearer token per RPC.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const defaultInactivityTimeout = 10 * time.Second

// TokenSource provides the bearer credential attached to every RPC.
// *auth.TokenManager satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options configure a client connection.
type Options struct {
	// Host is the service address, host:port.
	Host string
	// Secure selects TLS transport.
	Secure bool
	// TokenSource, when set, attaches bearer tokens to every RPC.
	TokenSource TokenSource
	// InactivityTimeout aborts a recognition stream when the server sends
	// nothing for this long. Defaults to 10s.
	InactivityTimeout time.Duration
	// ChunkSize is the audio chunk size in bytes; zero or less sends the
	// whole audio as a single chunk.
	ChunkSize int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// DialOptions are appended to the computed dial options.
	DialOptions []grpc.DialOption
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.InactivityTimeout == 0 {
		opts.InactivityTimeout = defaultInactivityTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func dial(opts Options) (*grpc.ClientConn, error) {
	transport := insecure.NewCredentials()
	if opts.Secure {
		transport = credentials.NewTLS(&tls.Config{})
	}
	dialOptions := []grpc.DialOption{grpc.WithTransportCredentials(transport)}
	if opts.TokenSource != nil {
		dialOptions = append(dialOptions, grpc.WithPerRPCCredentials(rpcCredentials{
			source: opts.TokenSource,
			secure: opts.Secure,
		}))
	}
	dialOptions = append(dialOptions, opts.DialOptions...)

	conn, err := grpc.NewClient(opts.Host, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Host, err)
	}
	return conn, nil
}

// rpcCredentials adapts a TokenSource to grpc per-RPC credentials.
type rpcCredentials struct {
	source TokenSource
	secure bool
}

func (c rpcCredentials) GetRequestMetadata(ctx context.Context, _ ...string) (map[string]string, error) {
	token, err := c.source.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	return map[string]string{"authorization": "Bearer " + token}, nil
}

func (c rpcCredentials) RequireTransportSecurity() bool {
	return c.secure
}
