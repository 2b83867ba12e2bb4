package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// SynthesizerServiceName is the fully qualified gRPC service name.
const SynthesizerServiceName = "svara.v1.Synthesizer"

// SynthesizerServer describes the synthesis RPC surface.
type SynthesizerServer interface {
	SynthesizeSpeech(context.Context, *SynthesizeRequest) (*SynthesizeResponse, error)
}

// RegisterSynthesizerServer registers the synthesis service handlers.
func RegisterSynthesizerServer(s *grpc.Server, srv SynthesizerServer) {
	s.RegisterService(&_Synthesizer_serviceDesc, srv)
}

// SynthesizerClient is the client view of the synthesis service.
type SynthesizerClient interface {
	SynthesizeSpeech(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (*SynthesizeResponse, error)
}

type synthesizerClient struct {
	cc *grpc.ClientConn
}

// NewSynthesizerClient wires a client connection to the synthesis surface.
func NewSynthesizerClient(cc *grpc.ClientConn) SynthesizerClient {
	return &synthesizerClient{cc: cc}
}

func (c *synthesizerClient) SynthesizeSpeech(ctx context.Context, in *SynthesizeRequest, opts ...grpc.CallOption) (*SynthesizeResponse, error) {
	out := new(SynthesizeResponse)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, "/svara.v1.Synthesizer/SynthesizeSpeech", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Synthesizer_SynthesizeSpeech_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SynthesizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SynthesizerServer).SynthesizeSpeech(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/svara.v1.Synthesizer/SynthesizeSpeech",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SynthesizerServer).SynthesizeSpeech(ctx, req.(*SynthesizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _Synthesizer_serviceDesc = grpc.ServiceDesc{
	ServiceName: SynthesizerServiceName,
	HandlerType: (*SynthesizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SynthesizeSpeech",
			Handler:    _Synthesizer_SynthesizeSpeech_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "svara_v1",
}
