package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// RecognizerServiceName is the fully qualified gRPC service name.
const RecognizerServiceName = "svara.v1.Recognizer"

// RecognizerServer describes the recognition RPC surface.
type RecognizerServer interface {
	Recognize(context.Context, *RecognizeRequest) (*RecognizeResponse, error)
	StreamingRecognize(Recognizer_StreamingRecognizeServer) error
}

// RegisterRecognizerServer registers the recognition service handlers.
func RegisterRecognizerServer(s *grpc.Server, srv RecognizerServer) {
	s.RegisterService(&_Recognizer_serviceDesc, srv)
}

// Recognizer_StreamingRecognizeServer is the server view of the bidi stream.
type Recognizer_StreamingRecognizeServer interface {
	Send(*StreamingRecognizeResponse) error
	Recv() (*StreamingRecognizeRequest, error)
	grpc.ServerStream
}

type recognizerStreamingRecognizeServer struct {
	grpc.ServerStream
}

func (s *recognizerStreamingRecognizeServer) Send(m *StreamingRecognizeResponse) error {
	return s.ServerStream.SendMsg(m)
}

func (s *recognizerStreamingRecognizeServer) Recv() (*StreamingRecognizeRequest, error) {
	m := new(StreamingRecognizeRequest)
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecognizerClient is the client view of the recognition service.
type RecognizerClient interface {
	Recognize(ctx context.Context, in *RecognizeRequest, opts ...grpc.CallOption) (*RecognizeResponse, error)
	StreamingRecognize(ctx context.Context, opts ...grpc.CallOption) (Recognizer_StreamingRecognizeClient, error)
}

// Recognizer_StreamingRecognizeClient is the client view of the bidi stream.
type Recognizer_StreamingRecognizeClient interface {
	Send(*StreamingRecognizeRequest) error
	Recv() (*StreamingRecognizeResponse, error)
	CloseSend() error
	grpc.ClientStream
}

type recognizerClient struct {
	cc *grpc.ClientConn
}

// NewRecognizerClient wires a client connection to the recognition surface.
func NewRecognizerClient(cc *grpc.ClientConn) RecognizerClient {
	return &recognizerClient{cc: cc}
}

func (c *recognizerClient) Recognize(ctx context.Context, in *RecognizeRequest, opts ...grpc.CallOption) (*RecognizeResponse, error) {
	out := new(RecognizeResponse)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := c.cc.Invoke(ctx, "/svara.v1.Recognizer/Recognize", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recognizerClient) StreamingRecognize(ctx context.Context, opts ...grpc.CallOption) (Recognizer_StreamingRecognizeClient, error) {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &_Recognizer_serviceDesc.Streams[0], "/svara.v1.Recognizer/StreamingRecognize", opts...)
	if err != nil {
		return nil, err
	}
	return &recognizerStreamingRecognizeClient{stream}, nil
}

type recognizerStreamingRecognizeClient struct {
	grpc.ClientStream
}

func (c *recognizerStreamingRecognizeClient) Send(m *StreamingRecognizeRequest) error {
	return c.ClientStream.SendMsg(m)
}

func (c *recognizerStreamingRecognizeClient) Recv() (*StreamingRecognizeResponse, error) {
	m := new(StreamingRecognizeResponse)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _Recognizer_Recognize_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RecognizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecognizerServer).Recognize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/svara.v1.Recognizer/Recognize",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecognizerServer).Recognize(ctx, req.(*RecognizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Recognizer_StreamingRecognize_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(RecognizerServer).StreamingRecognize(&recognizerStreamingRecognizeServer{stream})
}

var _Recognizer_serviceDesc = grpc.ServiceDesc{
	ServiceName: RecognizerServiceName,
	HandlerType: (*RecognizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Recognize",
			Handler:    _Recognizer_Recognize_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamingRecognize",
			Handler:       _Recognizer_StreamingRecognize_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "svara_v1",
}
