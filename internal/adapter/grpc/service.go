package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "sendflow.v1.FlowService"

// Method names of FlowService
const (
	MethodOpenSession      = "OpenSession"
	MethodGetView          = "GetView"
	MethodDispatch         = "Dispatch"
	MethodResetSession     = "ResetSession"
	MethodCloseSession     = "CloseSession"
	MethodSearchRecipients = "SearchRecipients"
	MethodListCatalog      = "ListCatalog"
)

// FlowServiceServer is the server API for FlowService.
// Requests and responses are google.protobuf.Struct documents.
type FlowServiceServer interface {
	OpenSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetView(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchRecipients(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(FlowServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call structMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FlowServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(FlowServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FlowServiceDesc describes FlowService for grpc.Server.RegisterService
var FlowServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodOpenSession, FlowServiceServer.OpenSession),
		unaryHandler(MethodGetView, FlowServiceServer.GetView),
		unaryHandler(MethodDispatch, FlowServiceServer.Dispatch),
		unaryHandler(MethodResetSession, FlowServiceServer.ResetSession),
		unaryHandler(MethodCloseSession, FlowServiceServer.CloseSession),
		unaryHandler(MethodSearchRecipients, FlowServiceServer.SearchRecipients),
		unaryHandler(MethodListCatalog, FlowServiceServer.ListCatalog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sendflow/v1/flow.proto",
}

// RegisterFlowServiceServer registers srv on s
func RegisterFlowServiceServer(s grpc.ServiceRegistrar, srv FlowServiceServer) {
	s.RegisterService(&FlowServiceDesc, srv)
}

// FlowServiceClient calls FlowService over a client connection
type FlowServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFlowServiceClient(cc grpc.ClientConnInterface) *FlowServiceClient {
	return &FlowServiceClient{cc: cc}
}

// Call invokes method with in and returns the response document
func (c *FlowServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
