package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "campuscars.ListingService"

// ListingServiceServer is the server API of campuscars.ListingService. Every
// method takes and returns a google.protobuf.Struct.
type ListingServiceServer interface {
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListListings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv ListingServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(ListingServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(server, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// FullMethod returns "/campuscars.ListingService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var ListingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ListingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("SignIn", ListingServiceServer.SignIn),
		methodDesc("SignOut", ListingServiceServer.SignOut),
		methodDesc("ListListings", ListingServiceServer.ListListings),
		methodDesc("GetListing", ListingServiceServer.GetListing),
		methodDesc("CreateListing", ListingServiceServer.CreateListing),
		methodDesc("UpdateListing", ListingServiceServer.UpdateListing),
		methodDesc("DeleteListing", ListingServiceServer.DeleteListing),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campuscars/listing_service.proto",
}

func RegisterListingServiceServer(s grpc.ServiceRegistrar, srv ListingServiceServer) {
	s.RegisterService(&ListingServiceDesc, srv)
}
