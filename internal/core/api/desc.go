package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "formlogic.v1.FormLogic"

// Full method names, as seen by interceptors.
const (
	MethodResolve         = "/" + ServiceName + "/Resolve"
	MethodCheckSubmission = "/" + ServiceName + "/CheckSubmission"
	MethodPurge           = "/" + ServiceName + "/Purge"
	MethodLint            = "/" + ServiceName + "/Lint"
	MethodJournal         = "/" + ServiceName + "/Journal"
)

// FormLogicServer is the server API for the FormLogic service.
type FormLogicServer interface {
	Resolve(context.Context, *ResolveRequest) (*ResolveResponse, error)
	CheckSubmission(context.Context, *CheckSubmissionRequest) (*CheckSubmissionResponse, error)
	Purge(context.Context, *PurgeRequest) (*PurgeResponse, error)
	Lint(context.Context, *LintRequest) (*LintResponse, error)
	Journal(context.Context, *JournalRequest) (*JournalResponse, error)
}

var _ FormLogicServer = (*Service)(nil)

// ServiceDesc describes the FormLogic service for grpc.Server.RegisterService.
// Messages are plain Go structs carried by the JSON codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FormLogicServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: unaryHandler(MethodResolve, FormLogicServer.Resolve)},
		{MethodName: "CheckSubmission", Handler: unaryHandler(MethodCheckSubmission, FormLogicServer.CheckSubmission)},
		{MethodName: "Purge", Handler: unaryHandler(MethodPurge, FormLogicServer.Purge)},
		{MethodName: "Lint", Handler: unaryHandler(MethodLint, FormLogicServer.Lint)},
		{MethodName: "Journal", Handler: unaryHandler(MethodJournal, FormLogicServer.Journal)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "formlogic/v1/formlogic",
}

// RegisterFormLogicServer registers srv on s.
func RegisterFormLogicServer(s grpc.ServiceRegistrar, srv FormLogicServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc's untyped handler signature,
// routing through the server's interceptor chain when one is installed.
func unaryHandler[Req, Resp any](fullMethod string, call func(FormLogicServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FormLogicServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FormLogicServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is the client API for the FormLogic service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection. Calls always use the JSON content-subtype.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve calls FormLogic.Resolve.
func (c *Client) Resolve(ctx context.Context, in *ResolveRequest, opts ...grpc.CallOption) (*ResolveResponse, error) {
	return invoke[ResolveResponse](ctx, c, MethodResolve, in, opts)
}

// CheckSubmission calls FormLogic.CheckSubmission.
func (c *Client) CheckSubmission(ctx context.Context, in *CheckSubmissionRequest, opts ...grpc.CallOption) (*CheckSubmissionResponse, error) {
	return invoke[CheckSubmissionResponse](ctx, c, MethodCheckSubmission, in, opts)
}

// Purge calls FormLogic.Purge.
func (c *Client) Purge(ctx context.Context, in *PurgeRequest, opts ...grpc.CallOption) (*PurgeResponse, error) {
	return invoke[PurgeResponse](ctx, c, MethodPurge, in, opts)
}

// Lint calls FormLogic.Lint.
func (c *Client) Lint(ctx context.Context, in *LintRequest, opts ...grpc.CallOption) (*LintResponse, error) {
	return invoke[LintResponse](ctx, c, MethodLint, in, opts)
}

// Journal calls FormLogic.Journal.
func (c *Client) Journal(ctx context.Context, in *JournalRequest, opts ...grpc.CallOption) (*JournalResponse, error) {
	return invoke[JournalResponse](ctx, c, MethodJournal, in, opts)
}
