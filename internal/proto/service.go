package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "gophnotes.NotesService"

const (
	NotesService_Register_FullMethodName    = "/" + ServiceName + "/Register"
	NotesService_Login_FullMethodName       = "/" + ServiceName + "/Login"
	NotesService_Logout_FullMethodName      = "/" + ServiceName + "/Logout"
	NotesService_ViewUser_FullMethodName    = "/" + ServiceName + "/ViewUser"
	NotesService_DeleteUser_FullMethodName  = "/" + ServiceName + "/DeleteUser"
	NotesService_AddNote_FullMethodName     = "/" + ServiceName + "/AddNote"
	NotesService_EditNote_FullMethodName    = "/" + ServiceName + "/EditNote"
	NotesService_DeleteNote_FullMethodName  = "/" + ServiceName + "/DeleteNote"
	NotesService_ExportNotes_FullMethodName = "/" + ServiceName + "/ExportNotes"
)

type NotesServiceServer interface {
	Register(context.Context, *RegisterRequest) (*SessionResponse, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	Logout(context.Context, *LogoutRequest) (*emptypb.Empty, error)
	ViewUser(context.Context, *ViewUserRequest) (*ProfileResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*emptypb.Empty, error)
	AddNote(context.Context, *AddNoteRequest) (*NoteResponse, error)
	EditNote(context.Context, *EditNoteRequest) (*NoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*emptypb.Empty, error)
	ExportNotes(context.Context, *ExportNotesRequest) (*ExportNotesResponse, error)
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(NotesServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			wire, err := newWire(in)
			if err != nil {
				return nil, err
			}
			if err := dec(wire); err != nil {
				return nil, err
			}
			if err := fromWire(wire, in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(srv.(NotesServiceServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				return toWire(out)
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var NotesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", NotesServiceServer.Register),
		unary("Login", NotesServiceServer.Login),
		unary("Logout", NotesServiceServer.Logout),
		unary("ViewUser", NotesServiceServer.ViewUser),
		unary("DeleteUser", NotesServiceServer.DeleteUser),
		unary("AddNote", NotesServiceServer.AddNote),
		unary("EditNote", NotesServiceServer.EditNote),
		unary("DeleteNote", NotesServiceServer.DeleteNote),
		unary("ExportNotes", NotesServiceServer.ExportNotes),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophnotes/notes.proto",
}

func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&NotesService_ServiceDesc, srv)
}

type NotesServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ViewUser(ctx context.Context, in *ViewUserRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	AddNote(ctx context.Context, in *AddNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	EditNote(ctx context.Context, in *EditNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error)
}

type notesServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNotesServiceClient(cc grpc.ClientConnInterface) NotesServiceClient {
	return &notesServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	req, err := toWire(in)
	if err != nil {
		return nil, err
	}
	out := new(Resp)
	reply, err := newWire(out)
	if err != nil {
		return nil, err
	}
	if err := cc.Invoke(ctx, method, req, reply, opts...); err != nil {
		return nil, err
	}
	if err := fromWire(reply, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, NotesService_Register_FullMethodName, in, opts)
}

func (c *notesServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, NotesService_Login_FullMethodName, in, opts)
}

func (c *notesServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, NotesService_Logout_FullMethodName, in, opts)
}

func (c *notesServiceClient) ViewUser(ctx context.Context, in *ViewUserRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, NotesService_ViewUser_FullMethodName, in, opts)
}

func (c *notesServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, NotesService_DeleteUser_FullMethodName, in, opts)
}

func (c *notesServiceClient) AddNote(ctx context.Context, in *AddNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	return invoke[NoteResponse](ctx, c.cc, NotesService_AddNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) EditNote(ctx context.Context, in *EditNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	return invoke[NoteResponse](ctx, c.cc, NotesService_EditNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, NotesService_DeleteNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error) {
	return invoke[ExportNotesResponse](ctx, c.cc, NotesService_ExportNotes_FullMethodName, in, opts)
}
