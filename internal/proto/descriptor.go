package proto

import (
	protov2 "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// File_notes_proto describes api/notes.proto. It is built at init and
// registered in protoregistry.GlobalFiles.
var File_notes_proto protoreflect.FileDescriptor

const (
	timestampType = ".google.protobuf.Timestamp"
	emptyType     = ".google.protobuf.Empty"
)

func scalar(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     protov2.String(name),
		Number:   protov2.Int32(num),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
		JsonName: protov2.String(jsonName(name)),
	}
}

func str(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return scalar(name, num, descriptorpb.FieldDescriptorProto_TYPE_STRING)
}

func int64f(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return scalar(name, num, descriptorpb.FieldDescriptorProto_TYPE_INT64)
}

func msg(name string, num int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, num, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = protov2.String(typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: protov2.String(name), Field: fields}
}

func method(name, in, out string) *descriptorpb.MethodDescriptorProto {
	local := func(t string) string {
		if t[0] == '.' {
			return t
		}
		return "." + packageName + "." + t
	}
	return &descriptorpb.MethodDescriptorProto{
		Name:       protov2.String(name),
		InputType:  protov2.String(local(in)),
		OutputType: protov2.String(local(out)),
	}
}

// jsonName mirrors protoc's lowerCamelCase json_name.
func jsonName(name string) string {
	out := make([]byte, 0, len(name))
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

const packageName = "gophnotes"

func notesFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    protov2.String("gophnotes/notes.proto"),
		Package: protov2.String(packageName),
		Syntax:  protov2.String("proto3"),
		Dependency: []string{
			emptypb.File_google_protobuf_empty_proto.Path(),
			timestamppb.File_google_protobuf_timestamp_proto.Path(),
		},
		Options: &descriptorpb.FileOptions{
			GoPackage: protov2.String("github.com/dmitrijs2005/gophnotes/internal/proto;proto"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("User",
				str("username", 1), str("email", 2), str("first_name", 3), str("last_name", 4),
				msg("created_at", 5, timestampType)),
			message("Note",
				int64f("id", 1), str("title", 2), str("content", 3), str("owner_username", 4),
				msg("created_at", 5, timestampType), msg("updated_at", 6, timestampType)),
			message("RegisterRequest",
				str("username", 1), str("password", 2), str("email", 3), str("first_name", 4), str("last_name", 5)),
			message("LoginRequest", str("username", 1), str("password", 2)),
			message("SessionResponse", str("username", 1), str("access_token", 2), str("csrf_token", 3)),
			message("LogoutRequest", str("csrf_token", 1)),
			message("ViewUserRequest", str("username", 1)),
			message("ProfileResponse",
				msg("user", 1, ".gophnotes.User"), repeated(msg("notes", 2, ".gophnotes.Note")), str("csrf_token", 3)),
			message("DeleteUserRequest", str("username", 1), str("csrf_token", 2)),
			message("AddNoteRequest", str("username", 1), str("title", 2), str("content", 3), str("csrf_token", 4)),
			message("EditNoteRequest", int64f("id", 1), str("title", 2), str("content", 3), str("csrf_token", 4)),
			message("DeleteNoteRequest", int64f("id", 1), str("csrf_token", 2)),
			message("NoteResponse", msg("note", 1, ".gophnotes.Note")),
			message("ExportNotesRequest", str("username", 1), str("csrf_token", 2)),
			message("ExportNotesResponse", str("url", 1)),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: protov2.String("NotesService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Register", "RegisterRequest", "SessionResponse"),
				method("Login", "LoginRequest", "SessionResponse"),
				method("Logout", "LogoutRequest", emptyType),
				method("ViewUser", "ViewUserRequest", "ProfileResponse"),
				method("DeleteUser", "DeleteUserRequest", emptyType),
				method("AddNote", "AddNoteRequest", "NoteResponse"),
				method("EditNote", "EditNoteRequest", "NoteResponse"),
				method("DeleteNote", "DeleteNoteRequest", emptyType),
				method("ExportNotes", "ExportNotesRequest", "ExportNotesResponse"),
			},
		}},
	}
}

func init() {
	fd, err := protodesc.NewFile(notesFile(), protoregistry.GlobalFiles)
	if err != nil {
		panic("gophnotes: invalid notes.proto descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("gophnotes: " + err.Error())
	}
	File_notes_proto = fd
}
