package proto

import (
	"fmt"
	"reflect"

	protov2 "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Contract structs name their proto fields with a `pb` tag and are carried
// on the wire as dynamicpb messages of the same name, so the default proto
// codec applies. Values that already are proto messages pass through.

var messageType = reflect.TypeOf((*protov2.Message)(nil)).Elem()

func descriptorOf(t reflect.Type) (protoreflect.MessageDescriptor, error) {
	md := File_notes_proto.Messages().ByName(protoreflect.Name(t.Name()))
	if md == nil {
		return nil, fmt.Errorf("no message %s.%s", packageName, t.Name())
	}
	return md, nil
}

// newWire returns an empty wire message able to receive v.
func newWire(v any) (protov2.Message, error) {
	if m, ok := v.(protov2.Message); ok {
		return m, nil
	}
	md, err := descriptorOf(reflect.TypeOf(v).Elem())
	if err != nil {
		return nil, err
	}
	return dynamicpb.NewMessage(md), nil
}

// toWire converts a pointer to a contract struct into its wire message.
func toWire(v any) (protov2.Message, error) {
	if m, ok := v.(protov2.Message); ok {
		return m, nil
	}
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		rv = reflect.New(rv.Type().Elem())
	}
	m, err := newWire(rv.Interface())
	if err != nil {
		return nil, err
	}
	if err := encodeStruct(m.ProtoReflect(), rv.Elem()); err != nil {
		return nil, err
	}
	return m, nil
}

// fromWire copies a received wire message into the contract struct v.
func fromWire(m protov2.Message, v any) error {
	if _, ok := v.(protov2.Message); ok {
		return nil
	}
	return decodeStruct(m.ProtoReflect(), reflect.ValueOf(v).Elem())
}

func fieldOf(m protoreflect.Message, f reflect.StructField) (protoreflect.FieldDescriptor, error) {
	name := f.Tag.Get("pb")
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, fmt.Errorf("%s has no field %q", m.Descriptor().FullName(), name)
	}
	return fd, nil
}

func encodeStruct(dst protoreflect.Message, src reflect.Value) error {
	t := src.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("pb") == "" {
			continue
		}
		fd, err := fieldOf(dst, t.Field(i))
		if err != nil {
			return err
		}
		fv := src.Field(i)

		switch {
		case fd.IsList():
			list := dst.Mutable(fd).List()
			for j := 0; j < fv.Len(); j++ {
				el := list.NewElement()
				if err := encodeMessage(el.Message(), fv.Index(j)); err != nil {
					return err
				}
				list.Append(el)
			}
		case fd.Kind() == protoreflect.MessageKind:
			if fv.IsNil() {
				continue
			}
			if err := encodeMessage(dst.Mutable(fd).Message(), fv); err != nil {
				return err
			}
		default:
			dst.Set(fd, protoreflect.ValueOf(fv.Interface()))
		}
	}
	return nil
}

// encodeMessage fills dst from a pointer that is either a proto message
// (well-known types) or a contract struct.
func encodeMessage(dst protoreflect.Message, src reflect.Value) error {
	if src.IsNil() {
		return nil
	}
	if src.Type().Implements(messageType) {
		data, err := protov2.Marshal(src.Interface().(protov2.Message))
		if err != nil {
			return err
		}
		return protov2.Unmarshal(data, dst.Interface())
	}
	return encodeStruct(dst, src.Elem())
}

func decodeStruct(src protoreflect.Message, dst reflect.Value) error {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("pb") == "" {
			continue
		}
		fd, err := fieldOf(src, t.Field(i))
		if err != nil {
			return err
		}
		fv := dst.Field(i)

		switch {
		case fd.IsList():
			list := src.Get(fd).List()
			items := reflect.MakeSlice(fv.Type(), 0, list.Len())
			for j := 0; j < list.Len(); j++ {
				el, err := decodeMessage(list.Get(j).Message(), fv.Type().Elem())
				if err != nil {
					return err
				}
				items = reflect.Append(items, el)
			}
			fv.Set(items)
		case fd.Kind() == protoreflect.MessageKind:
			if !src.Has(fd) {
				continue
			}
			el, err := decodeMessage(src.Get(fd).Message(), fv.Type())
			if err != nil {
				return err
			}
			fv.Set(el)
		default:
			fv.Set(reflect.ValueOf(src.Get(fd).Interface()).Convert(fv.Type()))
		}
	}
	return nil
}

// decodeMessage builds a new value of pointer type typ from src.
func decodeMessage(src protoreflect.Message, typ reflect.Type) (reflect.Value, error) {
	out := reflect.New(typ.Elem())
	if typ.Implements(messageType) {
		data, err := protov2.Marshal(src.Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		if err := protov2.Unmarshal(data, out.Interface().(protov2.Message)); err != nil {
			return reflect.Value{}, err
		}
		return out, nil
	}
	if err := decodeStruct(src, out.Elem()); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}
