package packbuf

import (
	"encoding/binary"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Write writes the struct pointed to by data
func Write(w io.Writer, data interface{}) error {
	return writeStruct(w, data)
}

func writeStruct(w io.Writer, value interface{}) error {
	v := reflect.ValueOf(value).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			return errors.Wrapf(ErrUnsupported, "unexported field %T.%s", value, v.Type().Field(i).Name)
		}
		switch field.Kind() {
		case reflect.Slice:
			if err := writeSlice(w, field); err != nil {
				return err
			}
			continue
		case reflect.Struct:
			if err := writeStruct(w, field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}
		if err := writeValue(w, field); err != nil {
			return errors.Wrapf(err, "%T.%s", value, v.Type().Field(i).Name)
		}
	}
	return nil
}

func writeSlice(w io.Writer, field reflect.Value) error {
	sliceLen := field.Len()
	if sliceLen > maxSliceLen {
		return errors.Wrapf(ErrSliceTooLarge, "%d", sliceLen)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(sliceLen)); err != nil {
		return err
	}
	switch sliceType := field.Type().Elem(); sliceType.Kind() {
	case reflect.Uint8:
		if _, err := w.Write(field.Bytes()); err != nil {
			return err
		}
	case reflect.Uint16:
		for i := 0; i < sliceLen; i++ {
			if err := binary.Write(w, binary.LittleEndian, uint16(field.Index(i).Uint())); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < sliceLen; i++ {
			if err := writeStruct(w, field.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
	case reflect.Ptr:
		if sliceType.Elem().Kind() != reflect.Struct {
			return errors.Wrap(ErrUnsupported, "[]*Type where Type is not a struct")
		}
		for i := 0; i < sliceLen; i++ {
			if err := writeStruct(w, field.Index(i).Interface()); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrUnsupported, "write slice of %s", sliceType.Kind())
	}
	return nil
}

func writeValue(w io.Writer, field reflect.Value) error {
	var data interface{}
	switch field.Kind() {
	case reflect.Bool:
		var b uint8
		if field.Bool() {
			b = 1
		}
		data = b
	case reflect.Uint8:
		data = uint8(field.Uint())
	case reflect.Uint16:
		data = uint16(field.Uint())
	case reflect.Uint32:
		data = uint32(field.Uint())
	case reflect.Uint64:
		data = field.Uint()
	case reflect.Int16:
		data = int16(field.Int())
	case reflect.Int32:
		data = int32(field.Int())
	case reflect.Int, reflect.Int64:
		// "int" can be 32-bit or 64-bit, so always send 64-bit
		data = field.Int()
	case reflect.Float32:
		data = float32(field.Float())
	case reflect.Float64:
		data = field.Float()
	case reflect.String:
		s := field.String()
		if len(s) > maxStringSize {
			return errors.Wrapf(ErrStringTooLarge, "%d bytes", len(s))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
			return err
		}
		_, err := io.WriteString(w, s)
		return err
	default:
		return errors.Wrapf(ErrUnsupported, "write %s", field.Kind())
	}
	return binary.Write(w, binary.LittleEndian, data)
}
