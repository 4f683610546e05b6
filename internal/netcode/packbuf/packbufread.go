package packbuf

import (
	"encoding/binary"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Read fills the struct pointed to by data
func Read(r io.Reader, data interface{}) error {
	return readStruct(r, data)
}

func readStruct(buf io.Reader, structData interface{}) error {
	v := reflect.ValueOf(structData).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.Slice:
			if err := readSlice(buf, field); err != nil {
				return err
			}
			continue
		case reflect.Struct:
			if err := readStruct(buf, field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}
		if err := readValue(buf, field); err != nil {
			return errors.Wrapf(err, "%T.%s", structData, v.Type().Field(i).Name)
		}
	}
	return nil
}

func readSlice(buf io.Reader, field reflect.Value) error {
	var sliceLenCompact int32
	if err := binary.Read(buf, binary.LittleEndian, &sliceLenCompact); err != nil {
		return err
	}
	sliceLen := int(sliceLenCompact)
	if sliceLen < 0 || sliceLen > maxSliceLen {
		return errors.Wrapf(ErrSliceTooLarge, "%d", sliceLen)
	}
	if sliceLen == 0 {
		// Ignore setting if no data
		// This ensures the data stays as "nil"
		return nil
	}
	t := field.Type()
	switch sliceType := t.Elem(); sliceType.Kind() {
	case reflect.Uint8:
		value := make([]byte, sliceLen)
		if _, err := io.ReadFull(buf, value); err != nil {
			return err
		}
		field.SetBytes(value)
	case reflect.Uint16:
		slice := make([]uint16, sliceLen)
		if err := binary.Read(buf, binary.LittleEndian, slice); err != nil {
			return err
		}
		field.Set(reflect.ValueOf(slice).Convert(t))
	case reflect.Struct:
		field.Set(reflect.MakeSlice(t, sliceLen, sliceLen))
		for i := 0; i < sliceLen; i++ {
			if err := readStruct(buf, field.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
	case reflect.Ptr:
		ptrToType := sliceType.Elem()
		if ptrToType.Kind() != reflect.Struct {
			return errors.Wrap(ErrUnsupported, "[]*Type where Type is not a struct")
		}
		field.Set(reflect.MakeSlice(t, sliceLen, sliceLen))
		for i := 0; i < sliceLen; i++ {
			v := field.Index(i)
			v.Set(reflect.New(ptrToType))
			if err := readStruct(buf, v.Interface()); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrUnsupported, "read slice of %s", sliceType.Kind())
	}
	return nil
}

func readValue(buf io.Reader, field reflect.Value) error {
	switch field.Kind() {
	case reflect.Bool:
		var value byte
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetBool(value != 0)
	case reflect.Uint8:
		var value uint8
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetUint(uint64(value))
	case reflect.Uint16:
		var value uint16
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetUint(uint64(value))
	case reflect.Uint32:
		var value uint32
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetUint(uint64(value))
	case reflect.Uint64:
		var value uint64
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetUint(value)
	case reflect.Int16:
		var value int16
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetInt(int64(value))
	case reflect.Int32:
		var value int32
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetInt(int64(value))
	case reflect.Int, reflect.Int64:
		// "int" can be 32-bit or 64-bit, so always send 64-bit
		var value int64
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetInt(value)
	case reflect.Float32:
		var value float32
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetFloat(float64(value))
	case reflect.Float64:
		var value float64
		if err := binary.Read(buf, binary.LittleEndian, &value); err != nil {
			return err
		}
		field.SetFloat(value)
	case reflect.String:
		var stringSize uint16
		if err := binary.Read(buf, binary.LittleEndian, &stringSize); err != nil {
			return err
		}
		if stringSize == 0 {
			field.SetString("")
			return nil
		}
		stringData := make([]byte, stringSize)
		if _, err := io.ReadFull(buf, stringData); err != nil {
			return err
		}
		field.SetString(string(stringData))
	default:
		return errors.Wrapf(ErrUnsupported, "read %s", field.Kind())
	}
	return nil
}
