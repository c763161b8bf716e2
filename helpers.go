package wiring

import (
	"fmt"
	"reflect"
	"unsafe"
)

// createInstance is the implicit zero-value constructor. Only pointer-to-struct
// types have one.
func createInstance(t reflect.Type) (any, bool) {
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct {
		return reflect.New(t.Elem()).Interface(), true
	}
	return nil, false
}

// structTarget returns the struct value behind obj, which must be a non-nil
// pointer to struct so that its fields are addressable.
func structTarget(obj any) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: got %T", ErrNilTarget, obj)
	}
	return rv.Elem(), nil
}

// setField assigns value to the field described by fd, including unexported
// fields.
func setField(target reflect.Value, fd FieldDescriptor, value any) error {
	fv := target.FieldByIndex(fd.Index)
	if !fv.CanSet() {
		if !fv.CanAddr() {
			return fmt.Errorf("field %s.%s is not addressable", fd.Owner, fd.Name)
		}
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}

	if value == nil {
		if !isNillable(fv.Kind()) {
			return fmt.Errorf("cannot assign nil to field %s.%s of type %s", fd.Owner, fd.Name, fv.Type())
		}
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(fv.Type()) {
		return fmt.Errorf("cannot assign %s to field %s.%s of type %s", v.Type(), fd.Owner, fd.Name, fv.Type())
	}
	fv.Set(v)
	return nil
}

func isScalar(k reflect.Kind) bool {
	return k == reflect.String || isPrimitive(k)
}

// convertLiteral adapts a value returned by a LiteralProvider to the field
// type. Numeric values convert between numeric kinds; strings only match
// string kinds.
func convertLiteral(value any, target reflect.Type) (any, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return nil, fmt.Errorf("literal for %s is nil", target)
	}
	if v.Type().AssignableTo(target) {
		return value, nil
	}
	if (v.Kind() == reflect.String) != (target.Kind() == reflect.String) {
		return nil, fmt.Errorf("literal of type %s cannot be used as %s", v.Type(), target)
	}
	if !v.Type().ConvertibleTo(target) {
		return nil, fmt.Errorf("literal of type %s cannot be used as %s", v.Type(), target)
	}
	return v.Convert(target).Interface(), nil
}
