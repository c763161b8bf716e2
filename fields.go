package wiring

import (
	"reflect"
	"slices"
	"sync"
)

// FieldID identifies a field by its declaring struct type and name. Two fields
// with the same name declared by different structs in one embedding chain have
// different identities.
type FieldID struct {
	Owner reflect.Type
	Name  string
}

// Field returns the FieldID of the field called name declared directly by the
// struct type owner. A pointer owner is dereferenced.
func Field(owner reflect.Type, name string) FieldID {
	for owner != nil && owner.Kind() == reflect.Ptr {
		owner = owner.Elem()
	}
	return FieldID{Owner: owner, Name: name}
}

// FieldDescriptor describes one declared field found by FieldsOf.
type FieldDescriptor struct {
	// Owner is the struct type that declares the field.
	Owner reflect.Type
	Name  string
	Type  reflect.Type
	Tag   reflect.StructTag
	// Index is the path from the inspected struct to this field, suitable for
	// reflect.Value.FieldByIndex.
	Index     []int
	Exported  bool
	Anonymous bool
}

// ID returns the identity of the field.
func (f FieldDescriptor) ID() FieldID {
	return FieldID{Owner: f.Owner, Name: f.Name}
}

var fieldCache sync.Map // reflect.Type -> []FieldDescriptor

// FieldsOf lists every declared field of t followed by the declared fields of
// each struct t embeds by value, nearest first. Embedded structs at the same
// depth are visited in declaration order, whichever package declares them.
//
// Shadowed fields are not removed: a name declared both by t and by an
// embedded struct is reported once for each declaring type.
//
// A pointer type is dereferenced; any other non-struct type yields nil.
func FieldsOf(t reflect.Type) []FieldDescriptor {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	if cached, ok := fieldCache.Load(t); ok {
		return cloneFields(cached.([]FieldDescriptor))
	}
	actual, _ := fieldCache.LoadOrStore(t, collectFields(t))
	return cloneFields(actual.([]FieldDescriptor))
}

// cloneFields copies fields and their index paths, leaving the cache intact
// whatever the caller does with the result.
func cloneFields(fields []FieldDescriptor) []FieldDescriptor {
	out := slices.Clone(fields)
	for i := range out {
		out[i].Index = slices.Clone(out[i].Index)
	}
	return out
}

func collectFields(root reflect.Type) []FieldDescriptor {
	type ancestor struct {
		typ   reflect.Type
		index []int
	}

	fields := make([]FieldDescriptor, 0, root.NumField())
	queue := []ancestor{{typ: root}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := 0; i < current.typ.NumField(); i++ {
			sf := current.typ.Field(i)
			index := append(slices.Clone(current.index), i)
			fields = append(fields, FieldDescriptor{
				Owner:     current.typ,
				Name:      sf.Name,
				Type:      sf.Type,
				Tag:       sf.Tag,
				Index:     index,
				Exported:  sf.IsExported(),
				Anonymous: sf.Anonymous,
			})

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				queue = append(queue, ancestor{typ: sf.Type, index: index})
			}
		}
	}
	return fields
}
