package catalog

import (
	"fmt"

	"github.com/modelmesh/recordset-go/recordset"
)

// Descriptor implements recordset.Model for the catalog record types.
// Descriptors form a descent line through their parent, mirroring model
// inheritance in the host model layer.
type Descriptor struct {
	name   string
	parent *Descriptor
	fields []recordset.Field
	byName map[string]recordset.Field
}

// NewDescriptor creates a model descriptor. The fields extend the parent's
// declared fields, in declaration order.
func NewDescriptor(name string, parent *Descriptor, fields ...recordset.Field) *Descriptor {
	d := &Descriptor{
		name:   name,
		parent: parent,
		byName: make(map[string]recordset.Field),
	}

	if parent != nil {
		d.fields = append(d.fields, parent.fields...)
	}
	d.fields = append(d.fields, fields...)

	for _, field := range d.fields {
		d.byName[field.Name()] = field
	}

	return d
}

// Name returns the display name of the model.
func (d *Descriptor) Name() string {
	return d.name
}

// FieldNames returns the declared field names in declaration order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, len(d.fields))
	for i, field := range d.fields {
		names[i] = field.Name()
	}

	return names
}

// Field returns the metadata for the named field.
func (d *Descriptor) Field(name string) (recordset.Field, error) {
	field, declared := d.byName[name]
	if !declared {
		return nil, fmt.Errorf("model %s has no field named %q", d.name, name)
	}

	return field, nil
}

// DescendsFrom reports whether this descriptor is the other model or sits
// below it on a descent line.
func (d *Descriptor) DescendsFrom(other recordset.Model) bool {
	for current := d; current != nil; current = current.parent {
		if recordset.Model(current) == other {
			return true
		}
	}

	return false
}
