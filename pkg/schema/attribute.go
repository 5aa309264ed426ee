package schema

import "strings"

// Type is the data type of an attribute (RFC 7643 section 2.3).
type Type string

const (
	TypeString    Type = "string"
	TypeBoolean   Type = "boolean"
	TypeDecimal   Type = "decimal"
	TypeInteger   Type = "integer"
	TypeDateTime  Type = "dateTime"
	TypeReference Type = "reference"
	TypeComplex   Type = "complex"
	TypeBinary    Type = "binary"
)

// Mutability of an attribute.
type Mutability string

const (
	MutabilityReadOnly  Mutability = "readOnly"
	MutabilityReadWrite Mutability = "readWrite"
	MutabilityImmutable Mutability = "immutable"
	MutabilityWriteOnly Mutability = "writeOnly"
)

// Returned controls when an attribute appears in responses.
type Returned string

const (
	ReturnedAlways  Returned = "always"
	ReturnedNever   Returned = "never"
	ReturnedDefault Returned = "default"
	ReturnedRequest Returned = "request"
)

// Uniqueness of an attribute's value.
type Uniqueness string

const (
	UniquenessNone   Uniqueness = "none"
	UniquenessServer Uniqueness = "server"
	UniquenessGlobal Uniqueness = "global"
)

// Attribute is one attribute definition within a schema. Zero values for
// Mutability, Returned and Uniqueness mean readWrite, default and none.
type Attribute struct {
	Name            string
	Type            Type
	Description     string
	MultiValued     bool
	Required        bool
	CaseExact       bool
	Mutability      Mutability
	Returned        Returned
	Uniqueness      Uniqueness
	CanonicalValues []string
	ReferenceTypes  []string
	SubAttributes   []*Attribute
}

// EffectiveMutability resolves the zero value to readWrite.
func (a *Attribute) EffectiveMutability() Mutability {
	if a.Mutability == "" {
		return MutabilityReadWrite
	}
	return a.Mutability
}

// EffectiveReturned resolves the zero value to default.
func (a *Attribute) EffectiveReturned() Returned {
	if a.Returned == "" {
		return ReturnedDefault
	}
	return a.Returned
}

// SubAttribute finds a sub-attribute by name, case-insensitively.
func (a *Attribute) SubAttribute(name string) *Attribute {
	for _, sub := range a.SubAttributes {
		if strings.EqualFold(sub.Name, name) {
			return sub
		}
	}
	return nil
}

// IsCanonical reports whether value is allowed by the canonicalValues list.
// An empty list allows everything.
func (a *Attribute) IsCanonical(value string) bool {
	if len(a.CanonicalValues) == 0 {
		return true
	}
	for _, c := range a.CanonicalValues {
		if strings.EqualFold(c, value) {
			return true
		}
	}
	return false
}
