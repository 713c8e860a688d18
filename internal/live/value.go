package live

import (
	"math"
)

type ValueKind uint8

const (
	ValNone ValueKind = iota
	ValBool
	ValInt
	ValFloat
	ValColor
	ValVec2
	ValVec3
	ValString
	ValId
	ValClass
	ValObject
	ValArray
	ValCall
	ValFn
	ValUse
)

var valueKindNames = [...]string{
	ValNone:   "none",
	ValBool:   "bool",
	ValInt:    "int",
	ValFloat:  "float",
	ValColor:  "color",
	ValVec2:   "vec2",
	ValVec3:   "vec3",
	ValString: "string",
	ValId:     "id",
	ValClass:  "class",
	ValObject: "object",
	ValArray:  "array",
	ValCall:   "call",
	ValFn:     "fn",
	ValUse:    "use",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "invalid"
}

// Value is the payload of a node. Which fields are meaningful depends on Kind:
//
//	Bool, Int, Color       Int (bool as 0/1, color as 0xRRGGBBAA)
//	Float, Vec2, Vec3      Vec
//	String                 Start, Count into Document.Strings
//	Id                     Ref
//	Class                  Ref (base), Start, Count (children at level+1)
//	Object, Array          Start, Count (children at level+1)
//	Call                   Ref (target), Start, Count (args at level+1)
//	Fn                     Start, Count into Document.Tokens; ScopeStart, ScopeCount into Document.Scopes
//	Use                    Module
type Value struct {
	Kind       ValueKind
	Int        int64
	Vec        [3]float64
	Ref        Id
	Start      uint32
	Count      uint32
	ScopeStart uint32
	ScopeCount uint32
	Module     CrateModule
}

func BoolValue(b bool) Value {
	v := Value{Kind: ValBool}
	if b {
		v.Int = 1
	}
	return v
}

func IntValue(i int64) Value       { return Value{Kind: ValInt, Int: i} }
func FloatValue(f float64) Value   { return Value{Kind: ValFloat, Vec: [3]float64{f}} }
func ColorValue(rgba uint32) Value { return Value{Kind: ValColor, Int: int64(rgba)} }
func Vec2Value(x, y float64) Value { return Value{Kind: ValVec2, Vec: [3]float64{x, y}} }
func Vec3Value(x, y, z float64) Value {
	return Value{Kind: ValVec3, Vec: [3]float64{x, y, z}}
}

func StringValue(start, count uint32) Value { return Value{Kind: ValString, Start: start, Count: count} }
func IdValue(id Id) Value                   { return Value{Kind: ValId, Ref: id} }

func ClassValue(base Id, start, count uint32) Value {
	return Value{Kind: ValClass, Ref: base, Start: start, Count: count}
}

func ObjectValue(start, count uint32) Value { return Value{Kind: ValObject, Start: start, Count: count} }
func ArrayValue(start, count uint32) Value  { return Value{Kind: ValArray, Start: start, Count: count} }

func CallValue(target Id, start, count uint32) Value {
	return Value{Kind: ValCall, Ref: target, Start: start, Count: count}
}

func FnValue(tokStart, tokCount, scopeStart, scopeCount uint32) Value {
	return Value{Kind: ValFn, Start: tokStart, Count: tokCount, ScopeStart: scopeStart, ScopeCount: scopeCount}
}

func UseValue(cm CrateModule) Value { return Value{Kind: ValUse, Module: cm} }

func (v Value) Bool() bool       { return v.Int != 0 }
func (v Value) Float() float64   { return v.Vec[0] }
func (v Value) Color() uint32     { return uint32(v.Int) } // #nosec G115 -- stored from uint32
func (v Value) Vec2() [2]float64 { return [2]float64{v.Vec[0], v.Vec[1]} }

// IsScalar reports whether the value is copied verbatim.
func (v Value) IsScalar() bool {
	switch v.Kind {
	case ValBool, ValInt, ValFloat, ValColor, ValVec2, ValVec3:
		return true
	}
	return false
}

// HasChildren reports whether Start/Count address nodes of the next level.
func (v Value) HasChildren() bool {
	switch v.Kind {
	case ValClass, ValObject, ValArray, ValCall:
		return true
	}
	return false
}

// Equal compares values treating NaN floats as equal to themselves.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	for i := range v.Vec {
		if v.Vec[i] != o.Vec[i] && !(math.IsNaN(v.Vec[i]) && math.IsNaN(o.Vec[i])) {
			return false
		}
	}
	v.Vec, o.Vec = [3]float64{}, [3]float64{}
	return v == o
}

// Node is one entry of a document level.
type Node struct {
	Token TokenID
	ID    Id
	Value Value
}
