// ABOUTME: Recognizers for the list response shapes the API is known to return
// ABOUTME: Tried in a fixed order; the first match wins

package repository

import "github.com/tidwall/gjson"

// ShapeMatcher locates the product array inside a list response.
type ShapeMatcher struct {
	Name  string
	Match func(body gjson.Result) (gjson.Result, bool)
}

// ListShapes in priority order.
var ListShapes = []ShapeMatcher{
	{Name: "NestedData", Match: arrayAt("data.products")},
	{Name: "FlatProducts", Match: arrayAt("products")},
	{Name: "DataArray", Match: arrayAt("data")},
	{Name: "RawArray", Match: func(body gjson.Result) (gjson.Result, bool) {
		return body, body.IsArray()
	}},
}

func arrayAt(path string) func(gjson.Result) (gjson.Result, bool) {
	return func(body gjson.Result) (gjson.Result, bool) {
		if !body.IsObject() {
			return gjson.Result{}, false
		}
		v := body.Get(path)
		return v, v.IsArray()
	}
}

// matchShape returns the product array and the name of the shape that found it.
func matchShape(body gjson.Result) (gjson.Result, string, bool) {
	for _, shape := range ListShapes {
		if items, ok := shape.Match(body); ok {
			return items, shape.Name, true
		}
	}
	return gjson.Result{}, "", false
}

// ShapePolicy decides what List does when no shape matches.
type ShapePolicy int

const (
	// ShapePolicyEmpty treats an unrecognized body as an empty list.
	ShapePolicyEmpty ShapePolicy = iota
	// ShapePolicyStrict reports an unrecognized body as a failure.
	ShapePolicyStrict
)

func (p ShapePolicy) String() string {
	if p == ShapePolicyStrict {
		return "strict"
	}
	return "empty"
}
