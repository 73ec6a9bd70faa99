/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import "slices"

// Custom attribute instance: attribute class name and property values.
//
// Values may hold scalars, []any and map[string]any as decoded from YAML or JSON.
type CustomAttribute struct {
	class  QName
	values map[string]any
}

func NewCustomAttribute(class QName, values map[string]any) *CustomAttribute {
	if values == nil {
		values = make(map[string]any)
	}
	return &CustomAttribute{class: class, values: values}
}

// Custom attribute class name
func (ca *CustomAttribute) Class() QName { return ca.class }

// All property values
func (ca *CustomAttribute) Values() map[string]any { return ca.values }

// Returns value of property
func (ca *CustomAttribute) Value(name string) (any, bool) {
	v, ok := ca.values[name]
	return v, ok
}

// Returns string value of property or empty string
func (ca *CustomAttribute) String(name string) string {
	if s, ok := ca.values[name].(string); ok {
		return s
	}
	return ""
}

// Returns bool value of property or false
func (ca *CustomAttribute) Bool(name string) bool {
	if b, ok := ca.values[name].(bool); ok {
		return b
	}
	return false
}

// Returns int value of property
func (ca *CustomAttribute) Int(name string) (int, bool) {
	v, ok := ca.values[name]
	if !ok {
		return 0, false
	}
	return anyToInt(v)
}

// Returns list value of property
func (ca *CustomAttribute) List(name string) []any {
	if l, ok := ca.values[name].([]any); ok {
		return l
	}
	return nil
}

// Returns list of strings value of property
func (ca *CustomAttribute) Strings(name string) []string {
	switch l := ca.values[name].(type) {
	case []string:
		return l
	case []any:
		res := make([]string, 0, len(l))
		for _, v := range l {
			if s, ok := v.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}
	return nil
}

// Items, that can hold custom attributes: schemas, classes and properties
type IWithCustomAttributes interface {
	CustomAttributes() []*CustomAttribute
	CustomAttribute(QName) *CustomAttribute
	HasCustomAttribute(QName) bool
}

// # Implements:
//   - IWithCustomAttributes
type withCustomAttributes struct {
	attrs []*CustomAttribute
}

func (w *withCustomAttributes) CustomAttributes() []*CustomAttribute { return w.attrs }

func (w *withCustomAttributes) CustomAttribute(class QName) *CustomAttribute {
	if i := slices.IndexFunc(w.attrs, func(ca *CustomAttribute) bool { return ca.class == class }); i >= 0 {
		return w.attrs[i]
	}
	return nil
}

func (w *withCustomAttributes) HasCustomAttribute(class QName) bool {
	return w.CustomAttribute(class) != nil
}

// Adds or replaces custom attribute
func (w *withCustomAttributes) setCustomAttribute(ca *CustomAttribute) {
	if i := slices.IndexFunc(w.attrs, func(a *CustomAttribute) bool { return a.class == ca.class }); i >= 0 {
		w.attrs[i] = ca
		return
	}
	w.attrs = append(w.attrs, ca)
}

func (w *withCustomAttributes) removeCustomAttribute(class QName) {
	w.attrs = slices.DeleteFunc(w.attrs, func(a *CustomAttribute) bool { return a.class == class })
}
