// Package pbxproj reads and writes Xcode project files. The object graph
// keeps key order and the inline comments Xcode emits, so an unmodified
// project written back is canonical Xcode output.
package pbxproj

import "sort"

type Value interface {
	isValue()
}

// String is a scalar. Text holds the raw token without surrounding quotes
// and with escape sequences preserved.
type String struct {
	Text    string
	Comment string
	Quoted  bool
}

func (String) isValue() {}

// Str builds a scalar, quoting it when Xcode would.
func Str(text string) String {
	return String{Text: text, Quoted: needsQuote(text)}
}

// Ref builds an object reference annotated with a comment.
func Ref(id string, comment string) String {
	return String{Text: id, Comment: comment, Quoted: needsQuote(id)}
}

type Array struct {
	Items []Value
}

func (*Array) isValue() {}

func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

// Strings returns the scalar items.
func (a *Array) Strings() []string {
	out := []string{}
	for _, item := range a.Items {
		if s, ok := item.(String); ok {
			out = append(out, s.Text)
		}
	}
	return out
}

func (a *Array) Contains(text string) bool {
	for _, item := range a.Items {
		if s, ok := item.(String); ok && s.Text == text {
			return true
		}
	}
	return false
}

func (a *Array) Append(v Value) {
	a.Items = append(a.Items, v)
}

// RemoveFunc drops every item for which fn returns true and reports how
// many were removed.
func (a *Array) RemoveFunc(fn func(Value) bool) int {
	kept := a.Items[:0]
	removed := 0
	for _, item := range a.Items {
		if fn(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	a.Items = kept
	return removed
}

// Dict is an ordered dictionary.
type Dict struct {
	keys        []string
	values      map[string]Value
	keyComments map[string]string
}

func (*Dict) isValue() {}

func NewDict() *Dict {
	return &Dict{values: map[string]Value{}, keyComments: map[string]string{}}
}

func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d *Dict) Len() int {
	return len(d.keys)
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Scalar returns the text of a scalar entry.
func (d *Dict) Scalar(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	if !ok {
		return "", false
	}
	return s.Text, true
}

func (d *Dict) Child(key string) (*Dict, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	child, ok := v.(*Dict)
	return child, ok
}

func (d *Dict) List(key string) (*Array, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.(*Array)
	return arr, ok
}

// Set stores v under key, appending the key when it is new.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

func (d *Dict) SetString(key string, text string) {
	d.Set(key, Str(text))
}

func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	delete(d.keyComments, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

func (d *Dict) KeyComment(key string) string {
	return d.keyComments[key]
}

func (d *Dict) SetKeyComment(key string, comment string) {
	if comment == "" {
		delete(d.keyComments, key)
		return
	}
	d.keyComments[key] = comment
}

func (d *Dict) sortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}
