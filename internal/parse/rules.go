package parse

import (
	"fmt"
	"strings"
)

// ContainerRule locates the list of conversation entries in a document.
type ContainerRule struct {
	Name    string
	Applies func(doc any) bool
	Extract func(doc any) []any
}

// TurnRule locates and renders the message turns of one entry. Extract
// returns the formatted turns; an error marks the entry as malformed.
type TurnRule struct {
	Name    string
	Applies func(entry *Object) bool
	Extract func(entry *Object) ([]string, error)
}

var (
	roleKeys        = []string{"role", "author.role", "sender"}
	turnContentKeys = []string{"content", "message", "text"}
)

const unknownRole = "unknown"

// FieldContainer matches a document whose top-level field holds an array.
func FieldContainer(field string) ContainerRule {
	return ContainerRule{
		Name: "field:" + field,
		Applies: func(doc any) bool {
			_, ok := arrayField(doc, field)
			return ok
		},
		Extract: func(doc any) []any {
			arr, _ := arrayField(doc, field)
			return arr
		},
	}
}

// ArrayContainer matches a document that is itself the entry array.
func ArrayContainer() ContainerRule {
	return ContainerRule{
		Name: "array",
		Applies: func(doc any) bool {
			_, ok := doc.([]any)
			return ok
		},
		Extract: func(doc any) []any {
			arr, _ := doc.([]any)
			return arr
		},
	}
}

// NestedContainer matches data.<field> holding an array.
func NestedContainer(field string) ContainerRule {
	return ContainerRule{
		Name: "data." + field,
		Applies: func(doc any) bool {
			_, ok := nestedArrayField(doc, field)
			return ok
		},
		Extract: func(doc any) []any {
			arr, _ := nestedArrayField(doc, field)
			return arr
		},
	}
}

func arrayField(doc any, field string) ([]any, bool) {
	obj, ok := doc.(*Object)
	if !ok {
		return nil, false
	}
	v, _ := obj.Get(field)
	arr, ok := v.([]any)
	return arr, ok
}

func nestedArrayField(doc any, field string) ([]any, bool) {
	obj, ok := doc.(*Object)
	if !ok {
		return nil, false
	}
	data, _ := obj.Get("data")
	return arrayField(data, field)
}

// MappingTurns reads a node mapping (id -> {message: {author, content}}).
// Nodes without resolvable content are skipped; node order is document order.
func MappingTurns(field string) TurnRule {
	return TurnRule{
		Name: "mapping:" + field,
		Applies: func(entry *Object) bool {
			v, _ := entry.Get(field)
			_, ok := v.(*Object)
			return ok
		},
		Extract: func(entry *Object) ([]string, error) {
			v, _ := entry.Get(field)
			mapping := v.(*Object)

			var turns []string
			for _, node := range mapping.Values() {
				n, ok := node.(*Object)
				if !ok {
					continue
				}
				mv, _ := n.Get("message")
				msg, ok := mv.(*Object)
				if !ok {
					continue
				}
				cv, _ := msg.Get("content")
				text, ok := coerceText(cv)
				if !ok || strings.TrimSpace(text) == "" {
					continue
				}
				turns = append(turns, formatTurn(roleOf(msg), text))
			}
			return turns, nil
		},
	}
}

// ArrayTurns reads a flat array of turn objects stored under the first of
// fields that holds an array.
func ArrayTurns(fields ...string) TurnRule {
	find := func(entry *Object) ([]any, bool) {
		for _, f := range fields {
			v, _ := entry.Get(f)
			if arr, ok := v.([]any); ok {
				return arr, true
			}
		}
		return nil, false
	}
	return TurnRule{
		Name: "array:" + strings.Join(fields, "|"),
		Applies: func(entry *Object) bool {
			_, ok := find(entry)
			return ok
		},
		Extract: func(entry *Object) ([]string, error) {
			arr, _ := find(entry)
			var turns []string
			for i, t := range arr {
				turn, ok := t.(*Object)
				if !ok {
					return nil, fmt.Errorf("turn %d is not an object", i)
				}
				text, ok := turnText(turn)
				if !ok {
					continue
				}
				turns = append(turns, formatTurn(roleOf(turn), text))
			}
			return turns, nil
		},
	}
}

// BlobTurn treats a single nested conversation value as one turn. A blob
// without a role is kept verbatim since it carries its own speaker labels.
func BlobTurn(field string) TurnRule {
	return TurnRule{
		Name: "blob:" + field,
		Applies: func(entry *Object) bool {
			v, ok := entry.Get(field)
			return ok && v != nil
		},
		Extract: func(entry *Object) ([]string, error) {
			v, _ := entry.Get(field)
			text, ok := coerceText(v)
			if !ok {
				return nil, fmt.Errorf("%s is not readable text", field)
			}
			if strings.TrimSpace(text) == "" {
				return nil, nil
			}
			if obj, isObj := v.(*Object); isObj {
				if _, hasRole := firstPresent(obj, roleKeys); hasRole {
					return []string{formatTurn(roleOf(obj), text)}, nil
				}
			}
			return []string{text}, nil
		},
	}
}

// turnText returns the first content alias that resolves to non-blank text.
func turnText(turn *Object) (string, bool) {
	for _, k := range turnContentKeys {
		v, ok := turn.Get(k)
		if !ok || v == nil {
			continue
		}
		if s, ok := coerceText(v); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func roleOf(o *Object) string {
	v, ok := firstPresent(o, roleKeys)
	if !ok {
		return unknownRole
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknownRole
	}
	return s
}

func formatTurn(role, text string) string {
	return role + ": " + strings.TrimSpace(text)
}
