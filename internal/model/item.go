// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Item is an entry in the item collection.
//
// The ID is assigned by the store when the item is created. The `json:"..."`
// tags control how the struct is serialised in HTTP responses:
//
//	item := Item{ID: 1, Name: "pen"}
//	json.Marshal(item) → {"id":1,"name":"pen","description":""}
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewItem is the validated body of a create request.
type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemPatch is a partial update. A nil field means "leave unchanged", which
// is why the fields are pointers: "" is a legitimate new value.
type ItemPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply shallow-merges the patch over it and returns the result.
func (p ItemPatch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	return it
}
