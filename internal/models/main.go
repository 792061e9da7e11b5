// Package models defines the core data structures for users, products and carts.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// User represents a registered shop user as persisted in the users file.
type User struct {
	// Username is the unique login name chosen by the user.
	Username string `json:"username"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// PasswordHash is the bcrypt hash of the user's password.
	// It is stored under the "password" key of the users file.
	PasswordHash string `json:"password"`
}

// Product is a catalog entry. IDs are assigned sequentially starting at 1.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Cart maps a product identifier to the accumulated quantity.
type Cart map[string]int

// ProductRef is a product identifier as supplied by a client.
// It accepts both JSON strings and JSON numbers and keeps the textual form,
// so 7 and "7" address the same cart entry.
type ProductRef string

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProductRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("product id must be a string or a number")
	}
	*p = ProductRef(n.String())
	return nil
}
