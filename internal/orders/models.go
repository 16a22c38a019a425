package orders

import (
	"bytes"
	"encoding/json"
	"errors"
)

// OrderInformation is the record the order service returns for a lookup and
// the details view renders.
type OrderInformation struct {
	OrderID string   `json:"orderId"`
	Image   string   `json:"image"`
	Size    []string `json:"size"`
	Color   []string `json:"color"`
	Value   string   `json:"value"`
	Title   string   `json:"title"`
}

// ErrEmptyBody is returned by DecodeOrderInformation for bodies that carry no
// record: empty, null or false.
var ErrEmptyBody = errors.New("empty order body")

// DecodeOrderInformation parses a response body. A body that is not a JSON
// object is an error; an empty or falsy one is ErrEmptyBody.
func DecodeOrderInformation(b []byte) (*OrderInformation, error) {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "", "null", "false", "0", `""`:
		return nil, ErrEmptyBody
	}
	if b[0] != '{' {
		return nil, errors.New("order body is not an object")
	}
	var o OrderInformation
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
