package cart

import (
	"encoding/json"
	"fmt"
)

// StorageReadError reports stored cart data that could not be decoded. The
// store recovers from it by starting over with an empty cart.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("cart %s: unreadable stored data: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// Encode serialises c as a JSON array of lines.
func Encode(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return json.Marshal(c)
}

// Decode parses data written by Encode. Empty input is an empty cart. Data
// that breaks a cart invariant is rejected as a whole.
func Decode(key string, data []byte) (Cart, error) {
	if len(data) == 0 {
		return Cart{}, nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, &StorageReadError{Key: key, Err: err}
	}

	seen := make(map[Key]bool, len(c))
	for i, l := range c {
		switch {
		case l.Item.ID == "":
			return Cart{}, &StorageReadError{Key: key, Err: fmt.Errorf("line %d has no item id", i)}
		case l.Quantity < 1:
			return Cart{}, &StorageReadError{Key: key, Err: fmt.Errorf("line %d has quantity %d", i, l.Quantity)}
		case l.Price < 0:
			return Cart{}, &StorageReadError{Key: key, Err: fmt.Errorf("line %d has negative price", i)}
		case seen[l.Key()]:
			return Cart{}, &StorageReadError{Key: key, Err: fmt.Errorf("duplicate line %s", l.Key())}
		}
		seen[l.Key()] = true
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}
