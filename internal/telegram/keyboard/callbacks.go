package keyboard

import (
	"strconv"
	"strings"
)

// Fixed callback payloads. Product and line item buttons carry the raw remote id.
const (
	CallbackCart = "cart"
	CallbackMenu = "menu"
	CallbackPay  = "pay"
)

// Quantities offered on the product screen
var Quantities = []int{1, 5, 10}

// ParseQuantity parses a positive quantity payload
func ParseQuantity(data string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(data))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
