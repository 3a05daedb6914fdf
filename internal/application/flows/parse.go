package flows

import (
	"regexp"
	"strconv"
	"strings"
)

// phonePattern matches the literal '-' marker followed by a 10-digit phone
// number anywhere in a line (e.g. "Rahul 50 -9876543210").
var phonePattern = regexp.MustCompile(`-(\d{10})\b`)

// isTerminator reports whether the turn is the flow-ending keyword.
func isTerminator(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), terminator)
}

// parseNameQuantityPrice splits "name... quantity price" where the name may
// span several words. Casing of the name is preserved.
func parseNameQuantityPrice(text string) (name string, quantity int, price float64, ok bool) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return "", 0, 0, false
	}

	qty, err := strconv.ParseFloat(parts[len(parts)-2], 64)
	if err != nil || qty < 0 || qty != float64(int(qty)) {
		return "", 0, 0, false
	}
	price, err = strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || price <= 0 {
		return "", 0, 0, false
	}

	name = strings.Join(parts[:len(parts)-2], " ")
	return name, int(qty), price, true
}

// parseNamePrice splits "name... price".
func parseNamePrice(text string) (name string, price float64, ok bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", 0, false
	}

	price, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || price <= 0 {
		return "", 0, false
	}

	name = strings.Join(parts[:len(parts)-1], " ")
	return name, price, true
}

// parseNameQuantity splits "name... quantity".
func parseNameQuantity(text string) (name string, quantity int, ok bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", 0, false
	}

	qty, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || qty <= 0 || qty != float64(int(qty)) {
		return "", 0, false
	}

	name = strings.Join(parts[:len(parts)-1], " ")
	return name, int(qty), true
}

// parseNamePhone splits "name -phone". The name keeps its original casing.
func parseNamePhone(text string) (name, phone string, ok bool) {
	loc := phonePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}

	name = strings.TrimSpace(text[:loc[0]])
	if name == "" {
		return "", "", false
	}
	phone = text[loc[2]:loc[3]]
	return name, phone, true
}

// parseNameAmountPhone splits "name amount -phone".
func parseNameAmountPhone(text string) (name string, amount float64, phone string, ok bool) {
	loc := phonePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", 0, "", false
	}
	phone = text[loc[2]:loc[3]]

	parts := strings.Fields(strings.TrimSpace(text[:loc[0]]))
	if len(parts) < 2 {
		return "", 0, "", false
	}

	amount, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || amount <= 0 {
		return "", 0, "", false
	}

	name = strings.Join(parts[:len(parts)-1], " ")
	return name, amount, phone, true
}

// parseQuantityDashPrice splits the barcode detail turn "quantity-price".
func parseQuantityDashPrice(text string) (quantity int, price float64, ok bool) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || qty < 0 || qty != float64(int(qty)) {
		return 0, 0, false
	}
	price, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || price <= 0 {
		return 0, 0, false
	}

	return int(qty), price, true
}

// parsePrice parses a bare positive number.
func parsePrice(text string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// parseQuantity parses a bare positive whole number.
func parseQuantity(text string) (int, bool) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || qty <= 0 || qty != float64(int(qty)) {
		return 0, false
	}
	return int(qty), true
}
