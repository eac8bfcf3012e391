package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
)

var (
	ErrUnknownRef   = errors.New("unknown reference")
	ErrAmbiguousRef = errors.New("ambiguous reference")
)

func (s *Shell) resolveProduct(ref string) (string, error) {
	var products []model.Product
	if s.cart != nil {
		products = s.cart.Products()
	}
	return resolveRef(ref, "product", products, func(p model.Product) string { return p.ID })
}

func (s *Shell) resolveOrder(ref string) (string, error) {
	return resolveRef(ref, "order", s.orders, func(o model.Order) string { return o.ID })
}

// resolveRef maps a 1-based row number, a full ID or a unique ID prefix to an ID.
// Row numbers win over IDs that happen to look numeric.
func resolveRef[T any](ref, kind string, items []T, id func(T) string) (string, error) {
	const op = "resolve reference"
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", client.Invalid(op, ErrUnknownRef, fmt.Sprintf("Which %s?", kind))
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return id(items[n-1]), nil
	}
	for _, it := range items {
		if id(it) == ref {
			return ref, nil
		}
	}

	var match string
	matches := 0
	for _, it := range items {
		if v := id(it); strings.HasPrefix(v, ref) {
			match = v
			matches++
		}
	}
	switch matches {
	case 0:
		return "", client.Invalid(op, ErrUnknownRef, fmt.Sprintf("No %s matches %q.", kind, ref))
	case 1:
		return match, nil
	default:
		return "", client.Invalid(op, ErrAmbiguousRef, fmt.Sprintf("%q matches more than one %s.", ref, kind))
	}
}
