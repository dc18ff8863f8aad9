package types

import "cmp"

type TekTiteOrdered interface {
	cmp.Ordered | bool
}

func AddressOf[T TekTiteOrdered](x T) *T {
	return &x
}
