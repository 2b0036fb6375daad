package book

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/shopspring/decimal"
)

// decimalAscending orders prices from lowest to highest — the ask side's
// "improving" direction.
func decimalAscending(a, b interface{}) int {
	return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
}

// decimalDescending orders prices from highest to lowest — the bid side's
// "improving" direction. Bid and ask are the same structure with an
// inverted comparator, per spec §9 ("Polymorphism over order sides").
func decimalDescending(a, b interface{}) int {
	return b.(decimal.Decimal).Cmp(a.(decimal.Decimal))
}

// sideBook is an ordered map from price to priceLevel for one side of one
// contract's book (spec §4.2), backed by the teacher's red-black tree
// dependency (github.com/emirpasic/gods) generalized from an int64-keyed
// tree to a decimal.Decimal-keyed one with a side-specific comparator.
type sideBook struct {
	tree *redblacktree.Tree
}

func newSideBook(bid bool) *sideBook {
	cmp := decimalAscending
	if bid {
		cmp = decimalDescending
	}
	return &sideBook{tree: redblacktree.NewWith(cmp)}
}

// best returns the improving-side top level, or nil if the side is empty.
func (sb *sideBook) best() *PriceLevel {
	node := sb.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value.(*PriceLevel)
}

// bestPrice returns the improving-side top price and whether it exists.
func (sb *sideBook) bestPrice() (decimal.Decimal, bool) {
	lvl := sb.best()
	if lvl == nil {
		return decimal.Decimal{}, false
	}
	return lvl.price, true
}

// levelAt returns the level at price, creating it if insertAllowed is true
// and no such level exists yet.
func (sb *sideBook) levelAt(price decimal.Decimal, insertAllowed bool) *PriceLevel {
	if v, found := sb.tree.Get(price); found {
		return v.(*PriceLevel)
	}
	if !insertAllowed {
		return nil
	}
	lvl := newPriceLevel(price)
	sb.tree.Put(price, lvl)
	return lvl
}

// dropIfEmpty removes the level at price from the tree once its queue has
// emptied, per spec §3 "only non-empty levels are present".
func (sb *sideBook) dropIfEmpty(price decimal.Decimal) {
	if v, found := sb.tree.Get(price); found {
		if v.(*PriceLevel).isEmpty() {
			sb.tree.Remove(price)
		}
	}
}

// levels returns every non-empty level in the side's improving-direction
// order. Used for snapshotting and depth reporting, never on the matching
// hot path.
func (sb *sideBook) levels() []*PriceLevel {
	it := sb.tree.Iterator()
	it.Begin()
	out := make([]*PriceLevel, 0, sb.tree.Size())
	for it.Next() {
		out = append(out, it.Value().(*PriceLevel))
	}
	return out
}
