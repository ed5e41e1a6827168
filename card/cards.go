package card

import (
	"fmt"
	"math/bits"
	"strings"
)

// Cards is a multiset of cards holding up to three copies of each card,
// enough for a three deck game.
//
// The representation is a 128-bit word split into two uint64 halves, with
// two bits per card at position 2*(16*suit + rank). Each suit occupies one
// 32-bit lane; within a lane only the 13 low card positions are ever
// non-zero. Multiset sum and difference are plain integer addition and
// subtraction of the whole word, which is correct as long as no per-card
// counter overflows two bits.
type Cards struct {
	lo, hi uint64
}

var (
	// NoCards is the empty multiset.
	NoCards = Cards{}
	// OneDeck holds one copy of each of the 52 cards.
	OneDeck = Cards{0x0155555501555555, 0x0155555501555555}
	// CommonDreck holds the ranks two through five of every suit.
	CommonDreck = Cards{0x0000005500000055, 0x0000005500000055}
)

// Of builds a multiset from the given cards.
func Of(cs ...Card) Cards {
	out := Cards{}
	for _, c := range cs {
		out = out.PlusCard(c)
	}
	return out
}

// Range returns one copy of every card in lo's suit with rank between
// lo.Rank() and hi.Rank() inclusive. The caller must ensure the two cards
// share a suit and lo.Rank() <= hi.Rank().
func Range(lo, hi Card) Cards {
	r := bitsOf(hi).shl1().sub(bitsOf(lo))
	return r.and(OneDeck)
}

func (c Cards) IsEmpty() bool {
	return c == NoCards
}

// Len returns the total number of cards counting multiplicity.
func (c Cards) Len() int {
	hiBits := c.and(OneDeck.shl1())
	loBits := c.and(OneDeck)
	return 2*(bits.OnesCount64(hiBits.lo)+bits.OnesCount64(hiBits.hi)) +
		bits.OnesCount64(loBits.lo) + bits.OnesCount64(loBits.hi)
}

// Max returns the highest present card. c must be non-empty.
func (c Cards) Max() Card {
	if c.hi != 0 {
		return Card((127 - bits.LeadingZeros64(c.hi)) / 2)
	}
	return Card((63 - bits.LeadingZeros64(c.lo)) / 2)
}

// Min returns the lowest present card. c must be non-empty.
func (c Cards) Min() Card {
	if c.lo != 0 {
		return Card(bits.TrailingZeros64(c.lo) / 2)
	}
	return Card((bits.TrailingZeros64(c.hi) + 64) / 2)
}

// InSuit returns the subset of c in suit s, keeping multiplicities.
func (c Cards) InSuit(s Suit) Cards {
	return c.and(fullSuit(s))
}

// Above returns one copy of each card in x's suit strictly above x's rank.
func (c Cards) Above(x Card) Cards {
	lowMask := bitsOf(x).shl1().sub(one128)
	return c.presence().and(oneSuit(x.Suit())).andNot(lowMask)
}

// Below returns one copy of each card in x's suit strictly below x's rank.
func (c Cards) Below(x Card) Cards {
	lowMask := bitsOf(x).sub(one128)
	return c.presence().and(oneSuit(x.Suit())).and(lowMask)
}

// Contains reports whether at least one copy of x is present.
func (c Cards) Contains(x Card) bool {
	return !c.and(bitsOf(x).or(bitsOf(x).shl1())).IsEmpty()
}

// ContainsAny reports whether the two sets intersect, ignoring
// multiplicities.
func (c Cards) ContainsAny(o Cards) bool {
	mask := o.presence()
	mask = mask.or(mask.shl1())
	return !c.and(mask).IsEmpty()
}

// ContainsAll reports multiset containment: every card of o is present in
// c with at least o's multiplicity. The word-wise subtraction is exact
// precisely when no per-card counter underflows, which the length identity
// detects.
func (c Cards) ContainsAll(o Cards) bool {
	diff := c.sub(o)
	return c.Len()-o.Len() == diff.Len()
}

// RemoveAll removes every copy of each card present in o from c and
// returns the removed cards.
func (c *Cards) RemoveAll(o Cards) Cards {
	mask := o.presence()
	mask = mask.or(mask.shl1())
	removed := c.and(mask)
	*c = c.andNot(removed)
	return removed
}

// Plus returns the multiset sum of c and o.
func (c Cards) Plus(o Cards) Cards {
	return c.add(o)
}

// Minus returns the multiset difference of c and o. o must be contained
// in c.
func (c Cards) Minus(o Cards) Cards {
	return c.sub(o)
}

func (c Cards) PlusCard(x Card) Cards {
	return c.add(bitsOf(x))
}

func (c Cards) MinusCard(x Card) Cards {
	return c.sub(bitsOf(x))
}

// Times returns n copies of c. n must be at most 3.
func (c Cards) Times(n int) Cards {
	out := Cards{}
	for i := 0; i < n; i++ {
		out = out.add(c)
	}
	return out
}

// MinRun returns the lowest card and the top of the contiguous same-suit
// run containing it. c must be non-empty.
func (c Cards) MinRun() (Card, Card) {
	min := c.Min()
	return min, c.TopOfRun(min)
}

// TopOfRun returns the highest card of the contiguous same-suit run of c
// containing x.
func (c Cards) TopOfRun(x Card) Card {
	b := c
	b = b.or(b.shr(1)).and(OneDeck)
	b = b.or(b.shl1())
	b = b.add(bitsOf(x))
	b = b.shr(2)
	b = b.xor(b.shr(1))
	b = b.and(OneDeck)
	return b.Min()
}

// Run is a contiguous same-suit ascending range of cards.
type Run struct {
	Lo, Hi Card
}

// Runs partitions c into maximal same-suit ascending contiguous runs, one
// copy per pass, in ascending order.
func (c Cards) Runs() []Run {
	var runs []Run
	for !c.IsEmpty() {
		lo, hi := c.MinRun()
		runs = append(runs, Run{lo, hi})
		c = c.Minus(Range(lo, hi))
	}
	return runs
}

// List returns the cards in descending order, repeating duplicates.
func (c Cards) List() []Card {
	out := make([]Card, 0, c.Len())
	for !c.IsEmpty() {
		x := c.Max()
		out = append(out, x)
		c = c.MinusCard(x)
	}
	return out
}

// Ascending returns the cards in ascending order, repeating duplicates.
func (c Cards) Ascending() []Card {
	out := make([]Card, 0, c.Len())
	for !c.IsEmpty() {
		x := c.Min()
		out = append(out, x)
		c = c.MinusCard(x)
	}
	return out
}

// String renders the cards grouped by suit, ranks high to low followed by
// the suit character, e.g. "[Q9S JD]".
func (c Cards) String() string {
	var b strings.Builder
	b.WriteByte('[')
	list := c.List()
	if len(list) == 0 {
		b.WriteByte(']')
		return b.String()
	}
	b.WriteByte(list[0].Rank().Char())
	prev := list[0].Suit()
	for _, x := range list[1:] {
		if x.Suit() != prev {
			b.WriteByte(prev.Char())
			b.WriteByte(' ')
		}
		b.WriteByte(x.Rank().Char())
		prev = x.Suit()
	}
	b.WriteByte(prev.Char())
	b.WriteByte(']')
	return b.String()
}

// ParseCards reads a card list in the compact textual form. The string is
// scanned right to left: a suit character sets the current suit and a rank
// character emits that rank in the current suit, so "J872H 76C" parses as
// JH 8H 7H 2H 7C 6C. Unrecognized characters are skipped.
func ParseCards(s string) Cards {
	out := Cards{}
	curSuit := Clubs
	for i := len(s) - 1; i >= 0; i-- {
		if r, ok := rankFromChar(s[i]); ok {
			out = out.PlusCard(NewCard(r, curSuit))
		} else if suit, ok := suitFromChar(s[i]); ok {
			curSuit = suit
		}
	}
	return out
}

// MarshalJSON encodes the multiset as an array of card strings in
// descending order, repeating duplicates.
func (c Cards) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range c.List() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteByte(x.Rank().Char())
		b.WriteByte(x.Suit().Char())
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return []byte(b.String()), nil
}

func (c *Cards) UnmarshalJSON(data []byte) error {
	out := Cards{}
	i := 0
	skipSpace := func() {
		for i < len(data) && (data[i] == ' ' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r') {
			i++
		}
	}
	skipSpace()
	if i == len(data) || data[i] != '[' {
		return fmt.Errorf("invalid cards: %s", data)
	}
	i++
	for {
		skipSpace()
		if i < len(data) && data[i] == ']' {
			break
		}
		if i+3 >= len(data) || data[i] != '"' || data[i+3] != '"' {
			return fmt.Errorf("invalid cards: %s", data)
		}
		x, err := ParseCard(string(data[i+1 : i+3]))
		if err != nil {
			return err
		}
		out = out.PlusCard(x)
		i += 4
		skipSpace()
		if i < len(data) && data[i] == ',' {
			i++
		}
	}
	*c = out
	return nil
}

var one128 = Cards{1, 0}

func bitsOf(x Card) Cards {
	p := 2 * uint(x)
	if p < 64 {
		return Cards{1 << p, 0}
	}
	return Cards{0, 1 << (p - 64)}
}

// oneSuit is the one-copy lane mask for suit s.
func oneSuit(s Suit) Cards {
	if s < 2 {
		return Cards{0x01555555 << (32 * uint(s)), 0}
	}
	return Cards{0, 0x01555555 << (32 * uint(s-2))}
}

// fullSuit is the both-counter-bits lane mask for suit s.
func fullSuit(s Suit) Cards {
	if s < 2 {
		return Cards{0x03ffffff << (32 * uint(s)), 0}
	}
	return Cards{0, 0x03ffffff << (32 * uint(s-2))}
}

// presence collapses each non-zero counter to a single low bit.
func (c Cards) presence() Cards {
	return c.or(c.shr(1)).and(OneDeck)
}

func (c Cards) and(o Cards) Cards {
	return Cards{c.lo & o.lo, c.hi & o.hi}
}

func (c Cards) andNot(o Cards) Cards {
	return Cards{c.lo &^ o.lo, c.hi &^ o.hi}
}

func (c Cards) or(o Cards) Cards {
	return Cards{c.lo | o.lo, c.hi | o.hi}
}

func (c Cards) xor(o Cards) Cards {
	return Cards{c.lo ^ o.lo, c.hi ^ o.hi}
}

func (c Cards) add(o Cards) Cards {
	lo, carry := bits.Add64(c.lo, o.lo, 0)
	hi, _ := bits.Add64(c.hi, o.hi, carry)
	return Cards{lo, hi}
}

func (c Cards) sub(o Cards) Cards {
	lo, borrow := bits.Sub64(c.lo, o.lo, 0)
	hi, _ := bits.Sub64(c.hi, o.hi, borrow)
	return Cards{lo, hi}
}

func (c Cards) shl1() Cards {
	return Cards{c.lo << 1, c.hi<<1 | c.lo>>63}
}

// shr shifts right by n bits, 1 <= n <= 63.
func (c Cards) shr(n uint) Cards {
	return Cards{c.lo>>n | c.hi<<(64-n), c.hi >> n}
}
