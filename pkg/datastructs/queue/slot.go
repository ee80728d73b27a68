package queue

// slot is a handle into the arena, kept distinct from external keys.
type slot int

// link is an optional slot. The zero value is "no link".
type link struct {
	at slot
	ok bool
}

// none is the absent link.
var none = link{}

// to returns a link pointing at s.
func to(s slot) link {
	return link{at: s, ok: true}
}

// is reports whether l points at s.
func (l link) is(s slot) bool {
	return l.ok && l.at == s
}
