package capture

// modifierSet tracks held modifier identities. Left and right variants are
// separate members; the predicate methods treat them as one.
type modifierSet map[Key]struct{}

func newModifierSet() modifierSet {
	return make(modifierSet, 7)
}

func (s modifierSet) press(k Key) {
	if k.IsModifier() {
		s[k] = struct{}{}
	}
}

func (s modifierSet) release(k Key) {
	delete(s, k)
}

func (s modifierSet) has(k Key) bool {
	_, ok := s[k]
	return ok
}

func (s modifierSet) ctrl() bool  { return s.has(ControlLeft) || s.has(ControlRight) }
func (s modifierSet) shift() bool { return s.has(ShiftLeft) || s.has(ShiftRight) }
func (s modifierSet) alt() bool   { return s.has(Alt) }
func (s modifierSet) meta() bool  { return s.has(MetaLeft) || s.has(MetaRight) }

func (s modifierSet) chord() chordState {
	return chordState{
		ctrl:  s.ctrl(),
		alt:   s.alt(),
		shift: s.shift(),
		meta:  s.meta(),
	}
}
