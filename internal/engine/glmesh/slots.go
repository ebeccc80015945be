package glmesh

// slots hands out small integer handles for stored values and recycles the
// ones that are freed. Handle 0 is never issued.
type slots[T any] struct {
	items []T
	used  []bool
	free  []uint32
	live  int
}

func (s *slots[T]) put(v T) uint32 {
	s.live++
	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.items[h-1] = v
		s.used[h-1] = true
		return h
	}
	s.items = append(s.items, v)
	s.used = append(s.used, true)
	return uint32(len(s.items))
}

func (s *slots[T]) get(h uint32) (T, bool) {
	var zero T
	if h == 0 || int(h) > len(s.items) || !s.used[h-1] {
		return zero, false
	}
	return s.items[h-1], true
}

func (s *slots[T]) remove(h uint32) (T, bool) {
	v, ok := s.get(h)
	if !ok {
		return v, false
	}
	var zero T
	s.items[h-1] = zero
	s.used[h-1] = false
	s.free = append(s.free, h)
	s.live--
	return v, true
}
