package maps

// MemoLen reports how many entries the aggregation memo holds.
func (s *Service) MemoLen() int { return s.cache.ItemCount() }
