package cas

// Len returns the number of memoized artifacts.
func (m *MemoStore) Len() int {
	return m.cache.Len()
}
