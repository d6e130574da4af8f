package native

// setLoadedForTest lets tests exercise the not-loaded gate.
func setLoadedForTest(v bool) {
	loaded.Store(v)
}
