package user

// Settings is the user's free-form preferences document.
type Settings map[string]any

// Merge returns a new document with patch's top-level keys laid over s.
func (s Settings) Merge(patch Settings) Settings {
	merged := make(Settings, len(s)+len(patch))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy.
func (s Settings) Clone() Settings {
	return s.Merge(nil)
}
