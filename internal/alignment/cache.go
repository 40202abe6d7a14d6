package alignment

// Cache holds the last successful Calibration across frames so that brief
// marker occlusion does not blank out detection. It is a value: Fold returns
// the next cache state and never mutates the receiver or the Calibration.
type Cache struct {
	current *Calibration
	updates int
	misses  int
}

// Fold folds one frame's localization result into the cache. A non-nil
// result replaces the cached calibration unconditionally; nil keeps the
// previous one, even when the cache is still empty.
func (c Cache) Fold(result *Calibration) Cache {
	if result == nil {
		c.misses++
		return c
	}
	return Cache{current: result, updates: c.updates + 1}
}

// Current returns the calibration downstream consumers must use. The second
// value is false until the first successful localization.
func (c Cache) Current() (*Calibration, bool) {
	return c.current, c.current != nil
}

// Misses returns the number of consecutive frames since the last successful
// localization (or since start if there was none).
func (c Cache) Misses() int {
	return c.misses
}

// Updates returns how many times the calibration has been replaced.
func (c Cache) Updates() int {
	return c.updates
}
