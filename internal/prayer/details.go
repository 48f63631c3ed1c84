package prayer

// Rakah counts the units of a prayer.
type Rakah struct {
	Fard         int `json:"fard"`
	SunnahBefore int `json:"sunnah_before,omitempty"`
	SunnahAfter  int `json:"sunnah_after,omitempty"`
}

// Detail is reference information shown alongside a prayer's time.
type Detail struct {
	Event Event    `json:"-"`
	Rakah Rakah    `json:"rakah"`
	Notes []string `json:"notes"`
}

var details = map[Event]Detail{
	Fajr: {
		Event: Fajr,
		Rakah: Rakah{Fard: 2, SunnahBefore: 2},
		Notes: []string{
			"Begins at dawn and ends at sunrise",
			"The two sunnah rak'ah before Fajr are highly emphasized",
		},
	},
	Dhuhr: {
		Event: Dhuhr,
		Rakah: Rakah{Fard: 4, SunnahBefore: 4, SunnahAfter: 2},
		Notes: []string{
			"Begins after the sun passes its zenith",
			"Recited silently",
		},
	},
	Asr: {
		Event: Asr,
		Rakah: Rakah{Fard: 4, SunnahBefore: 4},
		Notes: []string{
			"Begins when an object's shadow reaches the Asr length for the chosen school",
			"Should not be delayed until near Maghrib",
		},
	},
	Maghrib: {
		Event: Maghrib,
		Rakah: Rakah{Fard: 3, SunnahAfter: 2},
		Notes: []string{
			"Begins immediately after sunset",
			"First two rak'ah are recited aloud, the third silently",
		},
	},
	Isha: {
		Event: Isha,
		Rakah: Rakah{Fard: 4, SunnahAfter: 2},
		Notes: []string{
			"Begins after twilight disappears",
			"Witr (1-3 rak'ah) is prayed after Isha",
		},
	},
}

// Details returns reference information for e. Sunrise has none.
func Details(e Event) (Detail, bool) {
	d, ok := details[e]
	return d, ok
}
