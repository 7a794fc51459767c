package schema

// Core is one of the seven coarse emotion buckets every fine-grained
// emotion reading resolves to.
type Core int

const (
	CoreAnger Core = iota
	CoreDisgust
	CoreFear
	CoreHappiness
	CoreSadness
	CoreSurprise
	CoreNeutral

	// CoreUnknown marks a reading whose name is missing from the lookup table.
	CoreUnknown Core = -1
)

// CoreCount is the number of core buckets.
const CoreCount = 7

// CoreNames is ordered by Core value and is the order of every
// externally exposed per-core array.
var CoreNames = [CoreCount]string{
	"Anger",
	"Disgust",
	"Fear",
	"Happiness",
	"Sadness",
	"Surprise",
	"Neutral",
}

// EmotionCoreMap resolves an emotion name produced by the detector to its core bucket.
var EmotionCoreMap = map[string]Core{
	"Anger": CoreAnger,

	"Guilt":       CoreDisgust,
	"Annoyance":   CoreDisgust,
	"Contempt":    CoreDisgust,
	"Disapproval": CoreDisgust,
	"Disgust":     CoreDisgust,
	"Shame":       CoreDisgust,

	"Anxiety":     CoreFear,
	"Awkwardness": CoreFear,
	"Distress":    CoreFear,
	"Doubt":       CoreFear,
	"Envy":        CoreFear,
	"Fear":        CoreFear,
	"Horror":      CoreFear,

	"Admiration":             CoreHappiness,
	"Adoration":              CoreHappiness,
	"Aesthetic Appreciation": CoreHappiness,
	"Amusement":              CoreHappiness,
	"Contentment":            CoreHappiness,
	"Craving":                CoreHappiness,
	"Desire":                 CoreHappiness,
	"Determination":          CoreHappiness,
	"Ecstasy":                CoreHappiness,
	"Enthusiasm":             CoreHappiness,
	"Entrancement":           CoreHappiness,
	"Excitement":             CoreHappiness,
	"Gratitude":              CoreHappiness,
	"Interest":               CoreHappiness,
	"Joy":                    CoreHappiness,
	"Love":                   CoreHappiness,
	"Nostalgia":              CoreHappiness,
	"Pride":                  CoreHappiness,
	"Romance":                CoreHappiness,
	"Sarcasm":                CoreHappiness,
	"Satisfaction":           CoreHappiness,
	"Triumph":                CoreHappiness,
	"Concentration":          CoreHappiness,

	"Boredom":       CoreNeutral,
	"Calmness":      CoreNeutral,
	"Contemplation": CoreNeutral,
	"Tiredness":     CoreNeutral,

	"Disappointment": CoreSadness,
	"Empathic Pain":  CoreSadness,
	"Pain":           CoreSadness,
	"Sadness":        CoreSadness,
	"Sympathy":       CoreSadness,

	"Awe":                 CoreSurprise,
	"Confusion":           CoreSurprise,
	"Embarrassment":       CoreSurprise,
	"Realization":         CoreSurprise,
	"Relief":              CoreSurprise,
	"Surprise (negative)": CoreSurprise,
	"Surprise (positive)": CoreSurprise,
}

// CoreOf returns the core bucket of an emotion name, or CoreUnknown.
func CoreOf(emotion string) Core {
	if c, ok := EmotionCoreMap[emotion]; ok {
		return c
	}
	return CoreUnknown
}

func (c Core) String() string {
	if c < 0 || int(c) >= CoreCount {
		return "Unknown"
	}
	return CoreNames[c]
}
