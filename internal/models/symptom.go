package models

type BuiltinSymptom struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// DefaultBuiltinSymptoms is the checklist offered when logging symptoms.
// Stored records may also carry custom names outside this list.
func DefaultBuiltinSymptoms() []BuiltinSymptom {
	return []BuiltinSymptom{
		{Name: "Cramps", Icon: "🩸"},
		{Name: "Headache", Icon: "🤕"},
		{Name: "Mood swings", Icon: "😢"},
		{Name: "Bloating", Icon: "🎈"},
		{Name: "Fatigue", Icon: "😴"},
		{Name: "Breast tenderness", Icon: "💔"},
		{Name: "Acne", Icon: "🔴"},
		{Name: "Back pain", Icon: "🦴"},
		{Name: "Nausea", Icon: "🤢"},
		{Name: "Spotting", Icon: "🩹"},
		{Name: "Irritability", Icon: "😤"},
		{Name: "Insomnia", Icon: "🌙"},
		{Name: "Food cravings", Icon: "🍫"},
	}
}
