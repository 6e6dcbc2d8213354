package models

// Result is what one processed upload produces. Paths are public URLs
// below the static prefix.
type Result struct {
	OriginalImage    string `json:"original_image"`
	ExtractedText    string `json:"extracted_text"`
	BrailleText      string `json:"braille_text"`
	AudioFile        string `json:"audio_file"`
	DetectedLanguage string `json:"detected_lang"`
	SpeechLanguage   string `json:"speech_lang"`
}
