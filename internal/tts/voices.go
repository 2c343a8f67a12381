package tts

// BlendingInfo explains the weighted voice-blend syntax to callers
const BlendingInfo = "Blend voices using syntax: 'voice1(weight1)+voice2(weight2)'. " +
	"Example: 'af_bella(2)+af_sky(1)' creates a voice that is " +
	"2 parts af_bella and 1 part af_sky."

// FallbackNote is attached to voice listings served from DefaultVoices
const FallbackNote = "Using default voice list (API not available)"

// DefaultVoices is served when the backend catalog cannot be fetched.
func DefaultVoices() []Voice {
	return []Voice{
		{Name: "af_bella", Gender: "female", Language: "en", Description: "Bella (American Female)"},
		{Name: "af_sky", Gender: "female", Language: "en", Description: "Sky (American Female)"},
		{Name: "af_nicole", Gender: "female", Language: "en", Description: "Nicole (American Female)"},
		{Name: "am_adam", Gender: "male", Language: "en", Description: "Adam (American Male)"},
		{Name: "am_michael", Gender: "male", Language: "en", Description: "Michael (American Male)"},
		{Name: "bf_emma", Gender: "female", Language: "en", Description: "Emma (British Female)"},
		{Name: "bf_isabella", Gender: "female", Language: "en", Description: "Isabella (British Female)"},
		{Name: "bm_george", Gender: "male", Language: "en", Description: "George (British Male)"},
		{Name: "bm_lewis", Gender: "male", Language: "en", Description: "Lewis (British Male)"},
	}
}
