package twilio

import (
	"github.com/rotisserie/eris"
	"github.com/twilio/twilio-go/twiml"
)

// Voice settings shared by every spoken prompt.
const (
	Voice    = "Polly.Joanna"
	Language = "en-US"
)

// Say speaks text in the default voice.
func Say(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: text, Voice: Voice}
}

// SayLocalized speaks text in the default voice with an explicit language.
func SayLocalized(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: text, Voice: Voice, Language: Language}
}

// Pause waits for one second.
func Pause() *twiml.VoicePause {
	return &twiml.VoicePause{Length: "1"}
}

// GatherSpeech collects a spoken answer and posts it to action.
func GatherSpeech(action string, prompt ...twiml.Element) *twiml.VoiceGather {
	return &twiml.VoiceGather{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		SpeechTimeout: "auto",
		Language:      Language,
		InnerElements: prompt,
	}
}

// Hangup ends the call.
func Hangup() *twiml.VoiceHangup {
	return &twiml.VoiceHangup{}
}

// Render serializes a <Response> document.
func Render(elements ...twiml.Element) (string, error) {
	doc, err := twiml.Voice(elements)
	if err != nil {
		return "", eris.Wrap(err, "twilio: render twiml")
	}
	return doc, nil
}
