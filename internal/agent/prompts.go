package agent

import (
	"fmt"
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
)

var toneDescriptions = map[model.Tone]string{
	model.ToneSales:    "persuasive and value-focused",
	model.ToneSupport:  "helpful and empathetic",
	model.ToneReminder: "gentle and informative",
	model.ToneFollowUp: "courteous and persistent",
}

var channelGuidelines = map[model.Channel]string{
	model.ChannelSMS:   "Keep it under 160 characters, concise and actionable.",
	model.ChannelCall:  "Write a natural conversational script for text-to-speech. Use proper pauses and inflection markers.",
	model.ChannelEmail: "Write a complete email with subject line, greeting, body, and signature. Professional formatting.",
}

const messagePrompt = `You are an expert copywriter creating %[1]s outreach messages.

Channel: %[2]s
Language: %[3]s
Tone: %[4]s
Guidelines: %[5]s

Template with variables filled in:
%[6]s

Contact details:
- Name: %[7]s
- Country: %[8]s

Create a personalized, %[1]s message for %[2]s that:
1. Uses the template as a base but enhances it naturally
2. Feels personal and not automated
3. Follows the channel guidelines strictly
4. Is in %[3]s
5. Includes a clear call-to-action

%[9]s`

const callScriptPrompt = `Create a voice call script for an AI agent making an outbound call.

Contact: %s
Template: %s
Tone: %s
Language: %s

Generate a structured call script with:
1. Greeting (warm introduction)
2. Main pitch (value proposition based on template)
3. Common objection handlers (3-4 scenarios)
4. Closing (call-to-action)

Return as JSON:
{
  "greeting": "...",
  "mainPitch": "...",
  "objectionHandlers": {
    "not_interested": "...",
    "too_busy": "...",
    "need_more_info": "..."
  },
  "closing": "..."
}`

const classifySystem = `You classify customer responses to our outreach messages.

Classify their intent as one of:
- interested: They want to proceed, learn more, or take action
- not_interested: They declined or said no
- ask_later: They want to be contacted later
- unsubscribe: They want to stop receiving messages
- question: They have a question or need clarification

Also determine:
1. Confidence level (0-100)
2. Whether this needs human escalation
3. A suggested automated reply if appropriate

Respond in JSON format:
{
  "intent": "interested|not_interested|ask_later|unsubscribe|question",
  "confidence": 85,
  "suggestedReply": "optional reply text",
  "needsEscalation": false,
  "reasoning": "brief explanation"
}`

const classifyPrompt = `Analyze this customer response to our outreach message.

Our message: %s

Their response: %s

Context: %s`

func buildMessagePrompt(p MessageParams) string {
	country := strings.TrimSpace(p.Contact.Country)
	if country == "" {
		country = "Unknown"
	}

	format := "Return only the message text, no metadata."
	if p.Channel == model.ChannelEmail {
		format = "Format as:\nSubject: [subject line]\n\n[email body]"
	}

	tone := toneDescriptions[p.Tone]
	if tone == "" {
		tone = string(p.Tone)
	}

	return fmt.Sprintf(messagePrompt,
		p.Tone,
		p.Channel,
		languageName(p.Language),
		tone,
		channelGuidelines[p.Channel],
		p.Template,
		p.Contact.FullName,
		country,
		format,
	)
}

func buildCallScriptPrompt(p MessageParams) string {
	return fmt.Sprintf(callScriptPrompt, p.Contact.FullName, p.Template, p.Tone, languageName(p.Language))
}

func buildClassifyPrompt(original, reply, replyContext string) string {
	return fmt.Sprintf(classifyPrompt, original, reply, replyContext)
}
