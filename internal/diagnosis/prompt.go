package diagnosis

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every completion call.
const SystemPrompt = "You are a professional car mechanic that provides structured, smart diagnoses from sound and user text."

const noAudioMarker = "No audio was provided. You must rely only on the user's text inputs."

// BuildPrompt composes the user prompt for the completion call, embedding
// every supplied report field and the transcript (or an explicit no-audio
// marker). The closing instruction pins the six-section numbered format
// that ExtractBlock expects; the model is trusted, not forced, to honor it.
func BuildPrompt(req Request, transcript string) string {
	var b strings.Builder

	b.WriteString("You are an expert auto mechanic AI. Your job is to diagnose car problems based on the information provided.\n\n")
	b.WriteString("User description:\n")
	fmt.Fprintf(&b, "- Noise: %s\n", orPlaceholder(req.Description, NotSpecified))
	fmt.Fprintf(&b, "- Location: %s\n", orPlaceholder(req.Location, NotSpecified))
	fmt.Fprintf(&b, "- Situation: %s\n", orPlaceholder(req.Situation, NotSpecified))
	fmt.Fprintf(&b, "- Vehicle: %s\n", orPlaceholder(req.MakeModel, NotSpecified))
	fmt.Fprintf(&b, "- Notes: %s\n", orPlaceholder(req.Notes, "None"))
	b.WriteString("\n")

	if t := strings.TrimSpace(transcript); t != "" {
		fmt.Fprintf(&b, "Transcription of the car noise: %q\n", t)
	} else {
		b.WriteString(noAudioMarker + "\n")
	}

	b.WriteString("\nAlso, highlight what the user can check or fix by themselves at home. Focus on simple inspections, maintenance, or easy replacements before recommending a mechanic.\n")
	b.WriteString("\nPlease reply using this format:\n\n")
	b.WriteString("1. Provide a diagnosis: ...\n")
	b.WriteString("2. Add a personalized message: ...\n")
	b.WriteString("3. Include a GRAVITY level: ...\n")
	b.WriteString("4. Include a DANGER level: ...\n")
	b.WriteString("5. Provide a ROUGH COST ESTIMATE: ...\n")
	b.WriteString("6. End with a next recommended step: ...\n")

	return b.String()
}

func orPlaceholder(v, placeholder string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return placeholder
	}
	return v
}
