package factcheck

// BuildPrompt wraps the claim in the instruction sent as the user message
func BuildPrompt(claim string) string {
	return "Carefully analyze this claim and determine if it is true, false, or partially true. Provide evidence and citations:\n" +
		"  \n" +
		"  \"" + claim + "\"\n" +
		"  \n" +
		"  Format your response to clearly state the verdict and explain the reasoning."
}
