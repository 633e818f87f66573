package cli

// Command group IDs shown in the root help output.
const (
	GroupGenerate      = "generate"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)
