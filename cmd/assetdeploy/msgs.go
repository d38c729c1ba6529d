package assetdeploy

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Deploy generated SVG assets into a destination tree"
	MsgDeployShort     = "Copy every mapped asset to its destination"
	MsgVerifyShort     = "Check deployed assets against the mapping"
	MsgPlanShort       = "Show resolved paths without deploying"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgFallbackWarning = "Warning: no config file or git repository found, using %s as project root\n"
	MsgWatchStopped    = "Stopped watching."

	// Error messages
	MsgErrInitPaths = "failed to initialize paths: %w"
	MsgErrNoCommand = "no command specified"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot     = "Project root (default: discovered from the working directory)"
	MsgFlagMapping  = "Mapping file (default: mapping.file setting)"
	MsgFlagSource   = "Source root holding one directory per category"
	MsgFlagDest     = "Destination root"
	MsgFlagLayout   = "Source layout: categorized or flat"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagDryRun   = "Check every entry without writing anything"
	MsgFlagFailFast = "Stop at the first failing entry"
	MsgFlagVerify   = "Verify the destination tree after deploying"
	MsgFlagWatch    = "Keep running and redeploy on changes"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/deploy-long.txt
	msgDeployLongRaw string
	MsgDeployLong    = strings.TrimSpace(msgDeployLongRaw)

	//go:embed msgs/deploy-example.txt
	msgDeployExampleRaw string
	MsgDeployExample    = strings.TrimRight(msgDeployExampleRaw, "\n")

	//go:embed msgs/verify-long.txt
	msgVerifyLongRaw string
	MsgVerifyLong    = strings.TrimSpace(msgVerifyLongRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
