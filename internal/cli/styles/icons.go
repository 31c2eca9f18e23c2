package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "" // tag
	IconGitBranch = "" // git branch
	IconCalendar  = "" // calendar
	IconGithub    = "" // github
	IconGo        = "" // go gopher

	IconCheck    = "" // check
	IconX        = "" // x
	IconWarning  = "" // warning
	IconInfo     = "" // info
	IconConfig   = "" // config
	IconSocket   = "" // plug
	IconDatabase = "" // database

	IconPane   = "" // columns
	IconGlobe  = "" // globe
	IconArrow  = "" // arrow right
	IconCursor = "" // chevron-right
	IconPulse  = "" // heartbeat
)
