package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Daily task planner configuration
# Save as ~/.planner/planner.toml or ./planner.toml.
# Values can be overridden by PLANNER_* environment variables, a .env file,
# or CLI flags.

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
# log_file = "~/.planner/planner.log"   # the tui only logs when this is set

# Filter shown at startup: All, Completed, Incomplete
default_filter = "All"

# Category preselected in the add form: Work, Personal, Study
default_category = "Work"

# Rows per page in the task table
page_size = 5

# Start with the two sample tasks
seed = true

# IANA time zone that decides what "today" is (empty uses the local zone)
# timezone = "Asia/Ho_Chi_Minh"
`
}
